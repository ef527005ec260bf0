/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	perf "github.com/hodgesds/perf-utils"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/InputParameters"
	"github.com/notargets/gotealeaf/model_problems/Diffusion2D"
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

type Model2D struct {
	ICFile    string
	Solver    string // Overrides of the input deck, empty or zero keeps the deck value
	NumChunks int
	EndStep   int
	LogLevel  string
	LogFile   string
	Profile   string
	Perf      bool
}

const exampleFile = `
########################################
Title: "Hot spot"
XMax: 10.
YMax: 10.
XCells: 100
YCells: 100
DtInit: 0.004
EndStep: 10
Solver: cg # Can be jacobi, cheby or ppcg
States:
  - Density: 100.
    Energy: 0.0001
  - Density: 0.1
    Energy: 25.
    Geometry: rectangle
    XMin: 0.
    XMax: 1.
    YMin: 1.
    YMax: 2.
########################################
`

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional heat conduction, reading the problem from a YAML input deck",
	Long:  `Two dimensional heat conduction, reading the problem from a YAML input deck`,
	Run: func(cmd *cobra.Command, args []string) {
		m2d := &Model2D{
			ICFile:    viper.GetString("inputConditionsFile"),
			Solver:    viper.GetString("solver"),
			NumChunks: viper.GetInt("chunks"),
			EndStep:   viper.GetInt("endStep"),
			LogLevel:  viper.GetString("logLevel"),
			LogFile:   viper.GetString("logFile"),
			Profile:   viper.GetString("profile"),
			Perf:      viper.GetBool("perf"),
		}
		ip, err := processInput(m2d)
		if err == nil {
			err = Run2D(m2d, ip, os.Stderr)
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D, err error) {
	var data []byte
	if len(m2d.ICFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		return
	}
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		return
	}
	ip = InputParameters.NewInputParameters2D()
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("parsing %s: %w", m2d.ICFile, err)
		return
	}
	if len(m2d.Solver) != 0 {
		ip.Solver = m2d.Solver
	}
	if m2d.NumChunks > 0 {
		ip.NumChunks = m2d.NumChunks
	}
	if m2d.EndStep > 0 {
		ip.EndStep = m2d.EndStep
	}
	err = ip.Validate()
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- mesh and states\n\t- solver and tolerances")
	TwoDCmd.Flags().StringP("solver", "s", "", "override the solver: jacobi, cg, cheby or ppcg")
	TwoDCmd.Flags().IntP("chunks", "n", 0, "override the number of chunks")
	TwoDCmd.Flags().IntP("endStep", "e", 0, "override the number of timesteps")
	TwoDCmd.Flags().String("profile", "", "write a cpu or mem profile of the run")
	TwoDCmd.Flags().Bool("perf", false, "count the CPU instructions of the run")
	for _, name := range []string{"inputConditionsFile", "solver", "chunks", "endStep", "profile", "perf"} {
		_ = viper.BindPFlag(name, TwoDCmd.Flags().Lookup(name))
	}
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D, out io.Writer) (err error) {
	var (
		logger *logrus.Logger
		s      Diffusion2D.Settings
		d      *Diffusion2D.Diffusion
	)
	if logger, err = utils.NewLogger(m2d.LogLevel, out); err != nil {
		return
	}
	if len(m2d.LogFile) != 0 {
		var f *os.File
		if f, err = os.Create(m2d.LogFile); err != nil {
			return
		}
		defer f.Close()
		logger.SetOutput(io.MultiWriter(out, f))
	}
	ip.Print(logger)
	if s, err = Diffusion2D.NewSettings(ip); err != nil {
		return
	}
	if d, err = Diffusion2D.NewDiffusion(s, logger); err != nil {
		return
	}
	defer d.Free()

	switch m2d.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, must be cpu or mem", m2d.Profile)
	}

	var (
		solved   bool
		solveErr error
		solve    = func() error {
			solved = true
			_, solveErr = d.Solve()
			return solveErr
		}
	)
	if m2d.Perf {
		pv, perr := perf.CPUInstructions(solve)
		if perr == nil {
			logger.WithField("instructions", pv.Value).Info("hardware counters")
		} else if solveErr == nil {
			logger.WithField("error", perr.Error()).Warn("hardware counters unavailable")
		}
	}
	if !solved {
		_ = solve()
	}
	if err = solveErr; err != nil {
		return
	}
	energy := d.GatherField(types.Energy)
	if utils.IsNan(energy) {
		return fmt.Errorf("final energy field contains NaN")
	}
	var (
		hot  = floats.MaxIdx(energy)
		i, j = hot%d.Layout.Nx, hot/d.Layout.Nx
	)
	logger.WithFields(logrus.Fields{
		"min":       floats.Min(energy),
		"max":       energy[hot],
		"max_cell":  fmt.Sprintf("(%d,%d)", i, j),
		"max_chunk": d.Layout.Owner(i, j),
	}).Info("final energy")
	return
}
