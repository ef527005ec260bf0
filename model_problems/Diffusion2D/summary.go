package Diffusion2D

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/utils"
)

// FieldSummary integrates the domain, chunk summaries are added in chunk order.
func (d *Diffusion) FieldSummary() (sum kernels.Summary) {
	var (
		parts = make([]kernels.Summary, len(d.Chunks))
	)
	_ = d.forEachChunk(func(n int, c *grid2D.Chunk) error {
		parts[n] = kernels.FieldSummary(c)
		return nil
	})
	for _, p := range parts {
		sum = sum.Add(p)
	}
	return
}

// CheckFinalTemperature compares the integrated temperature with the expected value.
func (d *Diffusion) CheckFinalTemperature(sum kernels.Summary) (err error) {
	var (
		expected = d.ExpectedTemperature
		relDiff  = math.Abs(sum.Temp - expected)
	)
	if expected != 0 {
		relDiff /= math.Abs(expected)
	}
	fields := logrus.Fields{
		"temperature": sum.Temp,
		"expected":    expected,
		"difference":  relDiff,
	}
	if relDiff > TemperatureTolerance || math.IsNaN(relDiff) {
		d.Logger.WithFields(fields).Error("temperature check FAILED")
		err = fmt.Errorf("%w: temperature %.15e, expected %.15e", ErrTemperatureCheck, sum.Temp, expected)
		return
	}
	d.Logger.WithFields(fields).Info("temperature check PASSED")
	return
}

func (d *Diffusion) PrintInitialization(steps int) {
	d.Logger.WithFields(logrus.Fields{
		"cells":          fmt.Sprintf("%d x %d", d.Mesh.XCells, d.Mesh.YCells),
		"chunks":         fmt.Sprintf("%d x %d", d.Layout.ChunksX, d.Layout.ChunksY),
		"halo_depth":     d.HaloDepth,
		"solver":         d.Solver.String(),
		"coefficient":    d.Coefficient.String(),
		"preconditioner": d.Preconditioner.String(),
		"dt":             d.DtInit,
		"steps":          steps,
		"eps":            d.Eps,
		"max_iters":      d.MaxIters,
	}).Info("starting diffusion")
}

func (d *Diffusion) PrintUpdate(res StepResult) {
	fields := logrus.Fields{
		"step":       res.Step,
		"time":       res.Time,
		"solver":     res.Solver.String(),
		"iterations": res.Iterations,
		"error":      res.Error,
		"elapsed":    res.Elapsed,
	}
	if res.EigMax > 0 {
		fields["eig_min"], fields["eig_max"] = res.EigMin, res.EigMax
		fields["poly_iterations"] = res.PolyIterations
	}
	if d.CheckResult {
		fields["residual"], fields["operator_residual"] = res.Residual, res.OperatorResidual
	}
	entry := d.Logger.WithFields(fields)
	switch {
	case res.Fallback:
		entry.Warn("step solved by the Jacobi fallback")
	case !res.Converged:
		entry.Warn("solver reached max iterations without converging")
	default:
		entry.Info("step solved")
	}
}

func (d *Diffusion) PrintSummary(sum kernels.Summary) {
	var density float64
	if sum.Vol > 0 {
		density = sum.Mass / sum.Vol
	}
	d.Logger.WithFields(logrus.Fields{
		"step":    d.Steps,
		"time":    d.Time,
		"volume":  sum.Vol,
		"mass":    sum.Mass,
		"density": density,
		"energy":  sum.IE,
		"u":       sum.Temp,
	}).Info("field summary")
}

func (d *Diffusion) PrintFinal(elapsed time.Duration, steps int) {
	var (
		cells = d.Mesh.XCells * d.Mesh.YCells
		rate  float64
	)
	if steps > 0 {
		rate = float64(elapsed.Microseconds()) / float64(cells*steps)
	}
	d.Logger.WithFields(logrus.Fields{
		"steps":   steps,
		"elapsed": elapsed,
		"rate":    fmt.Sprintf("%8.5f us/(cell*step)", rate),
		"memory":  utils.GetMemUsage(),
	}).Info("diffusion finished")
}
