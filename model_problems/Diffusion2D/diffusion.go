package Diffusion2D

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gotealeaf/geometry2D"
	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/halo"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

var (
	// ErrBreakdown reports a solver recurrence producing a non finite coefficient.
	ErrBreakdown = errors.New("solver breakdown")
	// ErrTemperatureCheck reports a final temperature away from the expected value.
	ErrTemperatureCheck = errors.New("temperature check failed")
)

// TemperatureTolerance is the relative tolerance of the final temperature check.
const TemperatureTolerance = 1.e-8

// solverDriver solves one timestep's linear system, filling in the result.
type solverDriver func(res *StepResult, rx, ry float64) error

/*
	Diffusion advances the implicit heat equation on a block decomposed grid. Each
	timestep solves (I + dt K) u = u0 for the temperature u = density * energy with one
	of the CG, Chebyshev, PPCG or Jacobi drivers, then converts u back into energy.
*/
type Diffusion struct {
	Settings
	Layout    *utils.ChunkLayout
	Chunks    []*grid2D.Chunk
	Exchanger *halo.Exchanger
	Logger    *logrus.Logger
	Time      float64
	Steps     int
	Drivers   map[types.SolverType]solverDriver // Replaceable for testing
	partials  []float64                         // One reduction slot per chunk
}

// StepResult describes the linear solve of one timestep.
type StepResult struct {
	Step                int
	Time                float64
	Solver              types.SolverType
	Iterations          int
	Error               float64
	Converged           bool
	EigMin, EigMax      float64
	PolyIterations      int // Chebyshev steps or PPCG outer steps after the switch
	EstimatedIterations int
	Fallback            bool
	Residual            float64 // r.r of the kernel residual, with CheckResult
	OperatorResidual    float64 // r.r against the assembled sparse operator, with CheckResult
	Elapsed             time.Duration
}

func NewDiffusion(s Settings, logger *logrus.Logger) (d *Diffusion, err error) {
	if err = s.Validate(); err != nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	d = &Diffusion{
		Settings: s,
		Logger:   logger,
	}
	if d.Layout, err = utils.NewChunkLayout(s.Mesh.XCells, s.Mesh.YCells, s.NumChunks); err != nil {
		return nil, err
	}
	d.Chunks = make([]*grid2D.Chunk, d.Layout.NumChunks())
	d.partials = make([]float64, len(d.Chunks))
	for n := range d.Chunks {
		if err = d.initChunk(n); err != nil {
			d.Free()
			return nil, fmt.Errorf("chunk %d: %w", n, err)
		}
	}
	d.Exchanger = halo.NewExchanger(halo.NewMailBoxTransport(len(d.Chunks)))
	d.Drivers = map[types.SolverType]solverDriver{
		types.CGSolver:     d.cgDriver,
		types.ChebySolver:  d.chebyDriver,
		types.PPCGSolver:   d.ppcgDriver,
		types.JacobiSolver: d.jacobiDriver,
	}
	return
}

func (d *Diffusion) initChunk(n int) (err error) {
	var (
		left, right, bottom, top = d.Layout.Extent(n)
		c                        *grid2D.Chunk
	)
	if right-left < d.HaloDepth || top-bottom < d.HaloDepth {
		err = fmt.Errorf("%d x %d cells cannot feed a halo of depth %d",
			right-left, top-bottom, d.HaloDepth)
		return
	}
	if c, err = grid2D.NewChunk(n, right-left, top-bottom, d.HaloDepth, d.MaxIters); err != nil {
		return
	}
	d.Chunks[n] = c
	c.Neighbours = d.Layout.Neighbours(n)
	geometry2D.SetChunkData(c, d.Mesh, left, bottom)
	if err = geometry2D.SetChunkState(c, d.States); err != nil {
		return
	}
	kernels.RestoreEnergy(c)
	return
}

// Free releases the chunk storage, the Diffusion is unusable afterwards.
func (d *Diffusion) Free() {
	for _, c := range d.Chunks {
		if c != nil {
			c.Free()
		}
	}
}

// Solve runs every timestep, logging progress and field summaries, and returns the
// final field summary.
func (d *Diffusion) Solve() (sum kernels.Summary, err error) {
	var (
		steps   = d.NumSteps()
		elapsed time.Duration
		res     StepResult
	)
	d.PrintInitialization(steps)
	d.PrintSummary(d.FieldSummary())
	for tt := 0; tt < steps; tt++ {
		if res, err = d.SolveStep(); err != nil {
			return
		}
		elapsed += res.Elapsed
		d.PrintUpdate(res)
		if d.SummaryFrequency > 0 && (tt+1)%d.SummaryFrequency == 0 && tt != steps-1 {
			d.PrintSummary(d.FieldSummary())
		}
	}
	sum = d.FieldSummary()
	d.PrintSummary(sum)
	d.PrintFinal(elapsed, steps)
	if d.CheckTemperature {
		err = d.CheckFinalTemperature(sum)
	}
	return
}

// SolveStep advances the solution by one timestep.
func (d *Diffusion) SolveStep() (res StepResult, err error) {
	var (
		start  = time.Now()
		dx, dy = d.Mesh.Dx(), d.Mesh.Dy()
		rx     = d.DtInit / (dx * dx)
		ry     = d.DtInit / (dy * dy)
	)
	if err = d.exchange(2, types.Energy, types.Density); err != nil {
		return
	}
	res, err = d.solve(d.Solver, rx, ry)
	if errors.Is(err, ErrBreakdown) && d.BreakdownFallback && d.Solver != types.JacobiSolver {
		d.Logger.WithFields(logrus.Fields{
			"step":   d.Steps + 1,
			"solver": d.Solver.String(),
			"error":  err.Error(),
		}).Warn("solver broke down, repeating the step with Jacobi")
		res, err = d.solve(types.JacobiSolver, rx, ry)
		res.Fallback = true
	}
	if err != nil {
		err = fmt.Errorf("step %d: %w", d.Steps+1, err)
		return
	}
	if err = d.finish(&res); err != nil {
		return
	}
	d.Steps++
	d.Time += d.DtInit
	res.Step, res.Time = d.Steps, d.Time
	res.Elapsed = time.Since(start)
	return
}

func (d *Diffusion) solve(solver types.SolverType, rx, ry float64) (res StepResult, err error) {
	driver, ok := d.Drivers[solver]
	if !ok {
		err = fmt.Errorf("no driver for solver %v", solver)
		return
	}
	res.Solver = solver
	err = driver(&res, rx, ry)
	res.Converged = math.Abs(res.Error) < d.Eps
	return
}

// finish optionally checks the residual, then turns u back into energy and keeps it
// as the starting energy of the next step.
func (d *Diffusion) finish(res *StepResult) (err error) {
	if d.CheckResult {
		if err = d.exchange(1, types.U); err != nil {
			return
		}
		d.eachChunk(kernels.CalculateResidual)
		res.Residual = d.sumChunks(func(c *grid2D.Chunk) float64 {
			return kernels.Calculate2Norm(c, types.R)
		})
		if res.OperatorResidual, err = d.OperatorResidual(); err != nil {
			return
		}
	}
	d.eachChunk(kernels.Finalise)
	if err = d.exchange(1, types.Energy); err != nil {
		return
	}
	d.eachChunk(kernels.StoreEnergy)
	return
}

// checkBreakdown fails when a recurrence coefficient is no longer finite.
func checkBreakdown(solver string, iter int, coefficients ...float64) (err error) {
	for _, val := range coefficients {
		if !utils.IsFinite(val) {
			err = fmt.Errorf("%w: %s iteration %d produced coefficient %g", ErrBreakdown, solver, iter, val)
			return
		}
	}
	return
}
