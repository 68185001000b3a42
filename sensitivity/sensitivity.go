// Package sensitivity assembles the matrix S mapping basis coefficients of
// the surface heat flux to sensor temperatures at the observation times.
package sensitivity

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/basis"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
)

type Options struct {
	Workers        int  // goroutines assembling rows, at least 1
	Cache          bool // memoise responses by lag on uniform grids
	MaxEvaluations int  // matrix exponentials per Build or Row call, 0 is unlimited
	Exp            propagator.Exponentiator
}

func DefaultOptions() Options {
	return Options{
		Workers:        runtime.NumCPU(),
		Cache:          true,
		MaxEvaluations: 1000000,
	}
}

// Builder owns everything needed to compute rows of S. Rows are pure
// functions of the builder's inputs and may be computed in any order or
// concurrently.
type Builder struct {
	sys       *Slab1D.System
	C         utils.Vector
	times     []float64
	expansion *basis.Expansion
	opts      Options
	green     propagator.Green
	cache     *propagator.ResponseCache // nil unless enabled on a uniform grid
	grid      []float64                 // quadrature grid from 0, times[k] is grid[offset+k]
	offset    int
	dt        float64
	kernels   [][]float64 // kernel_j(grid[i]), one row per grid point
	evals     int64
}

// budget is the exponential allowance of one Build or Row call.
type budget struct {
	max, used int64
}

func (bg *budget) spend() error {
	if n := atomic.AddInt64(&bg.used, 1); bg.max > 0 && n > bg.max {
		return errors.Wrapf(types.ErrIterationLimit, "more than %d matrix exponentials", bg.max)
	}
	return nil
}

func NewBuilder(sys *Slab1D.System, C utils.Vector, times []float64,
	expansion *basis.Expansion, opts Options) (b *Builder, err error) {
	if sys == nil {
		err = errors.Wrap(types.ErrConfiguration, "nil system")
		return
	}
	if C.V == nil || C.Len() != sys.Nodes() {
		err = errors.Wrapf(types.ErrSizeMismatch, "sensor does not match %d nodes", sys.Nodes())
		return
	}
	if len(times) < 2 {
		err = errors.Wrapf(types.ErrDomain, "need at least 2 observation times, got %d", len(times))
		return
	}
	if !utils.Increasing(times) || times[0] < 0 {
		err = errors.Wrap(types.ErrDomain, "observation times must be non-negative and strictly increasing")
		return
	}
	if expansion == nil {
		err = errors.Wrap(types.ErrDomain, "nil basis expansion")
		return
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	b = &Builder{
		sys:       sys,
		C:         C,
		times:     append([]float64(nil), times...),
		expansion: expansion,
		opts:      opts,
		green:     propagator.Green{Exp: opts.Exp},
	}
	b.grid, b.offset = propagator.QuadratureGrid(times)
	var uniform bool
	if b.dt, uniform = utils.UniformStep(b.grid); uniform && opts.Cache {
		b.cache = propagator.NewResponseCache()
	}
	b.kernels = make([][]float64, len(b.grid))
	for i, t := range b.grid {
		b.kernels[i] = expansion.Kernels(t)[:expansion.Fitted()]
	}
	return
}

// Dims is the shape of S: one row per observation after the first, one
// column per fitted mode.
func (b *Builder) Dims() (r, c int) { return len(b.times) - 1, b.expansion.Fitted() }

// Evaluations is the number of matrix exponentials computed over the
// builder's lifetime.
func (b *Builder) Evaluations() int64 { return atomic.LoadInt64(&b.evals) }

// Row computes row t-1 of S, the sensitivity of the observation at
// times[t] to every fitted mode, integrated from time zero.
func (b *Builder) Row(t int) (row []float64, err error) {
	return b.row(t, b.newBudget())
}

func (b *Builder) newBudget() *budget {
	return &budget{max: int64(b.opts.MaxEvaluations)}
}

func (b *Builder) row(t int, bg *budget) (row []float64, err error) {
	var (
		K, M = b.Dims()
		kg   = b.offset + t
		g, f []float64
	)
	if t < 1 || t > K {
		err = errors.Wrapf(types.ErrDomain, "row %d outside [1, %d]", t, K)
		return
	}
	g, f = make([]float64, kg+1), make([]float64, kg+1)
	for i := 0; i <= kg; i++ {
		if g[i], err = b.response(kg, i, bg); err != nil {
			return nil, err
		}
	}
	row = make([]float64, M)
	for j := 0; j < M; j++ {
		for i := 0; i <= kg; i++ {
			f[i] = g[i] * b.kernels[i][j]
		}
		row[j] = integrate.Trapezoidal(b.grid[:kg+1], f)
	}
	return
}

func (b *Builder) response(k, i int, bg *budget) (float64, error) {
	if b.cache == nil {
		return b.evaluate(b.grid[k]-b.grid[i], bg)
	}
	steps := k - i
	return b.cache.Fetch(steps, func() (float64, error) {
		return b.evaluate(float64(steps)*b.dt, bg)
	})
}

func (b *Builder) evaluate(lag float64, bg *budget) (float64, error) {
	if err := bg.spend(); err != nil {
		return 0, err
	}
	atomic.AddInt64(&b.evals, 1)
	return b.green.Response(b.sys, b.C, lag)
}

// Build assembles every row of S on a pool of Options.Workers goroutines.
// The MaxEvaluations allowance is shared by the rows of one call.
func (b *Builder) Build() (S utils.Matrix, err error) {
	var (
		K, M     = b.Dims()
		jobs     = make(chan int, K)
		bg       = b.newBudget()
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		failed   int32
	)
	S = utils.NewMatrix(K, M)
	for t := 1; t <= K; t++ {
		jobs <- t
	}
	close(jobs)
	for w := 0; w < b.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				if atomic.LoadInt32(&failed) != 0 {
					continue
				}
				row, rowErr := b.row(t, bg)
				if rowErr != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = rowErr
					}
					mu.Unlock()
					atomic.StoreInt32(&failed, 1)
					continue
				}
				// Rows are disjoint, so concurrent writes never overlap
				S.SetRow(t-1, row)
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return utils.Matrix{}, firstErr
	}
	S.SetReadOnly("S")
	return
}
