package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultChunkSize is the number of trials drawn from one random stream.
	DefaultChunkSize = 1024

	cancelCheckInterval = 256
)

// SourceFactory builds the random stream for one chunk of trials. The same
// (seed, stream) pair must always yield the same sequence.
type SourceFactory func(seed int64, stream uint64) rand.Source

// PCGSource is the default SourceFactory.
func PCGSource(seed int64, stream uint64) rand.Source {
	return rand.NewPCG(uint64(seed), stream)
}

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	model     Model
	workers   int
	chunkSize int
	seed      *int64
	newSource SourceFactory
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel overrides the formula constants.
func WithModel(m Model) Option {
	return func(e *Engine) { e.model = m }
}

// WithWorkers limits how many chunks run at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithChunkSize sets how many consecutive trials share one stream.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithSourceFactory replaces the PCG streams.
func WithSourceFactory(f SourceFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.newSource = f
		}
	}
}

// Result is the outcome of one simulation run.
type Result struct {
	Parameters     Parameters    `json:"parameters"`
	Model          Model         `json:"model"`
	Seed           int64         `json:"seed"`
	Costs          []float64     `json:"-"`
	Summary        Summary       `json:"summary"`
	Deterministic  float64       `json:"deterministic_total"`
	NegativeTrials int           `json:"negative_trials"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// NewEngine returns an engine with the default model, one worker per CPU and
// PCG streams, adjusted by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		model:     DefaultModel(),
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: DefaultChunkSize,
		newSource: PCGSource,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSeed fixes the seed used for jobs that do not carry their own.
func (e *Engine) SetSeed(seed int64) {
	e.seed = &seed
}

// Model returns the formula constants the engine samples with.
func (e *Engine) Model() Model {
	return e.model
}

func (e *Engine) resolveSeed(p Parameters) int64 {
	switch {
	case p.Seed != nil:
		return *p.Seed
	case e.seed != nil:
		return *e.seed
	default:
		return time.Now().UnixNano()
	}
}

// Run simulates p.TrialCount trials and summarizes them. Trials are drawn in
// chunks, each from its own stream, so the result for a given seed does not
// depend on the number of workers. A cancelled context aborts the whole run.
func (e *Engine) Run(ctx context.Context, p Parameters) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := e.model.Validate(); err != nil {
		return Result{}, err
	}

	started := time.Now()
	seed := e.resolveSeed(p)
	costs := make([]float64, p.TrialCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for chunk, start := 0, 0; start < p.TrialCount; chunk, start = chunk+1, start+e.chunkSize {
		end := min(start+e.chunkSize, p.TrialCount)
		stream := uint64(chunk)
		g.Go(func() error {
			return e.runChunk(gctx, p, seed, stream, costs[start:end], start)
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("simulation aborted: %w", err)
	}

	res := Result{
		Parameters:    p,
		Model:         e.model,
		Seed:          seed,
		Costs:         costs,
		Deterministic: DeterministicTotal(p),
	}
	overflowed := 0
	for _, c := range costs {
		switch {
		case math.IsNaN(c) || math.IsInf(c, 0):
			overflowed++
		case c < 0:
			res.NegativeTrials++
		}
	}
	if overflowed > 0 {
		return Result{}, &InvalidParametersError{Problems: []string{
			fmt.Sprintf("job total overflows float64 in %d of %d trials; reduce the cost or multiplier values", overflowed, len(costs)),
		}}
	}

	res.Summary = Summarize(costs)
	if !res.Summary.finite() {
		return Result{}, &InvalidParametersError{Problems: []string{
			"job totals are too large to summarize in float64; reduce the cost or multiplier values",
		}}
	}
	res.Elapsed = time.Since(started)

	log.Debug().
		Int("trials", p.TrialCount).
		Int64("seed", seed).
		Float64("median", res.Summary.Median).
		Dur("elapsed", res.Elapsed).
		Msg("Simulation finished")

	return res, nil
}

func (e *Engine) runChunk(ctx context.Context, p Parameters, seed int64, stream uint64, out []float64, offset int) error {
	sampler := NewSampler(p, e.model, e.newSource(seed, stream))
	for i := range out {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		out[i] = TotalCost(sampler.Sample(offset+i), p, e.model)
	}
	return nil
}
