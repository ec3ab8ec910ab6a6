package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/corridor/pkg/cache"
	"github.com/matzehuels/corridor/pkg/contract"
	"github.com/matzehuels/corridor/pkg/eca"
	"github.com/matzehuels/corridor/pkg/errors"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/observability"
	"github.com/matzehuels/corridor/pkg/plan"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → evaluate → contract → verify pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	in, hash, err := r.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Instance = in
	result.InstanceHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = in.Landscape.NodeCount()
	result.Stats.ArcCount = in.Landscape.ArcCount()
	result.Stats.OptionCount = in.Plan.NumOptions()

	r.Logger.Info("loaded instance",
		"nodes", result.Stats.NodeCount,
		"arcs", result.Stats.ArcCount,
		"options", result.Stats.OptionCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Evaluate
	evalStart := time.Now()
	value, evalHit, err := r.EvaluateWithCacheInfo(ctx, in, hash, plan.Full(in.Plan), opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	result.ECA = value
	result.Stats.EvalTime = time.Since(evalStart)
	result.CacheInfo.EvalHit = evalHit

	r.Logger.Info("evaluated landscape",
		"eca", value,
		"cached", evalHit,
		"duration", result.Stats.EvalTime)

	// Stage 3: Contract
	contractStart := time.Now()
	rs, contractHit, err := r.ContractWithCacheInfo(ctx, in, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	result.RunID = rs.RunID
	result.Targets = rs.Targets
	result.Stats.ContractTime = time.Since(contractStart)
	result.CacheInfo.ContractHit = contractHit

	r.Logger.Info("contracted landscape",
		"run_id", rs.RunID,
		"targets", len(rs.Targets),
		"cached", contractHit,
		"duration", result.Stats.ContractTime)

	// Stage 4: Verify
	if opts.Verify > 0 {
		verifyStart := time.Now()
		v, err := r.Verify(ctx, in, rs, opts)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		result.Verification = v
		result.Stats.VerifyTime = time.Since(verifyStart)

		r.Logger.Info("verified reductions",
			"checks", v.Checks,
			"max_error", v.MaxError,
			"duration", result.Stats.VerifyTime)
	}

	return result, nil
}

// Load reads the instance file at path and returns it with the content hash
// used in cache keys.
func (r *Runner) Load(ctx context.Context, path string) (*instio.Instance, string, error) {
	start := time.Now()
	in, hash, err := load(path)
	nodes, arcs, options := 0, 0, 0
	if in != nil {
		nodes, arcs, options = in.Landscape.NodeCount(), in.Landscape.ArcCount(), in.Plan.NumOptions()
	}
	observability.Pipeline().OnLoad(ctx, nodes, arcs, options, time.Since(start), err)
	return in, hash, err
}

func load(path string) (*instio.Instance, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	in, err := instio.ReadInstance(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return in, cache.Hash(data), nil
}

// EvaluateWithCacheInfo computes the ECA of the instance under act with
// caching and returns cache hit info. An empty hash disables caching.
func (r *Runner) EvaluateWithCacheInfo(ctx context.Context, in *instio.Instance, hash string, act plan.Activation, opts Options) (float64, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, false, err
	}
	if err := act.Validate(in.Plan); err != nil {
		return 0, false, errors.Wrap(errors.ErrCodeInvalidActivation, err, "activation")
	}

	hooks := observability.Cache()
	cacheKey := ""
	if hash != "" {
		cacheKey = r.Keyer.EvalKey(hash, EvalKeyOpts(act))
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if v, err := strconv.ParseFloat(string(data), 64); err == nil {
				hooks.OnCacheHit(ctx, "eval")
				return v, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "eval")
	}

	start := time.Now()
	v, err := eca.EvalParallel(ctx, in.Plan.Decorate(in.Landscape, act), opts.Workers)
	observability.Pipeline().OnEvaluate(ctx, in.Landscape.NodeCount(), time.Since(start), err)
	if err != nil {
		return 0, false, err
	}

	if cacheKey != "" {
		data := []byte(strconv.FormatFloat(v, 'g', -1, 64))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLEval); err != nil {
			opts.Logger.Warn("cache write failed", "key_type", "eval", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "eval", len(data))
		}
	}
	return v, false, nil
}

// Evaluate is a convenience wrapper that calls EvaluateWithCacheInfo and discards the cache hit info.
func (r *Runner) Evaluate(ctx context.Context, in *instio.Instance, hash string, act plan.Activation, opts Options) (float64, error) {
	v, _, err := r.EvaluateWithCacheInfo(ctx, in, hash, act, opts)
	return v, err
}

// ContractWithCacheInfo reduces the instance for every requested target with
// caching and returns cache hit info. An empty hash disables caching.
func (r *Runner) ContractWithCacheInfo(ctx context.Context, in *instio.Instance, hash string, opts Options) (*instio.Results, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	targets, err := resolveTargets(in, opts.Targets)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	cacheKey := ""
	if hash != "" {
		keyOpts := opts.ContractionKeyOpts()
		keyOpts.Targets = slices.Compact(slices.Sorted(slices.Values(keyOpts.Targets)))
		cacheKey = r.Keyer.ContractionKey(hash, keyOpts)
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			rs, err := instio.ReadResults(in, bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, "contract")
				return rs, true, nil
			}
			// Unreadable entries are recomputed and overwritten
			opts.Logger.Debug("discarding cached results", "error", err)
		}
		hooks.OnCacheMiss(ctx, "contract")
	}

	rs, err := r.precompute(ctx, in, targets, opts)
	if err != nil {
		return nil, false, err
	}

	if cacheKey != "" {
		var buf bytes.Buffer
		if err := instio.WriteResults(in, rs, &buf); err != nil {
			opts.Logger.Warn("encode results failed", "error", err)
		} else if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLContraction); err != nil {
			opts.Logger.Warn("cache write failed", "key_type", "contract", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "contract", buf.Len())
		}
	}
	return rs, false, nil
}

// Contract is a convenience wrapper that calls ContractWithCacheInfo and discards the cache hit info.
func (r *Runner) Contract(ctx context.Context, in *instio.Instance, hash string, opts Options) (*instio.Results, error) {
	rs, _, err := r.ContractWithCacheInfo(ctx, in, hash, opts)
	return rs, err
}

func (r *Runner) precompute(ctx context.Context, in *instio.Instance, targets []landscape.Node, opts Options) (*instio.Results, error) {
	hooks := observability.Pipeline()
	runID := uuid.NewString()
	count := len(targets)
	if targets == nil {
		count = in.Landscape.NodeCount()
	}
	hooks.OnPrecomputeStart(ctx, runID, count)
	opts.Logger.Debug("precomputing reductions", "run_id", runID, "targets", count, "workers", opts.Workers)

	var done atomic.Int64
	start := time.Now()
	results, err := contract.Precompute(ctx, in.Landscape, in.Plan, contract.Options{
		Targets: targets,
		Workers: opts.Workers,
		OnResult: func(t landscape.Node, res *contract.Result) {
			s := res.Stats
			hooks.OnTargetReduced(ctx, runID, s.NodesBefore, s.NodesAfter, s.ArcsBefore, s.ArcsAfter)
			opts.Logger.Debug("reduced target",
				"target", in.NodeID(t),
				"nodes", s.NodesAfter,
				"arcs", s.ArcsAfter,
				"contracted", s.ArcsContracted,
				"useless", s.UselessArcsRemoved)
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), count)
			}
		},
	})
	hooks.OnPrecomputeComplete(ctx, runID, len(results), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &instio.Results{RunID: runID, Targets: results}, nil
}

// resolveTargets maps external node ids to landscape nodes, dropping
// repeats. No ids means every node and yields nil.
func resolveTargets(in *instio.Instance, ids []int) ([]landscape.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	targets := make([]landscape.Node, 0, len(ids))
	for _, id := range ids {
		u, ok := in.Node(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "target node %d does not exist", id)
		}
		if !slices.Contains(targets, u) {
			targets = append(targets, u)
		}
	}
	return targets, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
