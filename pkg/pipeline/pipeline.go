// Package pipeline provides the load → evaluate → contract → verify pipeline
// for corridor.
//
// This package wires the instance reader, the ECA evaluator, the contraction
// engine and the cache together, so the CLI and tests share one code path
// for caching, logging and metrics hooks.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read and validate an instance file
//  2. Evaluate: Compute the ECA of the landscape under an activation
//  3. Contract: Reduce the landscape once per target node
//  4. Verify: Compare flows into each target before and after reduction
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, "landscape.json", pipeline.Options{Verify: 10})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for t, r := range result.Targets {
//	    fmt.Println(t, r.Stats.NodesAfter)
//	}
//
// Run individual stages:
//
//	in, hash, err := runner.Load(ctx, path)
//	value, err := runner.Evaluate(ctx, in, hash, plan.Full(in.Plan), opts)
//	rs, err := runner.Contract(ctx, in, hash, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corridor/pkg/cache"
	"github.com/matzehuels/corridor/pkg/contract"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
	"github.com/matzehuels/corridor/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and tests
// =============================================================================

const (
	// DefaultTolerance is the largest relative flow difference Verify accepts
	// between an instance and its reduction.
	DefaultTolerance = 1e-6

	// DefaultSeed seeds the random activations drawn by Verify.
	DefaultSeed = uint64(42)

	// DefaultWorkers lets the engine pick GOMAXPROCS.
	DefaultWorkers = 0
)

// Format constants for rendered outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Targets restricts contraction to these external node ids. Empty means
	// every node.
	Targets []int `json:"targets,omitempty"`

	// Workers bounds the goroutines used by evaluation and contraction.
	Workers int `json:"workers,omitempty"`

	// Verify is the number of random activations checked per target, on top
	// of the zero and full activations. Zero disables verification.
	Verify int `json:"verify,omitempty"`

	// Tolerance is the accepted relative flow difference during verification.
	Tolerance float64 `json:"tolerance,omitempty"`

	// Seed seeds the verification activations.
	Seed uint64 `json:"seed,omitempty"`

	// Refresh bypasses cached results; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Format    string          `json:"format,omitempty"`
	Target    *int            `json:"target,omitempty"`
	Engine    nodelink.Engine `json:"engine,omitempty"`
	Positions bool            `json:"positions,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called after each reduced target with the
	// number done so far. Calls may come from several goroutines.
	Progress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the contraction run the targets came from.
	RunID string

	// Instance is the loaded instance. Target keys refer to its nodes.
	Instance *instio.Instance

	// InstanceHash is the content hash of the instance file.
	InstanceHash string

	// ECA is the value of the landscape with every option applied.
	ECA float64

	// Targets holds the reduced instance per target node.
	Targets map[landscape.Node]*contract.Result

	// Verification is set when Options.Verify > 0.
	Verification *Verification

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	ArcCount     int
	OptionCount  int
	LoadTime     time.Duration
	EvalTime     time.Duration
	ContractTime time.Duration
	VerifyTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	EvalHit     bool // Whether the ECA value came from cache
	ContractHit bool // Whether the contraction results came from cache
}

// Verification summarizes a Verify run.
type Verification struct {
	// Checks is the number of (target, activation) pairs compared.
	Checks int
	// MaxError is the largest relative flow difference seen, see [RelativeError].
	MaxError float64
	// Worst is the target with the largest difference.
	Worst landscape.Node
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateEngine checks that a layout engine is valid.
func ValidateEngine(engine nodelink.Engine) error {
	switch engine {
	case nodelink.EngineDot, nodelink.EngineNeato:
		return nil
	}
	return fmt.Errorf("invalid engine: %q (must be one of: dot, neato)", engine)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.Verify < 0 {
		return fmt.Errorf("verify must not be negative, got %d", o.Verify)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", o.Tolerance)
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.Engine == "" {
		o.Engine = nodelink.EngineDot
		if o.Positions {
			o.Engine = nodelink.EngineNeato
		}
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// ContractionKeyOpts returns cache key options for contraction.
func (o *Options) ContractionKeyOpts() cache.ContractionKeyOpts {
	return cache.ContractionKeyOpts{Targets: o.Targets}
}

// EvalKeyOpts returns cache key options for evaluating act.
func EvalKeyOpts(act plan.Activation) cache.EvalKeyOpts {
	return cache.EvalKeyOpts{Activation: act}
}
