package pipeline

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corridor/pkg/cache"
	"github.com/matzehuels/corridor/pkg/contract"
	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/generate"
	instio "github.com/matzehuels/corridor/pkg/io"
	"github.com/matzehuels/corridor/pkg/landscape"
	"github.com/matzehuels/corridor/pkg/plan"
	"github.com/matzehuels/corridor/pkg/render/nodelink"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// writeInstance generates a random instance and exports it to a temp file.
func writeInstance(t *testing.T, seed uint64) string {
	t.Helper()
	l, p, err := generate.Instance(generate.Config{
		Seed:         seed,
		Nodes:        12,
		Arcs:         20,
		Options:      4,
		Symmetric:    true,
		RestoreNodes: true,
	})
	if err != nil {
		t.Fatalf("generate.Instance() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "instance.json")
	if err := instio.ExportInstance(instio.NewInstance(l, p), path); err != nil {
		t.Fatalf("ExportInstance() error = %v", err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateEngine(t *testing.T) {
	if err := ValidateEngine(nodelink.EngineNeato); err != nil {
		t.Errorf("neato should pass: %v", err)
	}
	if err := ValidateEngine("fdp"); err == nil {
		t.Error("fdp should fail")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", opts.Tolerance, DefaultTolerance)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %v, want %v", opts.Seed, DefaultSeed)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}

	for _, bad := range []Options{{Workers: -1}, {Verify: -3}, {Tolerance: -1}} {
		if err := bad.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) should fail", bad)
		}
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{Positions: true}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender() error = %v", err)
	}
	if opts.Format != FormatSVG {
		t.Errorf("Format = %q, want %q", opts.Format, FormatSVG)
	}
	if opts.Engine != nodelink.EngineNeato {
		t.Errorf("Engine = %q, want neato for pinned positions", opts.Engine)
	}
}

func TestActivations(t *testing.T) {
	p := plan.New()
	p.AddOption(1)
	p.AddOption(2)

	a := Activations(p, 3, 9)
	b := Activations(p, 3, 9)
	if len(a) != 5 {
		t.Fatalf("len(Activations()) = %d, want 5", len(a))
	}
	for i := range a {
		if err := a[i].Validate(p); err != nil {
			t.Errorf("activation %d invalid: %v", i, err)
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("activations differ for the same seed at %d/%d", i, j)
			}
		}
	}
	if a[0][0] != 0 || a[1][0] != 1 {
		t.Errorf("first activations = %v, %v, want zero then full", a[0], a[1])
	}
}

func TestRunner_Load(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	in, hash, err := r.Load(ctx, writeInstance(t, 3))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if in.Landscape.NodeCount() != 12 || in.Plan.NumOptions() != 4 {
		t.Errorf("Load() = %d nodes, %d options, want 12, 4", in.Landscape.NodeCount(), in.Plan.NumOptions())
	}
	if len(hash) != 64 {
		t.Errorf("hash = %q, want hex SHA-256", hash)
	}

	_, _, err = r.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunner_Execute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()
	ctx := context.Background()
	path := writeInstance(t, 5)

	first, err := r.Execute(ctx, path, Options{Verify: 5, Workers: 2})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(first.Targets) != 12 {
		t.Errorf("targets = %d, want 12", len(first.Targets))
	}
	if first.CacheInfo.ContractHit || first.CacheInfo.EvalHit {
		t.Error("first run should miss the cache")
	}
	if first.Verification == nil || first.Verification.Checks != 12*7 {
		t.Errorf("Verification = %+v, want 84 checks", first.Verification)
	}

	second, err := r.Execute(ctx, path, Options{Verify: 5, Workers: 1})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.ContractHit || !second.CacheInfo.EvalHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.RunID != first.RunID {
		t.Errorf("cached RunID = %q, want %q", second.RunID, first.RunID)
	}
	if math.Abs(second.ECA-first.ECA) > 1e-12 {
		t.Errorf("cached ECA = %v, want %v", second.ECA, first.ECA)
	}
	if second.Verification.MaxError > DefaultTolerance {
		t.Errorf("cached reductions MaxError = %g", second.Verification.MaxError)
	}

	third, err := r.Execute(ctx, path, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.ContractHit || third.RunID == first.RunID {
		t.Error("refresh should recompute")
	}
}

func TestRunner_ContractTargets(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	in, hash, err := r.Load(ctx, writeInstance(t, 8))
	if err != nil {
		t.Fatal(err)
	}

	var calls, total atomic.Int64
	progress := func(_, n int) {
		calls.Add(1)
		total.Store(int64(n))
	}
	rs, err := r.Contract(ctx, in, hash, Options{Targets: []int{4, 1, 4}, Progress: progress})
	if err != nil {
		t.Fatalf("Contract() error = %v", err)
	}
	if len(rs.Targets) != 2 {
		t.Errorf("targets = %d, want 2", len(rs.Targets))
	}
	if calls.Load() != 2 || total.Load() != 2 {
		t.Errorf("progress calls = %d total = %d, want 2 and 2", calls.Load(), total.Load())
	}
	if _, err := r.Verify(ctx, in, rs, Options{Verify: 10}); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	_, err = r.Contract(ctx, in, hash, Options{Targets: []int{99}})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Contract(unknown target) error = %v, want NOT_FOUND", err)
	}
}

func TestRunner_EvaluateActivation(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	in, hash, err := r.Load(ctx, writeInstance(t, 11))
	if err != nil {
		t.Fatal(err)
	}

	none, err := r.Evaluate(ctx, in, hash, plan.Zero(in.Plan), Options{})
	if err != nil {
		t.Fatalf("Evaluate(zero) error = %v", err)
	}
	all, err := r.Evaluate(ctx, in, hash, plan.Full(in.Plan), Options{})
	if err != nil {
		t.Fatalf("Evaluate(full) error = %v", err)
	}
	if all < none {
		t.Errorf("Evaluate(full) = %v < Evaluate(zero) = %v", all, none)
	}

	_, err = r.Evaluate(ctx, in, hash, plan.Activation{1}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidActivation) {
		t.Errorf("Evaluate(short activation) error = %v, want INVALID_ACTIVATION", err)
	}
}

func TestRender_DOT(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	in, hash, err := r.Load(ctx, writeInstance(t, 2))
	if err != nil {
		t.Fatal(err)
	}

	full, err := Render(in, nil, Options{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(full), "digraph G") {
		t.Error("Render() output is not DOT")
	}

	target := 0
	if _, err := Render(in, nil, Options{Format: FormatDOT, Target: &target}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Render(target without results) error = %v, want NOT_FOUND", err)
	}

	rs, err := r.Contract(ctx, in, hash, Options{Targets: []int{target}})
	if err != nil {
		t.Fatal(err)
	}
	reduced, err := Render(in, rs, Options{Format: FormatDOT, Target: &target})
	if err != nil {
		t.Fatalf("Render(target) error = %v", err)
	}
	if !strings.Contains(string(reduced), "fillcolor=gold") {
		t.Error("Render(target) should highlight the target")
	}
}

func TestRelativeError(t *testing.T) {
	tests := []struct {
		want, got, err float64
	}{
		{0, 0, 0},
		{0.5, 0.25, 0.25},
		{1e6, 1e6 + 1e-3, 1e-9},
		{-4, -2, 0.5},
	}
	for _, tt := range tests {
		if got := RelativeError(tt.want, tt.got); math.Abs(got-tt.err) > 1e-15 {
			t.Errorf("RelativeError(%g, %g) = %g, want %g", tt.want, tt.got, got, tt.err)
		}
	}
}

// singleNodeResults pairs a one-node instance of quality q with a forged
// reduction whose node has quality reduced.
func singleNodeResults(q, reduced float64) (*instio.Instance, *instio.Results) {
	l := landscape.New()
	u := l.AddNode(q, landscape.Point{})
	p := plan.New()

	r := landscape.New()
	r.AddNode(reduced, landscape.Point{})
	static, _ := landscape.Build(r)

	rs := &instio.Results{Targets: map[landscape.Node]*contract.Result{
		u: {Landscape: static, Plan: p.Clone(), Target: 0},
	}}
	return instio.NewInstance(l, p), rs
}

func TestRunner_VerifyRelativeTolerance(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	// 1e-3 apart on a flow of 1e6 is within the default tolerance.
	in, rs := singleNodeResults(1e6, 1e6+1e-3)
	v, err := r.Verify(ctx, in, rs, Options{Verify: 2})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if v.MaxError > DefaultTolerance {
		t.Errorf("MaxError = %g, want <= %g", v.MaxError, DefaultTolerance)
	}

	in, rs = singleNodeResults(1e6, 1e6+10)
	if _, err := r.Verify(ctx, in, rs, Options{Verify: 2}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Verify() error = %v, want INTERNAL_ERROR", err)
	}
}
