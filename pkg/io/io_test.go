package io

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/corridor/pkg/contract"
	"github.com/matzehuels/corridor/pkg/eca"
	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/generate"
	"github.com/matzehuels/corridor/pkg/plan"
)

const sample = `{
  "nodes": [
    {"id": 10, "quality": 10},
    {"id": 20, "quality": 0, "x": 1},
    {"id": 30, "quality": 5, "x": 2}
  ],
  "arcs": [
    {"id": 1, "from": 10, "to": 20, "probability": 0.5},
    {"id": 2, "from": 20, "to": 10, "probability": 0.5},
    {"id": 3, "from": 20, "to": 30, "probability": 0.5},
    {"id": 4, "from": 30, "to": 20, "probability": 0.5}
  ],
  "options": [
    {"id": 7, "cost": 1, "arcs": [{"arc": 3, "probability": 0.9}, {"arc": 4, "probability": 0.9}]}
  ]
}`

func TestReadInstance(t *testing.T) {
	in, err := ReadInstance(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInstance() error = %v", err)
	}

	l, p := in.Landscape, in.Plan
	if l.NodeCount() != 3 || l.ArcCount() != 4 {
		t.Fatalf("counts = %d nodes, %d arcs, want 3, 4", l.NodeCount(), l.ArcCount())
	}
	if p.NumOptions() != 1 || in.OptionID(0) != 7 {
		t.Errorf("options = %d (id %d), want 1 (id 7)", p.NumOptions(), in.OptionID(0))
	}
	c, ok := in.Node(30)
	if !ok {
		t.Fatal("Node(30) not found")
	}
	if got := l.Coords(c).X; got != 2 {
		t.Errorf("Coords(30).X = %v, want 2", got)
	}
	if got := in.ArcID(l.InArcs(c)[0]); got != 3 {
		t.Errorf("arc into 30 = %d, want 3", got)
	}

	// ECA with everything on: 0.9 lifts the C–B–A exchange.
	want := math.Sqrt(100 + 25 + 2*10*5*0.45)
	if got := eca.EvalSolution(l, p, plan.Full(p)); math.Abs(got-want) > 1e-9 {
		t.Errorf("EvalSolution() = %v, want %v", got, want)
	}
}

func TestReadInstance_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"negative quality", `{"nodes": [{"id": 1, "quality": -1}], "arcs": []}`, errors.ErrCodeInvalidQuality},
		{"probability above one", `{"nodes": [{"id": 1}], "arcs": [{"id": 1, "from": 1, "to": 1, "probability": 1.5}]}`, errors.ErrCodeInvalidProbability},
		{"duplicate node", `{"nodes": [{"id": 1}, {"id": 1}], "arcs": []}`, errors.ErrCodeDuplicateID},
		{"dangling arc", `{"nodes": [{"id": 1}], "arcs": [{"id": 1, "from": 1, "to": 2, "probability": 0.5}]}`, errors.ErrCodeDanglingReference},
		{"dangling effect", `{"nodes": [{"id": 1}], "arcs": [], "options": [{"id": 0, "cost": 1, "nodes": [{"node": 9, "gain": 1}]}]}`, errors.ErrCodeDanglingReference},
		{"no improvement", `{"nodes": [{"id": 1}, {"id": 2}], "arcs": [{"id": 1, "from": 1, "to": 2, "probability": 0.5}], "options": [{"id": 0, "cost": 1, "arcs": [{"arc": 1, "probability": 0.4}]}]}`, errors.ErrCodeInvalidRestoration},
		{"negative cost", `{"nodes": [], "arcs": [], "options": [{"id": 0, "cost": -2}]}`, errors.ErrCodeInvalidRestoration},
		{"zero gain", `{"nodes": [{"id": 1}], "arcs": [], "options": [{"id": 0, "cost": 1, "nodes": [{"node": 1, "gain": 0}]}]}`, errors.ErrCodeInvalidRestoration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInstance(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadInstance() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestReadInstance_AllViolations(t *testing.T) {
	input := `{"nodes": [{"id": 1}], "arcs": [
		{"id": 1, "from": 1, "to": 5, "probability": 0.5},
		{"id": 2, "from": 6, "to": 1, "probability": 0.5}
	]}`

	_, err := ReadInstance(strings.NewReader(input))

	list, ok := err.(*errors.List)
	if !ok {
		t.Fatalf("ReadInstance() error = %T, want *errors.List", err)
	}
	if len(list.Errors) != 2 {
		t.Errorf("violations = %d, want 2", len(list.Errors))
	}
}

func TestInstance_RoundTrip(t *testing.T) {
	in, err := ReadInstance(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInstance() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteInstance(in, &buf); err != nil {
		t.Fatalf("WriteInstance() error = %v", err)
	}
	back, err := ReadInstance(&buf)
	if err != nil {
		t.Fatalf("ReadInstance(round trip) error = %v", err)
	}

	for i, id := range in.NodeIDs {
		if back.NodeIDs[i] != id {
			t.Errorf("NodeIDs[%d] = %d, want %d", i, back.NodeIDs[i], id)
		}
	}
	for i, id := range in.ArcIDs {
		if back.ArcIDs[i] != id {
			t.Errorf("ArcIDs[%d] = %d, want %d", i, back.ArcIDs[i], id)
		}
	}
	act := plan.Full(in.Plan)
	if a, b := eca.EvalSolution(in.Landscape, in.Plan, act), eca.EvalSolution(back.Landscape, back.Plan, act); a != b {
		t.Errorf("EvalSolution() after round trip = %v, want %v", b, a)
	}
}

func TestExportImport(t *testing.T) {
	l, p, err := generate.Instance(generate.Config{Seed: 5, Nodes: 8, Arcs: 12, Options: 4, RestoreNodes: true})
	if err != nil {
		t.Fatalf("Instance() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "instance.json")

	if err := ExportInstance(NewInstance(l, p), path); err != nil {
		t.Fatalf("ExportInstance() error = %v", err)
	}
	in, err := ImportInstance(path)
	if err != nil {
		t.Fatalf("ImportInstance() error = %v", err)
	}
	if err := Validate(in); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if got, want := eca.Eval(in.Landscape), eca.Eval(l); got != want {
		t.Errorf("Eval() = %v, want %v", got, want)
	}
}

func TestImportInstance_Missing(t *testing.T) {
	_, err := ImportInstance(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportInstance() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestValidate(t *testing.T) {
	in, err := ReadInstance(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInstance() error = %v", err)
	}
	if err := Validate(in); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	u, _ := in.Node(20)
	in.Landscape.SetQuality(u, -3)
	in.Plan.SetCost(0, -1)

	err = Validate(in)
	list, ok := err.(*errors.List)
	if !ok || len(list.Errors) != 2 {
		t.Fatalf("Validate() = %v, want two violations", err)
	}
	if !strings.Contains(list.Errors[0].Message, "node 20") {
		t.Errorf("Message = %q, want external id 20", list.Errors[0].Message)
	}
}

func TestResults_RoundTrip(t *testing.T) {
	in, err := ReadInstance(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInstance() error = %v", err)
	}
	targets, err := contract.Precompute(context.Background(), in.Landscape, in.Plan, contract.Options{})
	if err != nil {
		t.Fatalf("Precompute() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteResults(in, &Results{RunID: "run", Targets: targets}, &buf); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}
	back, err := ReadResults(in, &buf)
	if err != nil {
		t.Fatalf("ReadResults() error = %v", err)
	}

	if back.RunID != "run" {
		t.Errorf("RunID = %q, want %q", back.RunID, "run")
	}
	if len(back.Targets) != len(targets) {
		t.Fatalf("targets = %d, want %d", len(back.Targets), len(targets))
	}
	for _, act := range []plan.Activation{plan.Zero(in.Plan), plan.Full(in.Plan)} {
		for u, want := range targets {
			got := back.Targets[u]
			a := eca.FlowIntoSolution(want.Landscape, want.Plan, act, want.Target)
			b := eca.FlowIntoSolution(got.Landscape, got.Plan, act, got.Target)
			if math.Abs(a-b) > 1e-12 {
				t.Errorf("target %d: flow = %v, want %v", in.NodeID(u), b, a)
			}
			if got.Stats != want.Stats {
				t.Errorf("target %d: Stats = %+v, want %+v", in.NodeID(u), got.Stats, want.Stats)
			}
		}
	}
}

func TestReadResults_UnknownTarget(t *testing.T) {
	in, err := ReadInstance(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInstance() error = %v", err)
	}
	input := `{"results": [{"target": 99, "reduced": {"nodes": [{"id": 0}], "arcs": []}, "node": 0}]}`

	if _, err := ReadResults(in, strings.NewReader(input)); !errors.Is(err, errors.ErrCodeDanglingReference) {
		t.Errorf("ReadResults() error = %v, want %v", err, errors.ErrCodeDanglingReference)
	}
}
