package io

import (
	"github.com/matzehuels/corridor/pkg/contract"
)

// document is the on-disk form of an instance.
type document struct {
	Nodes   []nodeRecord   `json:"nodes" validate:"unique=ID,dive"`
	Arcs    []arcRecord    `json:"arcs" validate:"unique=ID,dive"`
	Options []optionRecord `json:"options,omitempty" validate:"unique=ID,dive"`
}

type nodeRecord struct {
	ID      int     `json:"id"`
	Quality float64 `json:"quality" validate:"gte=0"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type arcRecord struct {
	ID          int     `json:"id"`
	From        int     `json:"from"`
	To          int     `json:"to"`
	Probability float64 `json:"probability" validate:"gte=0,lte=1"`
}

type optionRecord struct {
	ID    int                `json:"id"`
	Cost  float64            `json:"cost" validate:"gte=0"`
	Nodes []nodeEffectRecord `json:"nodes,omitempty" validate:"unique=Node,dive"`
	Arcs  []arcEffectRecord  `json:"arcs,omitempty" validate:"unique=Arc,dive"`
}

type nodeEffectRecord struct {
	Node int     `json:"node"`
	Gain float64 `json:"gain" validate:"gt=0"`
}

type arcEffectRecord struct {
	Arc         int     `json:"arc"`
	Probability float64 `json:"probability" validate:"gte=0,lte=1"`
}

// resultsDocument is the on-disk form of a set of contraction results.
type resultsDocument struct {
	RunID   string         `json:"run_id,omitempty"`
	Results []resultRecord `json:"results" validate:"dive"`
}

type resultRecord struct {
	// Target is the external id of the target in the input instance.
	Target int `json:"target"`
	// Reduced is the reduced instance; node and arc ids are those of the
	// reduced landscape.
	Reduced document `json:"reduced"`
	// Node is the id of the target inside Reduced.
	Node  int            `json:"node"`
	Stats contract.Stats `json:"stats"`
}
