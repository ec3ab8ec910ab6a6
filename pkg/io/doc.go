// Package io provides JSON import and export for landscapes, restoration
// plans and contraction results.
//
// # JSON Format
//
// An instance is a JSON object with "nodes", "arcs" and an optional
// "options" array:
//
//	{
//	  "nodes": [
//	    {"id": 1, "quality": 10, "x": 0, "y": 0},
//	    {"id": 2, "quality": 0, "x": 1, "y": 0}
//	  ],
//	  "arcs": [
//	    {"id": 7, "from": 1, "to": 2, "probability": 0.5}
//	  ],
//	  "options": [
//	    {"id": 0, "cost": 3, "arcs": [{"arc": 7, "probability": 0.9}],
//	     "nodes": [{"node": 2, "gain": 4}]}
//	  ]
//	}
//
// Ids are arbitrary integers that must be unique within their array. Node
// qualities are non-negative, probabilities lie in [0, 1], costs are
// non-negative, gains are positive and a restored probability must exceed
// the probability of its arc.
//
// # Import
//
// Use [ImportInstance] to read an instance from a file path, or
// [ReadInstance] to read from any io.Reader:
//
//	in, err := io.ImportInstance("landscape.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Validation is exhaustive: every violation in the document is reported
// with its own error code from package errors, in the ids of the file.
// The returned [Instance] remembers those ids so that results can be
// written back in them.
//
// # Export
//
// [WriteInstance] and [ExportInstance] write an instance back. Together
// with [ReadInstance] they round-trip ids, values and coordinates.
//
// # Results
//
// [WriteResults] and [ReadResults] store the per-target reductions computed
// by package contract. Each reduced landscape is stored in its own dense
// ids next to the external id of its target. The pipeline uses this format
// for its result cache.
package io
