package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ratiochase/pkg/dag"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
)

// ReadJSON decodes a graph written by [WriteJSON]:
//
//	{
//	  "nodes": [{"id": "001", "kind": "initial_fact", "label": "cong a b c d"}],
//	  "edges": [{"from": "001", "to": "r_ratio_chase_1"}]
//	}
//
// Each node must have an "id". A missing "kind" means initial_fact and a
// missing "row" means row 0. Unknown kinds, duplicate IDs and edges naming
// unknown nodes are rejected with INVALID_FORMAT errors that wrap the
// underlying [dag] error.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := dag.New()
	for _, n := range data.Nodes {
		nd := dag.Node{ID: n.ID, Label: n.Label, MasterID: n.MasterID, Meta: n.Meta}
		if n.Row != nil {
			nd.Row = *n.Row
		}
		if n.Kind != "" {
			k, ok := dag.KindFromString(n.Kind)
			if !ok {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "node %s: unknown kind %q", n.ID, n.Kind)
			}
			nd.Kind = k
		}
		if err := g.AddNode(nd); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge %s->%s", e.From, e.To)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path with [ReadJSON].
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
