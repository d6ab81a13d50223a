package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ratiochase/pkg/dag"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       string       `json:"id"`
	Row      *int         `json:"row,omitempty"`
	Kind     string       `json:"kind,omitempty"`
	Label    string       `json:"label,omitempty"`
	MasterID string       `json:"master,omitempty"`
	Meta     dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a DAG as JSON and writes it to w. All nodes are
// written, subdividers included, so the output can be re-imported with
// [ReadJSON].
func WriteJSON(g *dag.DAG, w io.Writer) error {
	nodes := g.Nodes()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for i, n := range nodes {
		nd := node{ID: n.ID, Kind: n.Kind.String(), Label: n.Label, MasterID: n.MasterID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		if n.Row != 0 {
			row := n.Row
			nd.Row = &row
		}
		out.Nodes[i] = nd
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return encode(w, out)
}

type proofGraph struct {
	Nodes []proofNode `json:"nodes"`
	Links []proofLink `json:"links"`
}

type proofNode struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Layer int    `json:"layer"`
	Shape string `json:"shape"`
	Goal  bool   `json:"goal,omitempty"`
}

type proofLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

var shapes = map[dag.NodeKind]string{
	dag.NodeKindPremise: "ellipse",
	dag.NodeKindDerived: "box",
	dag.NodeKindRule:    "diamond",
}

// WriteProofJSON writes a layered proof graph in the viewer format:
//
//	{
//	  "nodes": [{"id": "001", "type": "initial_fact", "label": "cong a b c d", "layer": 1, "shape": "ellipse"}],
//	  "links": [{"source": "001", "target": "r_ratio_chase_1", "type": "derivation"}]
//	}
//
// Subdividers are left out; an edge chain through subdividers is written
// as one link between its real endpoints.
func WriteProofJSON(g *dag.DAG, w io.Writer) error {
	out := proofGraph{Nodes: []proofNode{}, Links: []proofLink{}}
	for _, n := range g.Nodes() {
		if n.IsSubdivider() {
			continue
		}
		goal, _ := n.Meta[dag.MetaGoal].(bool)
		out.Nodes = append(out.Nodes, proofNode{
			ID:    n.ID,
			Type:  n.Kind.String(),
			Label: n.DisplayLabel(),
			Layer: n.Row,
			Shape: shapes[n.Kind],
			Goal:  goal,
		})
	}
	for _, e := range g.Edges() {
		if src, ok := g.Node(e.From); !ok || src.IsSubdivider() {
			continue
		}
		out.Links = append(out.Links, proofLink{
			Source: e.From,
			Target: chainEnd(g, e.To),
			Type:   "derivation",
		})
	}
	return encode(w, out)
}

// chainEnd follows subdividers from id to the first real node.
func chainEnd(g *dag.DAG, id string) string {
	for {
		n, ok := g.Node(id)
		if !ok || !n.IsSubdivider() || len(g.Children(id)) == 0 {
			return id
		}
		id = g.Children(id)[0]
	}
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a DAG to a JSON file at path using [WriteJSON].
func ExportJSON(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
