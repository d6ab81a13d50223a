// Package io reads and writes proof graphs as JSON.
//
// # Formats
//
// Two formats are written. [WriteJSON] stores the complete [dag.DAG]
// (nodes with row, kind, label, subdivider master and metadata; edges) and
// is the format [ReadJSON] reads back:
//
//	{
//	  "nodes": [
//	    {"id": "001", "row": 1, "kind": "initial_fact", "label": "cong a b c d"},
//	    {"id": "r_ratio_chase_1", "row": 2, "kind": "rule", "label": "ratio_chase"}
//	  ],
//	  "edges": [{"from": "001", "to": "r_ratio_chase_1"}]
//	}
//
// [WriteProofJSON] writes the nodes/links format consumed by graph viewers.
// Every node carries type (initial_fact, derived_fact or rule), label,
// layer and shape (ellipse, box or diamond); links have type "derivation".
// Subdivider nodes are not part of that format.
//
// # Concurrency
//
// The writers only read the graph and may run concurrently with other
// readers, but not with modifications.
package io
