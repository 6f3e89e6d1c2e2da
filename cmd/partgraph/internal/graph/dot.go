// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT serializes the graph in Graphviz DOT format.
//
// # Description
//
// Nodes are emitted by index with their label as the node label, then
// edges in source order. The output renders directly with `dot -Tsvg`.
//
// # Inputs
//
//   - w: destination writer
//   - name: the graph name in the DOT header
//
// # Outputs
//
//   - error: non-nil when the writer fails
func (g *Directed) WriteDOT(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "digraph %s {\n", quoteDOT(name)); err != nil {
		return err
	}
	for _, node := range g.nodes {
		if _, err := fmt.Fprintf(w, "    %d [label=%s];\n", node.Index, quoteDOT(node.Label)); err != nil {
			return err
		}
	}
	for _, out := range g.adj {
		for _, edge := range out {
			if _, err := fmt.Fprintf(w, "    %d -> %d [weight=%g];\n", edge.From, edge.To, edge.Weight); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

// quoteDOT quotes an identifier for DOT, escaping embedded quotes.
func quoteDOT(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
