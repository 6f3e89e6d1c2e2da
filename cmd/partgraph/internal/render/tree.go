// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"fmt"
	"io"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
)

// WriteTree draws a resolved assembly tree with box-drawing branches.
//
// # Inputs
//
//   - w: destination writer
//   - tree: the resolved tree
//   - color: whether to apply terminal styling
func WriteTree(w io.Writer, tree *engine.AssemblyTreeNode, color bool) error {
	styles := plainTreeStyles()
	if color {
		styles = coloredTreeStyles()
	}
	if _, err := fmt.Fprintln(w, styles.labelFor(tree)); err != nil {
		return err
	}
	return writeChildren(w, tree.Children, "", styles)
}

func writeChildren(w io.Writer, children []engine.AssemblyTreeNode, prefix string, styles treeStyles) error {
	for i := range children {
		child := &children[i]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		line := prefix + styles.branch.Render(connector) + styles.labelFor(child)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := writeChildren(w, child.Children, childPrefix, styles); err != nil {
			return err
		}
	}
	return nil
}

// labelFor renders one node's label: the model name, styled by node
// kind, with a state suffix for anything not finished.
func (s treeStyles) labelFor(node *engine.AssemblyTreeNode) string {
	var label string
	if node.Model.IsAssembly || node.Type != api.NodeTypeAssemblyPart {
		label = s.assembly.Render(node.Model.Name)
	} else {
		label = s.part.Render(node.Model.Name)
	}
	if node.Model.State != "" && node.Model.State != api.StateFinished {
		label += " " + s.state.Render("["+node.Model.State+"]")
	}
	return label
}
