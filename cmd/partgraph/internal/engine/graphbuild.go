// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"sort"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/graph"
)

// AssemblyGraph is the structural graph of one or more resolved
// assembly trees plus a uuid-keyed node dictionary.
//
// Nodes are allocated per tree VISIT, so a sub-assembly shared by
// several parents appears once per occurrence. The dictionary keeps
// one entry per distinct uuid, recording the node index of the LAST
// visit.
type AssemblyGraph struct {
	Graph      *graph.Directed
	Dictionary map[uuid.UUID]graph.DictionaryItem
}

// BuildGraph walks resolved assembly trees into one directed graph.
//
// # Description
//
// Every visited node gets a fresh graph node labeled with its model
// name and a weight-1.0 edge from its parent's node. Roots have no
// incoming edge. The dictionary entry for a uuid is overwritten on
// each visit.
//
// # Inputs
//
//   - roots: resolved trees to walk, in order
//
// # Outputs
//
//   - *AssemblyGraph: the graph and dictionary, never nil
func BuildGraph(roots []*AssemblyTreeNode) *AssemblyGraph {
	ag := &AssemblyGraph{
		Graph:      graph.NewDirected(),
		Dictionary: make(map[uuid.UUID]graph.DictionaryItem),
	}
	for _, root := range roots {
		ag.walk(root, -1)
	}
	return ag
}

// walk adds one node per visit; parentIndex is -1 for roots.
func (ag *AssemblyGraph) walk(node *AssemblyTreeNode, parentIndex int) {
	index := ag.Graph.AddNode(node.Model.Name)
	if parentIndex >= 0 {
		// Both endpoints were just allocated, the edge cannot fail.
		_ = ag.Graph.AddEdge(parentIndex, index, 1.0)
	}
	ag.Dictionary[node.Model.ID] = graph.DictionaryItem{
		UUID:      node.Model.ID,
		Name:      node.Model.Name,
		NodeIndex: index,
	}
	for i := range node.Children {
		ag.walk(&node.Children[i], index)
	}
}

// DictionaryItems returns the dictionary entries sorted by node index
// for deterministic artifact output.
func (ag *AssemblyGraph) DictionaryItems() []graph.DictionaryItem {
	items := make([]graph.DictionaryItem, 0, len(ag.Dictionary))
	for _, item := range ag.Dictionary {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].NodeIndex < items[j].NodeIndex
	})
	return items
}
