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
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Node is a single vertex with a display label.
type Node struct {
	// Index is the node's position in the graph, assigned by AddNode.
	Index int

	// Label is the display name, typically a model name.
	Label string
}

// Edge is a directed, weighted connection between two node indices.
type Edge struct {
	From   int
	To     int
	Weight float64
}

// Directed is a directed graph backed by an adjacency list.
//
// Nodes are identified by the index AddNode returns; labels may repeat
// freely. Edges are stored per source node in insertion order.
type Directed struct {
	nodes []Node
	adj   [][]Edge
}

// DictionaryItem maps a model occurrence to its node index.
//
// The JSON field names match the dictionary artifact consumed by
// downstream tooling.
type DictionaryItem struct {
	UUID      uuid.UUID `json:"uuid"`
	Name      string    `json:"name"`
	NodeIndex int       `json:"nodeIndex"`
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

// NewDirected creates an empty directed graph.
func NewDirected() *Directed {
	return &Directed{}
}

// AddNode appends a new node with the given label and returns its index.
//
// Every call allocates a fresh node, even for a repeated label.
func (g *Directed) AddNode(label string) int {
	index := len(g.nodes)
	g.nodes = append(g.nodes, Node{Index: index, Label: label})
	g.adj = append(g.adj, nil)
	return index
}

// AddEdge adds a directed edge from one node index to another.
//
// # Outputs
//
//   - error: ErrNodeNotFound when either endpoint is out of range
func (g *Directed) AddEdge(from, to int, weight float64) error {
	if from < 0 || from >= len(g.nodes) {
		return nodeRangeError(from, len(g.nodes))
	}
	if to < 0 || to >= len(g.nodes) {
		return nodeRangeError(to, len(g.nodes))
	}
	g.adj[from] = append(g.adj[from], Edge{From: from, To: to, Weight: weight})
	return nil
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// NodeCount returns the number of nodes.
func (g *Directed) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Directed) EdgeCount() int {
	total := 0
	for _, edges := range g.adj {
		total += len(edges)
	}
	return total
}

// Node returns the node at the given index.
func (g *Directed) Node(index int) (Node, error) {
	if index < 0 || index >= len(g.nodes) {
		return Node{}, nodeRangeError(index, len(g.nodes))
	}
	return g.nodes[index], nil
}

// Nodes returns all nodes in index order.
func (g *Directed) Nodes() []Node {
	return g.nodes
}

// Edges returns all edges grouped by source node, in insertion order.
func (g *Directed) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, out := range g.adj {
		edges = append(edges, out...)
	}
	return edges
}

// OutEdges returns the edges leaving the given node index.
func (g *Directed) OutEdges(index int) ([]Edge, error) {
	if index < 0 || index >= len(g.nodes) {
		return nil, nodeRangeError(index, len(g.nodes))
	}
	return g.adj[index], nil
}
