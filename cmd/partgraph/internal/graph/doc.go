// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides a directed adjacency-list graph for assembly structures.
//
// The engine renders resolved assembly hierarchies as parent→child
// edges so the structure can be exported to Graphviz DOT and analyzed
// with standard tooling.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                   Assembly Graph Flow                       │
//	├─────────────────────────────────────────────────────────────┤
//	│                                                             │
//	│  ┌────────────┐    ┌────────────┐    ┌──────────────────┐   │
//	│  │ Resolved   │───▶│  AddNode/  │───▶│  Directed graph  │   │
//	│  │ trees      │    │  AddEdge   │    │  + dictionary    │   │
//	│  └────────────┘    └────────────┘    └──────────────────┘   │
//	│                                              │              │
//	│                                              ▼              │
//	│                                      ┌──────────────────┐   │
//	│                                      │    DOT export    │   │
//	│                                      └──────────────────┘   │
//	│                                                             │
//	└─────────────────────────────────────────────────────────────┘
//
// Node identity is positional, not by label: every call to AddNode
// allocates a fresh node even when the label repeats. A shared
// sub-assembly that occurs five times in a structure therefore shows
// up as five nodes, which is what a structural drawing wants.
//
// # Thread Safety
//
// A Directed graph is not safe for concurrent mutation. Build it from
// one goroutine, then read freely.
package graph
