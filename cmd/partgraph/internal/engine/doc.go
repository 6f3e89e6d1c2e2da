// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package engine implements the model-relationship resolution core.

# Problem Statement

The remote service stores individual model records and answers narrow
questions: one model, one bare assembly tree, one page of matches. The
interesting outputs are relational and span many such calls: a fully
resolved assembly hierarchy, a deduplicated bill of materials, a
per-model duplicate report, an assembly-structure graph, and a
propagated classification label.

# Solution

An Engine value owns a remote service handle plus per-run caches and
composes the narrow calls into those outputs:

	┌──────────────────────────────────────────────────────────────┐
	│                          Engine                              │
	├──────────────────────────────────────────────────────────────┤
	│                                                              │
	│   model cache ◀── GetModel ──▶ remote service                │
	│        │                                                     │
	│        ├─▶ AssemblyTree ──▶ FlatBom                          │
	│        │        │                                            │
	│        │        └─▶ BuildGraph (nodes, edges, dictionary)    │
	│        │                                                     │
	│        ├─▶ MatchModel (sequential pagination)                │
	│        │        │                                            │
	│        │        └─▶ BuildSimpleReport (filters, URLs)        │
	│        │                 │                                   │
	│        │                 └─▶ PropagateLabels                 │
	│        │                                                     │
	│        └─▶ WaitForModel (bounded 2s poll)                    │
	│                                                              │
	└──────────────────────────────────────────────────────────────┘

Caches live for the lifetime of one Engine value, which is one CLI
invocation. Nothing is persisted and nothing is shared across runs.

# Thread Safety

Engine is single-threaded: one goroutine builds one report at a time.
Callers wanting concurrent runs create one Engine per run.
*/
package engine
