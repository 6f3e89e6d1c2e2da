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

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// FlatBom is a deduplicated bill of materials: every distinct model
// reachable in one or more assembly trees, keyed by uuid.
type FlatBom map[uuid.UUID]api.Model

// Flatten reduces a resolved assembly tree to its flat BOM.
//
// Insertion is idempotent per uuid; within one run every occurrence of
// a uuid carries identical model data, so last-write-wins is harmless.
func Flatten(tree *AssemblyTreeNode) FlatBom {
	bom := make(FlatBom)
	bom.add(tree)
	return bom
}

func (b FlatBom) add(node *AssemblyTreeNode) {
	b[node.Model.ID] = node.Model
	for i := range node.Children {
		b.add(&node.Children[i])
	}
}

// Extend unions another flat BOM into this one, later entries
// overwriting earlier ones for the same uuid.
func (b FlatBom) Extend(other FlatBom) {
	for id, model := range other {
		b[id] = model
	}
}

// Models returns the BOM's models sorted by name, then uuid for equal
// names, for deterministic output.
func (b FlatBom) Models() []api.Model {
	models := make([]api.Model, 0, len(b))
	for _, model := range b {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Name != models[j].Name {
			return models[i].Name < models[j].Name
		}
		return models[i].ID.String() < models[j].ID.String()
	})
	return models
}

// UUIDs returns the BOM's uuids in the Models ordering.
func (b FlatBom) UUIDs() []uuid.UUID {
	models := b.Models()
	ids := make([]uuid.UUID, len(models))
	for i, model := range models {
		ids[i] = model.ID
	}
	return ids
}
