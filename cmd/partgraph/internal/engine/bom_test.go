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
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_DeduplicatesSharedParts(t *testing.T) {
	svc := newMockService()
	root, part, sub, shared := buildTwoLevelTree(svc)
	e := newTestEngine(svc)

	tree, err := e.AssemblyTree(context.Background(), root)
	require.NoError(t, err)

	bom := Flatten(tree)

	// Four distinct uuids even though the shared part occurs twice.
	assert.Len(t, bom, 4)
	assert.Contains(t, bom, root)
	assert.Contains(t, bom, part)
	assert.Contains(t, bom, sub)
	assert.Contains(t, bom, shared)
}

func TestExtend_LaterEntriesWin(t *testing.T) {
	svc := newMockService()
	a := svc.addModel("alpha", 1)
	b := svc.addModel("beta", 1)
	e := newTestEngine(svc)

	modelA, err := e.GetModel(context.Background(), a, true)
	require.NoError(t, err)
	modelB, err := e.GetModel(context.Background(), b, true)
	require.NoError(t, err)

	first := FlatBom{a: *modelA}
	renamed := *modelA
	renamed.Name = "alpha-rev2"
	second := FlatBom{a: renamed, b: *modelB}

	first.Extend(second)

	assert.Len(t, first, 2)
	assert.Equal(t, "alpha-rev2", first[a].Name)
}

func TestModels_SortedByName(t *testing.T) {
	svc := newMockService()
	ids := []uuid.UUID{
		svc.addModel("clamp", 1),
		svc.addModel("axle", 1),
		svc.addModel("bearing", 1),
	}
	e := newTestEngine(svc)

	bom := make(FlatBom)
	for _, id := range ids {
		model, err := e.GetModel(context.Background(), id, true)
		require.NoError(t, err)
		bom[model.ID] = *model
	}

	models := bom.Models()
	require.Len(t, models, 3)
	assert.Equal(t, "axle", models[0].Name)
	assert.Equal(t, "bearing", models[1].Name)
	assert.Equal(t, "clamp", models[2].Name)

	uuids := bom.UUIDs()
	require.Len(t, uuids, 3)
	assert.Equal(t, models[0].ID, uuids[0])
}
