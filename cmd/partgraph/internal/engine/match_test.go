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
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// addMatches registers n synthetic match rows for a source model.
func addMatches(svc *mockService, source uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		matched := api.Model{
			ID:       uuid.New(),
			Name:     fmt.Sprintf("match-%03d", i),
			FolderID: 1,
			State:    api.StateFinished,
		}
		svc.matches[source] = append(svc.matches[source], api.PartToPartMatch{
			MatchedModel:    matched,
			MatchPercentage: 0.99,
		})
	}
}

func TestMatchModel_SinglePage(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addMatches(svc, source, 3)
	e := newTestEngine(svc)

	matches, err := e.MatchModel(context.Background(), source, 0.9)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Equal(t, []int{1}, svc.matchPages[source])
}

func TestMatchModel_RequestsEachPageOnceInOrder(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addMatches(svc, source, matchPageSize*3+7)
	e := newTestEngine(svc)

	matches, err := e.MatchModel(context.Background(), source, 0.9)
	require.NoError(t, err)

	assert.Len(t, matches, matchPageSize*3+7)
	// Exactly lastPage requests, strictly increasing, each once.
	assert.Equal(t, []int{1, 2, 3, 4}, svc.matchPages[source])
}

func TestMatchModel_NoMatches(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	e := newTestEngine(svc)

	matches, err := e.MatchModel(context.Background(), source, 0.9)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, []int{1}, svc.matchPages[source])
}

func TestMatchModel_PageFailurePropagates(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	svc.matchErr[source] = api.ErrForbidden
	e := newTestEngine(svc)

	_, err := e.MatchModel(context.Background(), source, 0.9)
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestComparisonURL(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	url := ComparisonURL("acme", a, b)
	assert.Equal(t,
		"https://acme.physna.com/app/compare?modelAId=11111111-1111-1111-1111-111111111111&modelBId=22222222-2222-2222-2222-222222222222",
		url)
}
