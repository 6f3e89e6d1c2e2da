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

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// addNamedMatch registers one match row with a chosen name and folder.
func addNamedMatch(svc *mockService, source uuid.UUID, name string, folderID uint32, percentage float64) uuid.UUID {
	matched := api.Model{
		ID:       uuid.New(),
		Name:     name,
		FolderID: folderID,
		State:    api.StateFinished,
	}
	svc.matches[source] = append(svc.matches[source], api.PartToPartMatch{
		MatchedModel:    matched,
		MatchPercentage: percentage,
	})
	return matched.ID
}

func TestBuildSimpleReport_RejectsSelfMatchesByName(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addNamedMatch(svc, source, "bracket", 2, 1.0)
	addNamedMatch(svc, source, "bracket-mirror", 1, 0.97)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)

	item := report.Items[source.String()]
	require.NotNil(t, item)
	require.Len(t, item.Matches, 1)
	assert.Equal(t, "bracket-mirror", item.Matches[0].Model.Name)
}

func TestBuildSimpleReport_DeduplicatesByName(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addNamedMatch(svc, source, "clone", 1, 0.99)
	addNamedMatch(svc, source, "clone", 2, 0.95)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)

	item := report.Items[source.String()]
	require.NotNil(t, item)
	require.Len(t, item.Matches, 1)
	// The first occurrence wins.
	assert.Equal(t, 0.99, item.Matches[0].Percentage)
}

func TestBuildSimpleReport_ExclusiveFolderFilter(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addNamedMatch(svc, source, "inside", 1, 0.99)
	addNamedMatch(svc, source, "outside", 9, 0.98)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, []uint32{1}, true)
	require.NoError(t, err)

	item := report.Items[source.String()]
	require.NotNil(t, item)
	require.Len(t, item.Matches, 1)
	assert.Equal(t, "inside", item.Matches[0].Model.Name)
}

func TestBuildSimpleReport_FolderSetWithoutExclusiveKeepsAll(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	addNamedMatch(svc, source, "inside", 1, 0.99)
	addNamedMatch(svc, source, "outside", 9, 0.98)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, []uint32{1}, false)
	require.NoError(t, err)

	item := report.Items[source.String()]
	require.NotNil(t, item)
	assert.Len(t, item.Matches, 2)
}

func TestBuildSimpleReport_OmitsEmptySources(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	// The only match is a self-match, so nothing is retained.
	addNamedMatch(svc, source, "bracket", 2, 1.0)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)
	assert.NotContains(t, report.Items, source.String())
}

func TestBuildSimpleReport_SkipsUnfinishedModels(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	svc.models[source].State = "processing"
	addNamedMatch(svc, source, "clone", 1, 0.99)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)

	assert.Empty(t, report.Items)
	// The skip never reaches the match endpoint.
	assert.Empty(t, svc.matchPages[source])
}

func TestBuildSimpleReport_SynthesizesComparisonURL(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	matchedID := addNamedMatch(svc, source, "clone", 1, 0.99)
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)

	item := report.Items[source.String()]
	require.NotNil(t, item)
	assert.Equal(t, ComparisonURL("acme", source, matchedID), item.Matches[0].ComparisonURL)
}

func TestBuildSimpleReport_CopiesThumbnails(t *testing.T) {
	svc := newMockService()
	source := svc.addModel("bracket", 1)
	sourceThumb := "https://cdn/thumb-source.png"
	svc.models[source].Thumbnail = &sourceThumb

	matchedThumb := "https://cdn/thumb-match.png"
	addNamedMatch(svc, source, "clone", 1, 0.99)
	svc.matches[source][0].MatchedModel.Thumbnail = &matchedThumb
	e := newTestEngine(svc)

	report, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{source}, 0.9, nil, false)
	require.NoError(t, err)

	match := report.Items[source.String()].Matches[0]
	require.NotNil(t, match.SourceThumbnail)
	assert.Equal(t, sourceThumb, *match.SourceThumbnail)
	require.NotNil(t, match.MatchedThumbnail)
	assert.Equal(t, matchedThumb, *match.MatchedThumbnail)
}

func TestBuildSimpleReport_FailFast(t *testing.T) {
	svc := newMockService()
	good := svc.addModel("good", 1)
	addNamedMatch(svc, good, "good-clone", 1, 0.99)
	bad := svc.addModel("bad", 1)
	svc.matchErr[bad] = api.ErrConnection
	e := newTestEngine(svc)

	_, err := e.BuildSimpleReport(context.Background(), []uuid.UUID{good, bad}, 0.9, nil, false)
	assert.ErrorIs(t, err, api.ErrConnection)
}
