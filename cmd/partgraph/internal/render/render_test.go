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
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{" tree ", FormatTree, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFormat(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, map[string]int{"count": 2}, false))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", sb.String())

	sb.Reset()
	require.NoError(t, WriteJSON(&sb, map[string]int{"count": 2}, true))
	assert.Equal(t, "{\"count\":2}\n", sb.String())
}

func sampleReport() *engine.SimpleDuplicatesMatchReport {
	sourceA := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	matchedA := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	folder := "Production"

	report := engine.NewSimpleDuplicatesMatchReport()
	report.Items[sourceA.String()] = &engine.ModelMatchReportItem{
		SourceUUID:       sourceA,
		SourceName:       "bracket",
		SourceFolderID:   1,
		SourceFolderName: "Staging",
		Matches: []engine.ModelMatch{{
			Model: api.Model{
				ID:         matchedA,
				Name:       "bracket-rev2",
				FolderID:   2,
				FolderName: &folder,
			},
			Percentage:    0.98765,
			ComparisonURL: "https://acme.physna.com/app/compare?modelAId=a&modelBId=b",
		}},
	}
	return report
}

func TestWriteDuplicatesCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDuplicatesCSV(&sb, sampleReport()))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"MODEL_NAME,MATCHING_MODEL_NAME,MATCH,SOURCE_UUID,MATCHING_UUID,SOURCE_FOLDER_NAME,MATCHING_FOLDER_NAME,COMPARISON_URL",
		lines[0])
	assert.Equal(t,
		"bracket,bracket-rev2,0.9877,"+
			"aaaaaaaa-0000-0000-0000-000000000001,aaaaaaaa-0000-0000-0000-000000000002,"+
			"Staging,Production,https://acme.physna.com/app/compare?modelAId=a&modelBId=b",
		lines[1])
}

func TestWriteDuplicatesCSV_EmptyReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDuplicatesCSV(&sb, engine.NewSimpleDuplicatesMatchReport()))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestWriteModelsCSV(t *testing.T) {
	folder := "Production"
	models := []api.Model{{
		ID:         uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		Name:       "bracket",
		FolderID:   2,
		FolderName: &folder,
		FileType:   "stl",
		State:      api.StateFinished,
		Units:      "mm",
	}}

	var sb strings.Builder
	require.NoError(t, WriteModelsCSV(&sb, models))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "UUID,NAME,FOLDER_ID,FOLDER_NAME,FILE_TYPE,STATE,UNITS", lines[0])
	assert.Contains(t, lines[1], "bracket,2,Production,stl,finished,mm")
}

func TestWriteTree_PlainStructure(t *testing.T) {
	tree := &engine.AssemblyTreeNode{
		Type:  api.NodeTypeAssemblyTree,
		Model: api.Model{Name: "gearbox", IsAssembly: true},
		Children: []engine.AssemblyTreeNode{
			{Type: api.NodeTypeAssemblyPart, Model: api.Model{Name: "housing"}},
			{
				Type:  api.NodeTypeSubAssembly,
				Model: api.Model{Name: "gear-stack", IsAssembly: true},
				Children: []engine.AssemblyTreeNode{
					{Type: api.NodeTypeAssemblyPart, Model: api.Model{Name: "gear", State: "processing"}},
				},
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteTree(&sb, tree, false))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "gearbox", lines[0])
	assert.Equal(t, "├── housing", lines[1])
	assert.Equal(t, "└── gear-stack", lines[2])
	assert.Equal(t, "    └── gear [processing]", lines[3])
}

func TestWriteTree_LeafOnly(t *testing.T) {
	tree := &engine.AssemblyTreeNode{
		Type:  api.NodeTypeAssemblyPart,
		Model: api.Model{Name: "washer", State: api.StateFinished},
	}

	var sb strings.Builder
	require.NoError(t, WriteTree(&sb, tree, false))
	assert.Equal(t, "washer\n", sb.String())
}
