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

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// -----------------------------------------------------------------------------
// Report Types
// -----------------------------------------------------------------------------

// ModelMatch is one retained match in a duplicate report: the matched
// model, its similarity, and the synthesized comparison URL, plus the
// thumbnails of both sides when present.
type ModelMatch struct {
	Model            api.Model `json:"model"`
	Percentage       float64   `json:"percentage"`
	ComparisonURL    string    `json:"comparisonUrl,omitempty"`
	SourceThumbnail  *string   `json:"sourceThumbnail,omitempty"`
	MatchedThumbnail *string   `json:"matchedThumbnail,omitempty"`
}

// ModelMatchReportItem groups the retained matches of one source model.
type ModelMatchReportItem struct {
	SourceUUID       uuid.UUID    `json:"sourceUuid"`
	SourceName       string       `json:"sourceName"`
	SourceFolderID   uint32       `json:"sourceFolderId"`
	SourceFolderName string       `json:"sourceFolderName,omitempty"`
	Matches          []ModelMatch `json:"matches"`
}

// SimpleDuplicatesMatchReport maps source uuid (string form) to its
// retained matches. A source appears only when it retained at least
// one match.
type SimpleDuplicatesMatchReport struct {
	Items map[string]*ModelMatchReportItem `json:"items"`
}

// NewSimpleDuplicatesMatchReport returns an empty report.
func NewSimpleDuplicatesMatchReport() *SimpleDuplicatesMatchReport {
	return &SimpleDuplicatesMatchReport{
		Items: make(map[string]*ModelMatchReportItem),
	}
}

// -----------------------------------------------------------------------------
// Report Construction
// -----------------------------------------------------------------------------

// BuildSimpleReport builds a per-model duplicate report over a set of
// source models.
//
// # Description
//
// For each source uuid the model is fetched through the cache. Models
// whose state is not "finished" are skipped with a warning; they are
// not an error. Otherwise the source's matches are aggregated and
// filtered:
//
//   - self-matches are rejected by matched-model NAME equality,
//   - matches already retained for this source are rejected, again by
//     name,
//   - when exclusive is set and a folder set is supplied, matches whose
//     folder id is outside the set are rejected.
//
// Every retained match carries the comparison URL for its pair and the
// thumbnails of both sides. Sources retaining no match are omitted
// from the report. Any remote failure aborts the whole build.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - ids: source model uuids
//   - threshold: minimum similarity as a fraction in [0, 1]
//   - folderIDs: the folder set for the exclusive filter, may be nil
//   - exclusive: whether to restrict matches to the folder set
//
// # Outputs
//
//   - *SimpleDuplicatesMatchReport: the report, never nil on success
//   - error: non-nil on the first remote failure
func (e *Engine) BuildSimpleReport(ctx context.Context, ids []uuid.UUID, threshold float64, folderIDs []uint32, exclusive bool) (*SimpleDuplicatesMatchReport, error) {
	folderSet := make(map[uint32]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		folderSet[id] = struct{}{}
	}

	report := NewSimpleDuplicatesMatchReport()
	for _, id := range ids {
		source, err := e.GetModel(ctx, id, true)
		if err != nil {
			return nil, err
		}
		if source.State != api.StateFinished {
			e.logger.Warn("skipping model that is not finished processing",
				"uuid", source.ID, "name", source.Name, "state", source.State)
			continue
		}

		matches, err := e.MatchModel(ctx, id, threshold)
		if err != nil {
			return nil, err
		}

		item := &ModelMatchReportItem{
			SourceUUID:     source.ID,
			SourceName:     source.Name,
			SourceFolderID: source.FolderID,
		}
		if source.FolderName != nil {
			item.SourceFolderName = *source.FolderName
		}
		retained := make(map[string]struct{})
		for _, match := range matches {
			matched := match.MatchedModel
			if matched.Name == source.Name {
				continue
			}
			if _, seen := retained[matched.Name]; seen {
				continue
			}
			if exclusive && len(folderSet) > 0 {
				if _, ok := folderSet[matched.FolderID]; !ok {
					continue
				}
			}
			retained[matched.Name] = struct{}{}
			item.Matches = append(item.Matches, ModelMatch{
				Model:            matched,
				Percentage:       match.MatchPercentage,
				ComparisonURL:    ComparisonURL(e.tenant, source.ID, matched.ID),
				SourceThumbnail:  source.Thumbnail,
				MatchedThumbnail: matched.Thumbnail,
			})
		}
		if len(item.Matches) > 0 {
			report.Items[source.ID.String()] = item
		}
	}
	return report, nil
}
