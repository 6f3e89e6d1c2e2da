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
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// unclassifiedSentinel marks a property value that must never be
// propagated to another model.
const unclassifiedSentinel = "unclassified"

// PropagationSummary counts the outcomes of one label-propagation run.
type PropagationSummary struct {
	// Classified is the number of masters assigned a value from a match.
	Classified int `json:"classified"`

	// Cleared is the number of masters whose stale value was deleted
	// because they had no matches at all.
	Cleared int `json:"cleared"`

	// Unchanged is the number of masters left untouched: they had
	// matches, but none carried a usable value.
	Unchanged int `json:"unchanged"`
}

// PropagateLabels assigns a classification property across a folder by
// greedy nearest-neighbor similarity.
//
// # Description
//
// Lists the folder's models, resolves the classification property by
// case-insensitive name (creating it remotely when absent), then
// builds a duplicate report over the listed uuids with the folder
// filter off. Per master model:
//
//   - no report entry (no matches above threshold): the master's
//     property value is deleted, clearing a stale classification;
//   - otherwise its matches are scanned in descending similarity
//     (stable sort ascending by percentage, then reversed). When
//     exclusive is set, candidates outside the target folder are
//     skipped. The first candidate whose property value is present and
//     not case-insensitively "unclassified" donates its value to the
//     master, and scanning stops. If no candidate qualifies, the
//     master's existing value is left untouched.
//
// Candidate metadata is fetched once per uuid for the run. Any remote
// failure aborts the run; classifications already applied stay in
// place, there is no rollback.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - folderID: the target folder
//   - threshold: minimum similarity as a fraction in [0, 1]
//   - propertyName: the classification property, matched case-insensitively
//   - search: optional name filter for the folder listing
//   - exclusive: restrict donor candidates to the target folder
//
// # Outputs
//
//   - PropagationSummary: per-outcome counts
//   - error: non-nil on the first remote failure
func (e *Engine) PropagateLabels(ctx context.Context, folderID uint32, threshold float64, propertyName, search string, exclusive bool) (PropagationSummary, error) {
	var summary PropagationSummary

	masters, err := e.ListModels(ctx, []uint32{folderID}, search)
	if err != nil {
		return summary, err
	}

	property, err := e.ResolveProperty(ctx, propertyName, true)
	if err != nil {
		return summary, err
	}

	ids := make([]uuid.UUID, len(masters))
	for i := range masters {
		ids[i] = masters[i].ID
	}
	report, err := e.BuildSimpleReport(ctx, ids, threshold, nil, false)
	if err != nil {
		return summary, err
	}

	for i := range masters {
		master := &masters[i]
		item, ok := report.Items[master.ID.String()]
		if !ok {
			if err := e.clearPropertyValue(ctx, master.ID, property.ID); err != nil {
				return summary, err
			}
			e.logger.Info("cleared classification, no matches above threshold",
				"uuid", master.ID, "name", master.Name)
			summary.Cleared++
			continue
		}

		value, found, err := e.findDonorValue(ctx, item, property.Name, folderID, exclusive)
		if err != nil {
			return summary, err
		}
		if !found {
			summary.Unchanged++
			continue
		}
		if err := e.svc.SetModelProperty(ctx, master.ID, property.ID, value); err != nil {
			return summary, err
		}
		e.logger.Info("classified model from nearest neighbor",
			"uuid", master.ID, "name", master.Name, "value", value)
		summary.Classified++
	}
	return summary, nil
}

// findDonorValue scans a master's matches in descending similarity for
// the first usable classification value.
func (e *Engine) findDonorValue(ctx context.Context, item *ModelMatchReportItem, propertyName string, folderID uint32, exclusive bool) (string, bool, error) {
	ordered := make([]ModelMatch, len(item.Matches))
	copy(ordered, item.Matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Percentage < ordered[j].Percentage
	})
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	for _, candidate := range ordered {
		if exclusive && candidate.Model.FolderID != folderID {
			continue
		}
		metadata, err := e.candidateMetadata(ctx, candidate.Model.ID)
		if err != nil {
			return "", false, err
		}
		for _, meta := range metadata {
			if !strings.EqualFold(meta.Name, propertyName) {
				continue
			}
			if meta.Value != "" && !strings.EqualFold(meta.Value, unclassifiedSentinel) {
				return meta.Value, true, nil
			}
		}
	}
	return "", false, nil
}

// candidateMetadata fetches a candidate's metadata once per run.
func (e *Engine) candidateMetadata(ctx context.Context, id uuid.UUID) ([]api.ModelMetadataItem, error) {
	if cached, ok := e.metadataCache[id]; ok {
		return cached, nil
	}
	metadata, err := e.svc.GetModelMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	e.metadataCache[id] = metadata
	return metadata, nil
}

// clearPropertyValue deletes a property value, treating an absent
// value as already cleared.
func (e *Engine) clearPropertyValue(ctx context.Context, modelID uuid.UUID, keyID uint64) error {
	err := e.svc.DeleteModelProperty(ctx, modelID, keyID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return err
	}
	return nil
}
