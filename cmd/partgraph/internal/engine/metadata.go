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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// SetMetadataValue sets one metadata value on a model by property
// name, creating the property when it does not exist yet. An empty
// value deletes the property value instead.
func (e *Engine) SetMetadataValue(ctx context.Context, modelID uuid.UUID, propertyName, value string) error {
	property, err := e.ResolveProperty(ctx, propertyName, true)
	if err != nil {
		return err
	}
	if value == "" {
		return e.clearPropertyValue(ctx, modelID, property.ID)
	}
	return e.svc.SetModelProperty(ctx, modelID, property.ID, value)
}

// DeleteMetadataValue deletes one metadata value on a model by
// property name. An unknown property name is an error; an absent value
// is not.
func (e *Engine) DeleteMetadataValue(ctx context.Context, modelID uuid.UUID, propertyName string) error {
	property, err := e.ResolveProperty(ctx, propertyName, false)
	if err != nil {
		return err
	}
	return e.clearPropertyValue(ctx, modelID, property.ID)
}

// MetadataApplySummary counts the outcomes of one bulk metadata apply.
type MetadataApplySummary struct {
	// Set is the number of values written.
	Set int `json:"set"`

	// Deleted counts values removed, both by the clean pass and by
	// empty values in the input.
	Deleted int `json:"deleted"`
}

// ApplyMetadataCSV applies a NAME,VALUE metadata table to one model.
//
// # Description
//
// Reads CSV records of property name and value, skipping a leading
// NAME,VALUE header when present. Property ids are resolved by
// case-insensitive name and created remotely when absent. An empty
// value deletes the property value. With clean set, every metadata
// value currently on the model is deleted before any row is applied.
// The apply is fail-fast: rows already written stay written.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - modelID: the model to mutate
//   - r: CSV input
//   - clean: whether to delete all existing values first
//
// # Outputs
//
//   - MetadataApplySummary: set and deleted counts
//   - error: non-nil on malformed input or the first remote failure
func (e *Engine) ApplyMetadataCSV(ctx context.Context, modelID uuid.UUID, r io.Reader, clean bool) (MetadataApplySummary, error) {
	var summary MetadataApplySummary

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return summary, fmt.Errorf("failed to parse the metadata table: %w", err)
	}

	if clean {
		existing, err := e.svc.GetModelMetadata(ctx, modelID)
		if err != nil {
			return summary, err
		}
		for _, item := range existing {
			if err := e.clearPropertyValue(ctx, modelID, item.KeyID); err != nil {
				return summary, err
			}
			summary.Deleted++
		}
	}

	for i, record := range records {
		name, value := record[0], record[1]
		if i == 0 && name == "NAME" && value == "VALUE" {
			continue
		}
		if name == "" {
			return summary, fmt.Errorf("metadata table row %d has an empty property name", i+1)
		}
		if err := e.SetMetadataValue(ctx, modelID, name, value); err != nil {
			return summary, err
		}
		if value == "" {
			summary.Deleted++
		} else {
			summary.Set++
		}
	}
	return summary, nil
}
