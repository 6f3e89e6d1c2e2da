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
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
)

// duplicatesHeader is the column layout of the duplicates table.
var duplicatesHeader = []string{
	"MODEL_NAME",
	"MATCHING_MODEL_NAME",
	"MATCH",
	"SOURCE_UUID",
	"MATCHING_UUID",
	"SOURCE_FOLDER_NAME",
	"MATCHING_FOLDER_NAME",
	"COMPARISON_URL",
}

// WriteDuplicatesCSV writes a duplicate report as a CSV table.
//
// # Description
//
// One header row, then one row per retained match. Sources are ordered
// by name (uuid as tiebreak) for stable output; a source's matches
// keep their retained order. Percentages are formatted with four
// decimals on the 0..1 scale the service reports.
func WriteDuplicatesCSV(w io.Writer, report *engine.SimpleDuplicatesMatchReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(duplicatesHeader); err != nil {
		return err
	}

	items := make([]*engine.ModelMatchReportItem, 0, len(report.Items))
	for _, item := range report.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SourceName != items[j].SourceName {
			return items[i].SourceName < items[j].SourceName
		}
		return items[i].SourceUUID.String() < items[j].SourceUUID.String()
	})

	for _, item := range items {
		for _, match := range item.Matches {
			row := []string{
				item.SourceName,
				match.Model.Name,
				fmt.Sprintf("%.4f", match.Percentage),
				item.SourceUUID.String(),
				match.Model.ID.String(),
				item.SourceFolderName,
				folderName(&match.Model),
				match.ComparisonURL,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteModelsCSV writes a model listing as a CSV table.
func WriteModelsCSV(w io.Writer, models []api.Model) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"UUID", "NAME", "FOLDER_ID", "FOLDER_NAME", "FILE_TYPE", "STATE", "UNITS"}); err != nil {
		return err
	}
	for i := range models {
		model := &models[i]
		row := []string{
			model.ID.String(),
			model.Name,
			fmt.Sprintf("%d", model.FolderID),
			folderName(model),
			model.FileType,
			model.State,
			model.Units,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func folderName(model *api.Model) string {
	if model.FolderName != nil {
		return *model.FolderName
	}
	return ""
}
