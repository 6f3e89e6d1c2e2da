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
	"sort"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// FolderStatus is the model rollup for one folder.
type FolderStatus struct {
	Folder    api.Folder     `json:"folder"`
	Total     int            `json:"total"`
	States    map[string]int `json:"states"`
	FileTypes map[string]int `json:"fileTypes"`
}

// EnvironmentStatus summarizes every folder in the tenant: model
// count, state breakdown, and file-type breakdown.
//
// # Description
//
// Lists the tenant's folders sorted by name, then walks each folder's
// model listing page by page, counting per state and file type. Any
// remote failure aborts the rollup.
//
// # Outputs
//
//   - []FolderStatus: one entry per folder, name order
//   - error: non-nil on the first remote failure
func (e *Engine) EnvironmentStatus(ctx context.Context) ([]FolderStatus, error) {
	folders, err := e.svc.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})

	statuses := make([]FolderStatus, 0, len(folders))
	for _, folder := range folders {
		models, err := e.ListModels(ctx, []uint32{folder.ID}, "")
		if err != nil {
			return nil, err
		}
		status := FolderStatus{
			Folder:    folder,
			Total:     len(models),
			States:    make(map[string]int),
			FileTypes: make(map[string]int),
		}
		for _, model := range models {
			status.States[model.State]++
			if model.FileType != "" {
				status.FileTypes[model.FileType]++
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
