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
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/pkg/logging"
)

// listPageSize is the page size for model listings.
const listPageSize = 50

// Engine resolves model relationships through a remote service handle,
// memoizing model and metadata fetches for its lifetime.
type Engine struct {
	svc    api.ModelService
	tenant string
	logger *logging.Logger

	// modelCache memoizes GetModel results per uuid for this run.
	modelCache map[uuid.UUID]*api.Model

	// metadataCache memoizes per-model metadata fetched during label
	// propagation, separate from the metadata attached on GetModel.
	metadataCache map[uuid.UUID][]api.ModelMetadataItem

	// properties is the tenant property list, loaded lazily.
	properties []api.Property
	propLoaded bool
}

// New creates an engine bound to one service handle and tenant.
func New(svc api.ModelService, tenant string, logger *logging.Logger) *Engine {
	return &Engine{
		svc:           svc,
		tenant:        tenant,
		logger:        logger,
		modelCache:    make(map[uuid.UUID]*api.Model),
		metadataCache: make(map[uuid.UUID][]api.ModelMetadataItem),
	}
}

// Tenant returns the tenant this engine operates on.
func (e *Engine) Tenant() string {
	return e.tenant
}

// GetModel returns the model for the given uuid, with metadata attached
// when the metadata fetch succeeds.
//
// # Description
//
// With useCache set, a previously fetched model is returned as-is.
// Otherwise the model is fetched, its metadata attached best-effort
// (a metadata failure is logged and swallowed, the model fetch still
// succeeds), and the result cached for the rest of the run.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - id: the model uuid
//   - useCache: whether a cached entry satisfies the call
//
// # Outputs
//
//   - *api.Model: the model, never nil on success
//   - error: non-nil when the model fetch itself fails
func (e *Engine) GetModel(ctx context.Context, id uuid.UUID, useCache bool) (*api.Model, error) {
	if useCache {
		if cached, ok := e.modelCache[id]; ok {
			return cached, nil
		}
	}

	model, err := e.svc.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}

	metadata, err := e.svc.GetModelMetadata(ctx, id)
	if err != nil {
		e.logger.Warn("metadata fetch failed, continuing without it",
			"uuid", id, "error", err)
	} else {
		model.Metadata = metadata
	}

	e.modelCache[id] = model
	return model, nil
}

// ListModels returns all models in the given folders, optionally
// filtered by a name search, walking the listing page by page.
func (e *Engine) ListModels(ctx context.Context, folderIDs []uint32, search string) ([]api.Model, error) {
	var all []api.Model
	page := 1
	for {
		models, pageData, err := e.svc.ListModelsPage(ctx, folderIDs, search, page, listPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, models...)
		if pageData.CurrentPage >= pageData.LastPage {
			return all, nil
		}
		page = pageData.CurrentPage + 1
	}
}

// -----------------------------------------------------------------------------
// Folders
// -----------------------------------------------------------------------------

// FindFolder returns the folder with the given name, matched
// case-insensitively against the tenant's folder list.
func (e *Engine) FindFolder(ctx context.Context, name string) (*api.Folder, error) {
	folders, err := e.svc.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if strings.EqualFold(folders[i].Name, name) {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFolderNotFound, name)
}

// DeleteFoldersByName resolves folder names to ids and deletes them.
//
// Names that do not resolve are reported together; nothing is deleted
// unless every name resolves.
func (e *Engine) DeleteFoldersByName(ctx context.Context, names []string) error {
	folders, err := e.svc.ListFolders(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string]uint32, len(folders))
	for _, folder := range folders {
		byName[strings.ToLower(folder.Name)] = folder.ID
	}

	var ids []uint32
	var missing []string
	for _, name := range names {
		if id, ok := byName[strings.ToLower(name)]; ok {
			ids = append(ids, id)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, strings.Join(missing, ", "))
	}
	return e.svc.DeleteFolders(ctx, ids)
}

// -----------------------------------------------------------------------------
// Properties
// -----------------------------------------------------------------------------

// ResolveProperty returns the property with the given name, matched
// case-insensitively. When create is set and no property matches, one
// is created remotely and added to the cached list.
func (e *Engine) ResolveProperty(ctx context.Context, name string, create bool) (*api.Property, error) {
	if !e.propLoaded {
		properties, err := e.svc.ListProperties(ctx)
		if err != nil {
			return nil, err
		}
		e.properties = properties
		e.propLoaded = true
	}

	for i := range e.properties {
		if strings.EqualFold(e.properties[i].Name, name) {
			return &e.properties[i], nil
		}
	}
	if !create {
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
	}

	created, err := e.svc.CreateProperty(ctx, name)
	if err != nil {
		return nil, err
	}
	e.properties = append(e.properties, *created)
	e.logger.Info("created classification property", "name", created.Name, "id", created.ID)
	return created, nil
}
