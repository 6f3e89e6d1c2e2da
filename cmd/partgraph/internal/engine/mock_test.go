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
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/pkg/logging"
)

// mockService is an in-memory ModelService for engine tests. It
// records calls so tests can assert caching and pagination behavior.
type mockService struct {
	models     map[uuid.UUID]*api.Model
	metadata   map[uuid.UUID][]api.ModelMetadataItem
	trees      map[uuid.UUID]*api.AssemblyTreeNode
	matches    map[uuid.UUID][]api.PartToPartMatch
	folders    []api.Folder
	properties []api.Property

	// Failure switches.
	metadataErr   map[uuid.UUID]error
	getModelErr   map[uuid.UUID]error
	matchErr      map[uuid.UUID]error
	setPropErr    error
	deletePropErr error

	// Call records.
	getModelCalls  map[uuid.UUID]int
	matchPages     map[uuid.UUID][]int
	listPages      []int
	setProps       []propMutation
	deletedProps   []propMutation
	deletedFolders []uint32
	created        []string
}

var _ api.ModelService = (*mockService)(nil)

type propMutation struct {
	modelID uuid.UUID
	keyID   uint64
	value   string
}

func newMockService() *mockService {
	return &mockService{
		models:      make(map[uuid.UUID]*api.Model),
		metadata:    make(map[uuid.UUID][]api.ModelMetadataItem),
		trees:       make(map[uuid.UUID]*api.AssemblyTreeNode),
		matches:     make(map[uuid.UUID][]api.PartToPartMatch),
		metadataErr: make(map[uuid.UUID]error),
		getModelErr: make(map[uuid.UUID]error),
		matchErr:    make(map[uuid.UUID]error),

		getModelCalls: make(map[uuid.UUID]int),
		matchPages:    make(map[uuid.UUID][]int),
	}
}

// newTestEngine wires a mock service into an engine with a silent logger.
func newTestEngine(svc *mockService) *Engine {
	return New(svc, "acme", logging.Discard())
}

// addModel registers a finished model and returns its uuid.
func (m *mockService) addModel(name string, folderID uint32) uuid.UUID {
	id := uuid.New()
	m.models[id] = &api.Model{
		ID:       id,
		Name:     name,
		FolderID: folderID,
		State:    api.StateFinished,
	}
	return id
}

// treeOf builds a one-level bare tree: a root with leaf children.
func treeOf(root uuid.UUID, children ...uuid.UUID) *api.AssemblyTreeNode {
	tree := &api.AssemblyTreeNode{
		Type:    api.NodeTypeAssemblyTree,
		ModelID: root,
	}
	for _, child := range children {
		tree.Children = append(tree.Children, api.AssemblyTreeNode{
			Type:    api.NodeTypeAssemblyPart,
			ModelID: child,
		})
	}
	return tree
}

func (m *mockService) GetModel(ctx context.Context, id uuid.UUID) (*api.Model, error) {
	m.getModelCalls[id]++
	if err := m.getModelErr[id]; err != nil {
		return nil, err
	}
	model, ok := m.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: model %s", api.ErrNotFound, id)
	}
	clone := *model
	return &clone, nil
}

func (m *mockService) GetModelMetadata(ctx context.Context, id uuid.UUID) ([]api.ModelMetadataItem, error) {
	if err := m.metadataErr[id]; err != nil {
		return nil, err
	}
	return m.metadata[id], nil
}

func (m *mockService) GetAssemblyTree(ctx context.Context, id uuid.UUID) (*api.AssemblyTreeNode, error) {
	tree, ok := m.trees[id]
	if !ok {
		return nil, fmt.Errorf("%w: assembly tree for %s", api.ErrNotFound, id)
	}
	return tree, nil
}

func (m *mockService) GetMatchPage(ctx context.Context, id uuid.UUID, threshold float64, page, perPage int) ([]api.PartToPartMatch, api.PageData, error) {
	m.matchPages[id] = append(m.matchPages[id], page)
	if err := m.matchErr[id]; err != nil {
		return nil, api.PageData{}, err
	}
	matches, pageData := paginate(m.matches[id], page, perPage)
	return matches, pageData, nil
}

func (m *mockService) ListModelsPage(ctx context.Context, folderIDs []uint32, search string, page, perPage int) ([]api.Model, api.PageData, error) {
	m.listPages = append(m.listPages, page)

	folderSet := make(map[uint32]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		folderSet[id] = struct{}{}
	}
	var filtered []api.Model
	for _, model := range m.models {
		if len(folderSet) > 0 {
			if _, ok := folderSet[model.FolderID]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(model.Name, search) {
			continue
		}
		filtered = append(filtered, *model)
	}
	// Stable order for pagination across calls.
	sortModelsByName(filtered)
	models, pageData := paginate(filtered, page, perPage)
	return models, pageData, nil
}

func (m *mockService) ListFolders(ctx context.Context) ([]api.Folder, error) {
	return m.folders, nil
}

func (m *mockService) CreateFolder(ctx context.Context, name string) (*api.Folder, error) {
	folder := api.Folder{ID: uint32(len(m.folders) + 1), Name: name}
	m.folders = append(m.folders, folder)
	return &folder, nil
}

func (m *mockService) DeleteFolders(ctx context.Context, ids []uint32) error {
	m.deletedFolders = append(m.deletedFolders, ids...)
	return nil
}

func (m *mockService) ListProperties(ctx context.Context) ([]api.Property, error) {
	return m.properties, nil
}

func (m *mockService) CreateProperty(ctx context.Context, name string) (*api.Property, error) {
	property := api.Property{ID: uint64(len(m.properties) + 1), Name: name}
	m.properties = append(m.properties, property)
	m.created = append(m.created, name)
	return &property, nil
}

func (m *mockService) SetModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64, value string) error {
	if m.setPropErr != nil {
		return m.setPropErr
	}
	m.setProps = append(m.setProps, propMutation{modelID: modelID, keyID: keyID, value: value})
	return nil
}

func (m *mockService) DeleteModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64) error {
	if m.deletePropErr != nil {
		return m.deletePropErr
	}
	m.deletedProps = append(m.deletedProps, propMutation{modelID: modelID, keyID: keyID})
	return nil
}

func (m *mockService) DeleteModel(ctx context.Context, id uuid.UUID) error {
	delete(m.models, id)
	return nil
}

func (m *mockService) ReprocessModel(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockService) UploadModel(ctx context.Context, folderID uint32, units, filePath string) (*api.Model, error) {
	id := uuid.New()
	model := &api.Model{ID: id, Name: filePath, FolderID: folderID, Units: units, State: "processing"}
	m.models[id] = model
	clone := *model
	return &clone, nil
}

// paginate slices a full result set into one page with its metadata.
func paginate[T any](all []T, page, perPage int) ([]T, api.PageData) {
	lastPage := (len(all) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], api.PageData{
		Total:       len(all),
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}
}

func sortModelsByName(models []api.Model) {
	sort.Slice(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})
}
