// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"strings"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Model States
// -----------------------------------------------------------------------------

// Processing states reported by the service for a model.
//
// A model enters the index pipeline on upload and stays in a transient
// state until geometry processing completes. Only finished models can
// be compared or resolved into assembly structures.
const (
	StateFinished     = "finished"
	StateFailed       = "failed"
	StateMissingParts = "missing-parts"
)

// IsTerminalState reports whether a state will not change without
// user action (re-upload or reprocess).
func IsTerminalState(state string) bool {
	switch state {
	case StateFinished, StateFailed, StateMissingParts:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Core Data Types
// -----------------------------------------------------------------------------

// Model is a 3D-model record as returned by the service.
//
// FolderID is the numeric container id; FolderName is only populated
// on some endpoints and is attached locally elsewhere. Metadata is
// nil until explicitly fetched and attached.
type Model struct {
	ID            uuid.UUID           `json:"id"`
	IsAssembly    bool                `json:"isAssembly"`
	Name          string              `json:"name"`
	FolderID      uint32              `json:"folderId"`
	FolderName    *string             `json:"folderName,omitempty"`
	OwnerID       string              `json:"ownerId,omitempty"`
	CreatedAt     string              `json:"createdAt,omitempty"`
	FileType      string              `json:"fileType,omitempty"`
	Thumbnail     *string             `json:"thumbnail,omitempty"`
	Units         string              `json:"units,omitempty"`
	State         string              `json:"state,omitempty"`
	AttachmentURL *string             `json:"attachmentUrl,omitempty"`
	ShortID       *uint64             `json:"shortId,omitempty"`
	Metadata      []ModelMetadataItem `json:"metadata,omitempty"`
}

// MetadataValue returns the value of the named metadata property and
// whether it is present. The name comparison is case-insensitive.
func (m *Model) MetadataValue(name string) (string, bool) {
	for _, item := range m.Metadata {
		if strings.EqualFold(item.Name, name) {
			return item.Value, true
		}
	}
	return "", false
}

// Folder is a model container.
type Folder struct {
	ID        uint32  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"createdAt,omitempty"`
	OwnerID   *string `json:"ownerId,omitempty"`
}

// Property is a metadata key definition shared across a tenant.
type Property struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ModelMetadataItem is one metadata property attached to a model.
type ModelMetadataItem struct {
	KeyID uint64 `json:"metadataKeyId"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// -----------------------------------------------------------------------------
// Assembly Trees
// -----------------------------------------------------------------------------

// Node types in an assembly tree.
const (
	NodeTypeAssemblyTree = "assemblyTree"
	NodeTypeAssemblyPart = "assemblyPart"
	NodeTypeSubAssembly  = "subAssembly"
)

// AssemblyTreeNode is a bare assembly tree node as returned by the
// service: model references only, no model detail.
type AssemblyTreeNode struct {
	Type     string             `json:"type"`
	ModelID  uuid.UUID          `json:"modelId"`
	Children []AssemblyTreeNode `json:"children,omitempty"`
}

// -----------------------------------------------------------------------------
// Matching
// -----------------------------------------------------------------------------

// PartToPartMatch is one geometric match row from the service.
//
// MatchPercentage is a fraction on the 0..1 scale, the same scale the
// request threshold uses.
type PartToPartMatch struct {
	MatchedModel    Model   `json:"matchedModel"`
	MatchPercentage float64 `json:"matchPercentage"`
}

// PageData is the pagination metadata attached to list responses.
type PageData struct {
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	StartIndex  int `json:"startIndex,omitempty"`
	EndIndex    int `json:"endIndex,omitempty"`
}

// -----------------------------------------------------------------------------
// Wire Envelopes (internal)
// -----------------------------------------------------------------------------

type singleModelResponse struct {
	Model Model `json:"model"`
}

type modelListResponse struct {
	Models   []Model  `json:"models"`
	PageData PageData `json:"pageData"`
}

type matchPageResponse struct {
	Matches  []PartToPartMatch `json:"matches"`
	PageData PageData          `json:"pageData"`
}

type folderListResponse struct {
	Folders []Folder `json:"folders"`
}

type folderCreateRequest struct {
	Name string `json:"name"`
}

type folderCreateResponse struct {
	Folder Folder `json:"folder"`
}

type propertyListResponse struct {
	MetadataKeys []Property `json:"metadataKeys"`
}

type propertyCreateRequest struct {
	MetadataKeyName string `json:"metadataKeyName"`
}

type propertyCreateResponse struct {
	MetadataKey Property `json:"metadataKey"`
}

type propertyValueRequest struct {
	Value string `json:"value"`
}

type modelMetadataResponse struct {
	Metadata []ModelMetadataItem `json:"metadata"`
}
