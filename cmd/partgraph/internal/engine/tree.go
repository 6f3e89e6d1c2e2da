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

// AssemblyTreeNode is an assembly tree node with the full model record
// resolved in place of the bare model reference.
type AssemblyTreeNode struct {
	Type     string             `json:"type"`
	Model    api.Model          `json:"model"`
	Children []AssemblyTreeNode `json:"children,omitempty"`
}

// AssemblyTree resolves the full assembly hierarchy of a model.
//
// # Description
//
// Fetches the bare tree, then resolves every node depth-first through
// the model cache, so a sub-assembly referenced from several places is
// fetched once. The resolved tree has the same shape as the bare one.
// Resolution is atomic: a failure at any depth aborts the whole call
// and no partial tree is returned.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - id: uuid of the root model
//
// # Outputs
//
//   - *AssemblyTreeNode: the resolved tree, never nil on success
//   - error: non-nil when the tree fetch or any model fetch fails
func (e *Engine) AssemblyTree(ctx context.Context, id uuid.UUID) (*AssemblyTreeNode, error) {
	bare, err := e.svc.GetAssemblyTree(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.resolveNode(ctx, bare)
}

// resolveNode resolves one bare node and recurses into its children.
func (e *Engine) resolveNode(ctx context.Context, bare *api.AssemblyTreeNode) (*AssemblyTreeNode, error) {
	model, err := e.GetModel(ctx, bare.ModelID, true)
	if err != nil {
		return nil, err
	}

	resolved := &AssemblyTreeNode{
		Type:  bare.Type,
		Model: *model,
	}
	for i := range bare.Children {
		child, err := e.resolveNode(ctx, &bare.Children[i])
		if err != nil {
			return nil, err
		}
		resolved.Children = append(resolved.Children, *child)
	}
	return resolved, nil
}
