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
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// pollInterval is the fixed delay between processing-state checks.
// A variable so tests can shorten it.
var pollInterval = 2 * time.Second

// WaitForModel polls a model until its processing state is terminal.
//
// # Description
//
// Checks the state every two seconds, bypassing the cache so each poll
// sees fresh data. Terminal states are finished, failed, and
// missing-parts. With a positive timeout the wait is bounded; on
// expiry the last observed model is returned alongside ErrPollTimeout
// so the caller can report the state it got stuck in. A zero or
// negative timeout waits until the context ends.
//
// # Inputs
//
//   - ctx: context for cancellation
//   - id: uuid of the model to watch
//   - timeout: overall bound, <= 0 means none
//
// # Outputs
//
//   - *api.Model: the model at the last poll, non-nil on timeout too
//   - error: nil when terminal; ErrPollTimeout on expiry; otherwise
//     the first remote or context failure
func (e *Engine) WaitForModel(ctx context.Context, id uuid.UUID, timeout time.Duration) (*api.Model, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	var last *api.Model
	for {
		model, err := e.GetModel(ctx, id, false)
		if err != nil {
			return last, err
		}
		last = model
		if api.IsTerminalState(model.State) {
			return model, nil
		}
		e.logger.Debug("model still processing", "uuid", id, "state", model.State)

		if !deadline.IsZero() && time.Now().Add(pollInterval).After(deadline) {
			return last, fmt.Errorf("%w: last state %q", ErrPollTimeout, model.State)
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Upload sends a model file to a folder and optionally blocks until
// processing reaches a terminal state.
//
// # Inputs
//
//   - ctx: context for cancellation
//   - folderID: destination folder
//   - units: measurement units of the file's geometry
//   - filePath: local path of the model file
//   - validate: whether to poll the uploaded model to a terminal state
//   - timeout: overall bound for the validation poll, <= 0 means none
//
// # Outputs
//
//   - *api.Model: the uploaded model, at its last observed state when
//     validating
//   - error: non-nil when the upload or the bounded wait fails
func (e *Engine) Upload(ctx context.Context, folderID uint32, units, filePath string, validate bool, timeout time.Duration) (*api.Model, error) {
	model, err := e.svc.UploadModel(ctx, folderID, units, filePath)
	if err != nil {
		return nil, err
	}
	e.logger.Info("model uploaded", "uuid", model.ID, "name", model.Name, "state", model.State)

	if !validate || api.IsTerminalState(model.State) {
		return model, nil
	}
	return e.WaitForModel(ctx, model.ID, timeout)
}
