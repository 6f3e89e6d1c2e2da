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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/pkg/logging"
)

// seqService serves a fixed sequence of processing states, repeating
// the last one once the sequence is exhausted.
type seqService struct {
	*mockService
	states []string
	polls  int
}

func (s *seqService) GetModel(ctx context.Context, id uuid.UUID) (*api.Model, error) {
	index := s.polls
	if index >= len(s.states) {
		index = len(s.states) - 1
	}
	s.polls++
	return &api.Model{ID: id, Name: "uploaded", State: s.states[index]}, nil
}

// shortPoll shrinks the poll interval for the duration of one test.
func shortPoll(t *testing.T) {
	t.Helper()
	saved := pollInterval
	pollInterval = time.Millisecond
	t.Cleanup(func() { pollInterval = saved })
}

func TestWaitForModel_ReachesTerminalState(t *testing.T) {
	shortPoll(t)
	svc := &seqService{
		mockService: newMockService(),
		states:      []string{"processing", "processing", api.StateFinished},
	}
	e := New(svc, "acme", logging.Discard())

	model, err := e.WaitForModel(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, api.StateFinished, model.State)
	assert.Equal(t, 3, svc.polls)
}

func TestWaitForModel_FailedIsTerminal(t *testing.T) {
	shortPoll(t)
	svc := &seqService{
		mockService: newMockService(),
		states:      []string{"processing", api.StateFailed},
	}
	e := New(svc, "acme", logging.Discard())

	model, err := e.WaitForModel(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, api.StateFailed, model.State)
}

func TestWaitForModel_TimeoutOutcome(t *testing.T) {
	shortPoll(t)
	svc := &seqService{
		mockService: newMockService(),
		states:      []string{"processing"},
	}
	e := New(svc, "acme", logging.Discard())

	model, err := e.WaitForModel(context.Background(), uuid.New(), 5*time.Millisecond)
	assert.ErrorIs(t, err, ErrPollTimeout)
	// The last observed model is still returned for reporting.
	require.NotNil(t, model)
	assert.Equal(t, "processing", model.State)
}

func TestWaitForModel_ContextCancellation(t *testing.T) {
	shortPoll(t)
	svc := &seqService{
		mockService: newMockService(),
		states:      []string{"processing"},
	}
	e := New(svc, "acme", logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.WaitForModel(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpload_WithoutValidation(t *testing.T) {
	svc := newMockService()
	e := newTestEngine(svc)

	model, err := e.Upload(context.Background(), 3, "mm", "bracket.stl", false, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), model.FolderID)
	assert.Equal(t, "processing", model.State)
}

func TestUpload_ValidatePollsToTerminal(t *testing.T) {
	shortPoll(t)
	svc := &seqService{
		mockService: newMockService(),
		states:      []string{"processing", api.StateFinished},
	}
	e := New(svc, "acme", logging.Discard())

	model, err := e.Upload(context.Background(), 3, "mm", "bracket.stl", true, 0)
	require.NoError(t, err)
	assert.Equal(t, api.StateFinished, model.State)
}
