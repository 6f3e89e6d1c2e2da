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

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
)

// matchPageSize is the fixed page size for match pagination.
const matchPageSize = 50

// MatchModel aggregates every similarity match for a model above the
// given threshold into one ordered sequence.
//
// # Description
//
// Pages the match endpoint sequentially starting at page 1 with a
// fixed page size, advancing to currentPage+1 while currentPage is
// below lastPage. Each page is requested exactly once, in increasing
// order, and the loop finishes after exactly lastPage requests.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - id: uuid of the source model
//   - threshold: minimum similarity as a fraction in [0, 1]
//
// # Outputs
//
//   - []api.PartToPartMatch: all matches in service order
//   - error: non-nil when any page request fails
func (e *Engine) MatchModel(ctx context.Context, id uuid.UUID, threshold float64) ([]api.PartToPartMatch, error) {
	var all []api.PartToPartMatch
	page := 1
	for {
		matches, pageData, err := e.svc.GetMatchPage(ctx, id, threshold, page, matchPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
		if pageData.CurrentPage >= pageData.LastPage {
			return all, nil
		}
		page = pageData.CurrentPage + 1
	}
}

// ComparisonURL returns the interactive comparison page for a pair of
// models in the given tenant.
func ComparisonURL(tenant string, source, matched uuid.UUID) string {
	return fmt.Sprintf("https://%s.physna.com/app/compare?modelAId=%s&modelBId=%s",
		tenant, source, matched)
}
