// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for user-provided values.
//
// This package contains validators for CLI inputs that are forwarded into
// remote API requests or file paths. Validating up front produces a clear
// diagnostic at the command boundary instead of an opaque 400 from the
// service after several successful pages of work.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseModelID parses a user-provided model identifier.
//
// Accepts the canonical hyphenated UUID form, with surrounding
// whitespace trimmed. Returns an error naming the offending input so
// it can be surfaced directly to the user.
//
// Example:
//
//	id, err := validation.ParseModelID(flagUUID)
//	if err != nil {
//	    return err
//	}
func ParseModelID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil, fmt.Errorf("model id cannot be empty")
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid model id %q: %w", raw, err)
	}
	return id, nil
}

// ParseModelIDs parses multiple model identifiers.
//
// Returns an error listing all invalid inputs if any fail to parse.
// The returned slice preserves input order.
func ParseModelIDs(raws []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raws))
	var invalid []string
	for _, raw := range raws {
		id, err := ParseModelID(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		ids = append(ids, id)
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid model ids: %v", invalid)
	}
	return ids, nil
}

// ParseThreshold parses a similarity threshold.
//
// The threshold is a fraction in [0.0, 1.0]. Values outside the range
// are rejected rather than clamped so a user typing a percentage
// (e.g. 95) gets told instead of silently matching everything.
//
// Example:
//
//	threshold, err := validation.ParseThreshold("0.95")
func ParseThreshold(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("threshold cannot be empty")
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", raw, err)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("threshold %v out of range: must be a fraction between 0.0 and 1.0", v)
	}
	return v, nil
}

// ValidateTenant validates a tenant identifier.
//
// Tenant names become URL path segments and token cache filenames, so
// the accepted alphabet is deliberately narrow: lowercase letters,
// digits, and hyphens, 1-63 characters, starting with an alphanumeric.
func ValidateTenant(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant cannot be empty")
	}
	if len(tenant) > 63 {
		return fmt.Errorf("tenant %q too long: max 63 characters", tenant)
	}
	for i, r := range tenant {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' && i > 0:
		default:
			return fmt.Errorf("invalid tenant %q: must be lowercase alphanumeric with interior hyphens", tenant)
		}
	}
	return nil
}

// ValidateUnits validates a measurement unit name for model upload.
//
// The service accepts a fixed set of unit identifiers. Unknown units
// are rejected locally to avoid uploading a file the service will
// refuse to process.
func ValidateUnits(units string) error {
	switch strings.ToLower(strings.TrimSpace(units)) {
	case "mm", "cm", "m", "in", "ft":
		return nil
	default:
		return fmt.Errorf("invalid units %q: must be one of mm, cm, m, in, ft", units)
	}
}
