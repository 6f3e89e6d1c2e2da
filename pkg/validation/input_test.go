// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseModelID_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"canonical", "95a73e9e-f6b1-4b0a-9a6a-6c5d2f5db3f1"},
		{"leading whitespace", "  95a73e9e-f6b1-4b0a-9a6a-6c5d2f5db3f1"},
		{"trailing whitespace", "95a73e9e-f6b1-4b0a-9a6a-6c5d2f5db3f1\n"},
		{"uppercase", "95A73E9E-F6B1-4B0A-9A6A-6C5D2F5DB3F1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseModelID(tt.input)
			if err != nil {
				t.Fatalf("ParseModelID(%q) error: %v", tt.input, err)
			}
			if id == uuid.Nil {
				t.Error("expected non-nil uuid")
			}
		})
	}
}

func TestParseModelID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"not a uuid", "not-a-uuid"},
		{"truncated", "95a73e9e-f6b1-4b0a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModelID(tt.input); err == nil {
				t.Errorf("ParseModelID(%q) should fail", tt.input)
			}
		})
	}
}

func TestParseModelIDs(t *testing.T) {
	valid := "95a73e9e-f6b1-4b0a-9a6a-6c5d2f5db3f1"

	ids, err := ParseModelIDs([]string{valid, valid})
	if err != nil {
		t.Fatalf("ParseModelIDs error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %d", len(ids))
	}
}

func TestParseModelIDs_ReportsAllInvalid(t *testing.T) {
	valid := "95a73e9e-f6b1-4b0a-9a6a-6c5d2f5db3f1"

	_, err := ParseModelIDs([]string{valid, "bogus", "also-bogus"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bogus") || !strings.Contains(err.Error(), "also-bogus") {
		t.Errorf("error should list every invalid input: %v", err)
	}
}

func TestParseModelIDs_Empty(t *testing.T) {
	ids, err := ParseModelIDs(nil)
	if err != nil {
		t.Fatalf("ParseModelIDs(nil) error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected 0 ids, got %d", len(ids))
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"zero", "0", 0.0, false},
		{"one", "1", 1.0, false},
		{"fraction", "0.95", 0.95, false},
		{"whitespace", " 0.5 ", 0.5, false},
		{"empty", "", 0, true},
		{"percentage mistake", "95", 0, true},
		{"negative", "-0.1", 0, true},
		{"above one", "1.01", 0, true},
		{"not a number", "high", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThreshold(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseThreshold(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseThreshold(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseThreshold(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateTenant(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "acme", false},
		{"with digits", "acme2", false},
		{"with hyphen", "acme-corp", false},
		{"empty", "", true},
		{"leading hyphen", "-acme", true},
		{"uppercase", "Acme", true},
		{"path traversal", "../etc", true},
		{"too long", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenant(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateTenant(%q) should fail", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateTenant(%q) error: %v", tt.input, err)
			}
		})
	}
}

func TestValidateUnits(t *testing.T) {
	for _, valid := range []string{"mm", "cm", "m", "in", "ft", "MM", " in "} {
		if err := ValidateUnits(valid); err != nil {
			t.Errorf("ValidateUnits(%q) error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "furlong", "inches", "12"} {
		if err := ValidateUnits(invalid); err == nil {
			t.Errorf("ValidateUnits(%q) should fail", invalid)
		}
	}
}
