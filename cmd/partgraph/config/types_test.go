// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL == "" {
		t.Error("default BaseURL should not be empty")
	}
	if strings.HasSuffix(cfg.BaseURL, "/") {
		t.Error("default BaseURL should not have a trailing slash")
	}
	if cfg.IdentityProviderURL == "" {
		t.Error("default IdentityProviderURL should not be empty")
	}
	if cfg.Tenants == nil {
		t.Error("default Tenants map should be non-nil")
	}
	if cfg.HTTP.RequestTimeoutSeconds != DefaultRequestTimeoutSeconds {
		t.Errorf("RequestTimeoutSeconds = %d, want %d",
			cfg.HTTP.RequestTimeoutSeconds, DefaultRequestTimeoutSeconds)
	}
	if cfg.HTTP.TokenTimeoutSeconds != DefaultTokenTimeoutSeconds {
		t.Errorf("TokenTimeoutSeconds = %d, want %d",
			cfg.HTTP.TokenTimeoutSeconds, DefaultTokenTimeoutSeconds)
	}
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate: %v", err)
	}
}

func TestValidate_RejectsBadURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a malformed base_url")
	}
}

func TestTenantClientID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tenants["acme"] = TenantConfig{ClientID: "abc123"}

	id, err := cfg.TenantClientID("acme")
	if err != nil {
		t.Fatalf("TenantClientID() failed: %v", err)
	}
	if id != "abc123" {
		t.Errorf("TenantClientID() = %q, want abc123", id)
	}
}

func TestTenantClientID_UnknownTenant(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.TenantClientID("nobody")
	if err == nil {
		t.Fatal("TenantClientID() should fail for an unknown tenant")
	}
	if !strings.Contains(err.Error(), "nobody") {
		t.Errorf("error should name the tenant: %v", err)
	}
}

func TestTenantClientID_EmptyClientID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tenants["acme"] = TenantConfig{}

	if _, err := cfg.TenantClientID("acme"); err == nil {
		t.Error("TenantClientID() should fail when client_id is empty")
	}
}
