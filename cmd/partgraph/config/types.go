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
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PartgraphConfig is the on-disk configuration for the CLI.
//
// The file lives at ~/.partgraph/partgraph.yaml and is created with
// defaults on first run. Tenants map a short tenant name (used in
// command flags and URL paths) to the OAuth client id registered for
// that tenant with the identity provider. Client secrets are never
// stored here; they are read from the environment or prompted.
type PartgraphConfig struct {
	// BaseURL is the root of the model service API, without a
	// trailing slash. Versioned paths (/v2/...) are appended by the
	// client.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// IdentityProviderURL is the OAuth2 token endpoint used for the
	// client-credentials grant.
	IdentityProviderURL string `yaml:"identity_provider_url" validate:"required,url"`

	// Tenants maps tenant name to per-tenant settings.
	Tenants map[string]TenantConfig `yaml:"tenants" validate:"dive"`

	// HTTP holds request timeout settings.
	HTTP HTTPConfig `yaml:"http"`
}

// TenantConfig holds per-tenant identity settings.
type TenantConfig struct {
	// ClientID is the OAuth2 client id for this tenant.
	ClientID string `yaml:"client_id" validate:"required"`
}

// HTTPConfig holds request timeout settings in seconds.
//
// Zero values fall back to the defaults at load time. Data requests
// get a long timeout because folder-wide match pages can be slow on
// large tenants; token requests are small and fail fast.
type HTTPConfig struct {
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" validate:"gte=0"`
	TokenTimeoutSeconds   int `yaml:"token_timeout_seconds" validate:"gte=0"`
}

// Default timeouts applied when the config leaves them unset.
const (
	DefaultRequestTimeoutSeconds = 300
	DefaultTokenTimeoutSeconds   = 30
)

// DefaultConfig returns the configuration written on first run.
//
// The tenant map starts empty on purpose: tenant names and client ids
// are account-specific and have no sensible defaults. The generated
// file shows the expected shape so users know what to fill in.
func DefaultConfig() PartgraphConfig {
	return PartgraphConfig{
		BaseURL:             "https://api.physna.com",
		IdentityProviderURL: "https://physna.okta.com/oauth2/default/v1/token",
		Tenants:             map[string]TenantConfig{},
		HTTP: HTTPConfig{
			RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
			TokenTimeoutSeconds:   DefaultTokenTimeoutSeconds,
		},
	}
}

// Validate checks the configuration for structural problems.
//
// Returns a descriptive error naming the first offending field.
func (c *PartgraphConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// TenantClientID resolves the OAuth client id for a tenant.
//
// Returns an error when the tenant is not configured, listing the
// config path so the user knows where to add it.
func (c *PartgraphConfig) TenantClientID(tenant string) (string, error) {
	tc, ok := c.Tenants[tenant]
	if !ok {
		return "", fmt.Errorf("tenant %q is not configured: add it under 'tenants' in %s", tenant, Path())
	}
	if tc.ClientID == "" {
		return "", fmt.Errorf("tenant %q has no client_id configured in %s", tenant, Path())
	}
	return tc.ClientID, nil
}
