// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package token acquires and caches bearer tokens for the model service.

# Problem Statement

Every API request needs a bearer token issued by the tenant's identity
provider via the OAuth2 client-credentials grant. Tokens are valid for
hours, so requesting a fresh one per command would be wasteful and
slow, but a stale cached token produces confusing 401s mid-command.

# Solution

Manager keeps one token file per tenant under the cache directory
(~/.partgraph by default) and re-validates the cached token's expiry
claim locally before every use:

	cached token exists?
	  ├─ yes → exp claim still in the future? ── yes → use it
	  │                                       └─ no ─┐
	  └─ no ──────────────────────────────────────────┤
	                                                  ▼
	             POST client-credentials grant to the provider,
	             write the new token to the cache file, use it

The client secret is never cached. It comes from the SecretFunc the
caller supplies, typically the PARTGRAPH_CLIENT_SECRET environment
variable or an interactive prompt.

# Security Considerations

Token files are written with 0600. The token itself is never logged;
only its presence and expiry are.
*/
package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AleutianAI/partgraph/pkg/logging"
)

// expiryLeeway is subtracted from the token's exp claim so a token
// about to expire mid-command is refreshed up front.
const expiryLeeway = 60 * time.Second

// SecretFunc supplies the OAuth client secret for a tenant.
//
// Called only when a new token must be requested from the provider.
type SecretFunc func(tenant string) (string, error)

// EnvSecret returns a SecretFunc that reads the secret from the given
// environment variable, failing with a clear message when unset.
func EnvSecret(envVar string) SecretFunc {
	return func(tenant string) (string, error) {
		secret := os.Getenv(envVar)
		if secret == "" {
			return "", fmt.Errorf("no client secret for tenant %q: set %s", tenant, envVar)
		}
		return secret, nil
	}
}

// Manager acquires, caches, and invalidates tenant tokens.
type Manager struct {
	// providerURL is the OAuth2 token endpoint.
	providerURL string

	// cacheDir holds one <tenant>.token file per tenant.
	cacheDir string

	// httpClient is used for the grant request.
	httpClient *http.Client

	// secret supplies the client secret on refresh.
	secret SecretFunc

	logger *logging.Logger
}

// NewManager creates a token manager.
//
// # Inputs
//
//   - providerURL: the identity provider token endpoint
//   - cacheDir: directory for token cache files (created on demand)
//   - timeout: per-request timeout for the grant call
//   - secret: source of the client secret
//   - logger: diagnostics sink
func NewManager(providerURL, cacheDir string, timeout time.Duration, secret SecretFunc, logger *logging.Logger) *Manager {
	return &Manager{
		providerURL: providerURL,
		cacheDir:    cacheDir,
		httpClient:  &http.Client{Timeout: timeout},
		secret:      secret,
		logger:      logger,
	}
}

// DefaultCacheDir returns ~/.partgraph, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".partgraph"
	}
	return filepath.Join(home, ".partgraph")
}

// TokenPath returns the cache file path for a tenant.
func (m *Manager) TokenPath(tenant string) string {
	return filepath.Join(m.cacheDir, tenant+".token")
}

// GetToken returns a valid bearer token for the tenant.
//
// # Description
//
// Uses the cached token when its expiry claim is still comfortably in
// the future; otherwise requests a new one with the client-credentials
// grant and caches it. Failing to WRITE the cache is an error rather
// than a warning: a silently uncached token would force an interactive
// secret prompt on every command.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - tenant: tenant name (also the cache file key)
//   - clientID: OAuth client id for the tenant
//
// # Outputs
//
//   - string: the bearer token
//   - error: non-nil when the provider rejects the grant or the cache
//     file cannot be written
func (m *Manager) GetToken(ctx context.Context, tenant, clientID string) (string, error) {
	if cached, err := os.ReadFile(m.TokenPath(tenant)); err == nil {
		token := strings.TrimSpace(string(cached))
		if err := Validate(token); err == nil {
			m.logger.Debug("using cached token", "tenant", tenant)
			return token, nil
		}
		m.logger.Debug("cached token expired", "tenant", tenant)
	}

	token, err := m.requestToken(ctx, tenant, clientID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.cacheDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create token cache directory: %w", err)
	}
	if err := os.WriteFile(m.TokenPath(tenant), []byte(token), 0600); err != nil {
		return "", fmt.Errorf("failed to cache the token for tenant %q: %w", tenant, err)
	}
	m.logger.Info("token refreshed", "tenant", tenant)
	return token, nil
}

// Invalidate removes the cached token for a tenant.
//
// Missing files are not an error; the goal state is "no cached token"
// either way.
func (m *Manager) Invalidate(tenant string) error {
	err := os.Remove(m.TokenPath(tenant))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove the token file for tenant %q: %w", tenant, err)
	}
	return nil
}

// authenticationResponse is the provider's grant response.
type authenticationResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// requestToken performs the client-credentials grant.
func (m *Manager) requestToken(ctx context.Context, tenant, clientID string) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("empty client id for tenant %q", tenant)
	}
	secret, err := m.secret(tenant)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "tenantApp roles")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.providerURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build the token request: %w", err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + secret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("cache-control", "no-cache")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach the identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("the identity provider rejected the grant for tenant %q: status %d", tenant, resp.StatusCode)
	}

	var auth authenticationResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("failed to parse the identity provider response: %w", err)
	}
	if auth.AccessToken == "" {
		return "", fmt.Errorf("the identity provider returned an empty access token for tenant %q", tenant)
	}
	return auth.AccessToken, nil
}

// -----------------------------------------------------------------------------
// Token Inspection
// -----------------------------------------------------------------------------

// Claims is the subset of JWT claims the CLI inspects.
type Claims struct {
	Subject   string `json:"sub"`
	Issuer    string `json:"iss"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// Expiry returns the exp claim as a time.
func (c Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// ParseClaims decodes the payload segment of a JWT without verifying
// its signature. Signature verification belongs to the service; the
// CLI only needs the expiry for cache decisions.
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("malformed token: expected 3 segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("malformed token payload: %w", err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("malformed token claims: %w", err)
	}
	return claims, nil
}

// Validate checks that a token is well-formed and not expired.
//
// A token within expiryLeeway of its expiry is treated as expired so
// long-running commands do not start with a token about to lapse.
func Validate(token string) error {
	claims, err := ParseClaims(token)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == 0 {
		return fmt.Errorf("token has no expiry claim")
	}
	if time.Now().Add(expiryLeeway).After(claims.Expiry()) {
		return fmt.Errorf("token expired at %s", claims.Expiry().Format(time.RFC3339))
	}
	return nil
}
