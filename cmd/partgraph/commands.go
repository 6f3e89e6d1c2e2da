// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/cmd/partgraph/config"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/token"
	"github.com/AleutianAI/partgraph/pkg/logging"
	"github.com/AleutianAI/partgraph/pkg/validation"
)

// clientSecretEnvVar supplies the OAuth client secret on token refresh.
const clientSecretEnvVar = "PARTGRAPH_CLIENT_SECRET"

// minHTTPTimeout guards against a misconfigured zero timeout turning
// into an infinite hang.
const minHTTPTimeout = 1 * time.Second

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

var (
	flagTenant   string
	flagFormat   string
	flagPretty   bool
	flagNoColor  bool
	flagLogLevel string
	flagQuiet    bool
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "partgraph",
	Short: "Resolve relationships between 3D models in a geometric comparison service",
	Long: `partgraph is a command-line client for a remote geometric
model-comparison service. It reconstructs assembly hierarchies,
aggregates similarity matches, derives duplicate reports, exports
assembly graphs, and propagates classification labels between
similar models.

Configuration lives at ~/.partgraph/partgraph.yaml and is created
with defaults on first run. Most commands need --tenant and the
client secret in ` + clientSecretEnvVar + `.

Examples:
  partgraph models list --tenant acme --folder 5
  partgraph assembly tree --tenant acme 95ac5f0d-... --format tree
  partgraph match report --tenant acme --folder 5 --threshold 0.95 --output report
  partgraph label folder --tenant acme --folder 5 --property Category`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagTenant, "tenant", "t", "", "tenant namespace for all service calls")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "json", "output format: json, csv, or tree")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", true, "indent JSON output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable styled terminal output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress log output")
}

// =============================================================================
// RUNTIME WIRING
// =============================================================================

// runtime bundles the collaborators a command needs: configuration,
// logging, the authenticated service client, and the engine.
type runtime struct {
	cfg    *config.PartgraphConfig
	logger *logging.Logger
	tokens *token.Manager
	client *api.Client
	engine *engine.Engine
}

// newLogger builds the CLI logger from the global flags.
func newLogger() (*logging.Logger, error) {
	level := logging.LevelWarn
	switch flagLogLevel {
	case "debug":
		level = logging.LevelDebug
	case "info":
		level = logging.LevelInfo
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", flagLogLevel)
	}
	return logging.New(logging.Config{
		Level:   level,
		Service: "partgraph",
		Quiet:   flagQuiet,
	}), nil
}

// newTokenManager wires the token manager from loaded configuration.
// Used directly by the token subcommands, which need no data client.
func newTokenManager(logger *logging.Logger) *token.Manager {
	timeout := enforceMinTimeout(
		time.Duration(config.Global.HTTP.TokenTimeoutSeconds)*time.Second, minHTTPTimeout)
	return token.NewManager(
		config.Global.IdentityProviderURL,
		token.DefaultCacheDir(),
		timeout,
		token.EnvSecret(clientSecretEnvVar),
		logger,
	)
}

// newRuntime loads configuration, acquires a token for the selected
// tenant, and wires the service client plus engine.
func newRuntime(ctx context.Context) (*runtime, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := validation.ValidateTenant(flagTenant); err != nil {
		return nil, err
	}
	clientID, err := config.Global.TenantClientID(flagTenant)
	if err != nil {
		return nil, err
	}

	tokens := newTokenManager(logger)
	accessToken, err := tokens.GetToken(ctx, flagTenant, clientID)
	if err != nil {
		return nil, err
	}

	requestTimeout := enforceMinTimeout(
		time.Duration(config.Global.HTTP.RequestTimeoutSeconds)*time.Second, minHTTPTimeout)
	client := api.NewClient(config.Global.BaseURL, flagTenant, accessToken, requestTimeout, logger)

	return &runtime{
		cfg:    &config.Global,
		logger: logger,
		tokens: tokens,
		client: client,
		engine: engine.New(client, flagTenant, logger),
	}, nil
}

// close releases runtime resources.
func (r *runtime) close() {
	if r.logger != nil {
		_ = r.logger.Close()
	}
}

// enforceMinTimeout raises zero, negative, or too-small timeouts to
// the minimum so misconfiguration cannot hang a command forever.
func enforceMinTimeout(requested, minimum time.Duration) time.Duration {
	if requested < minimum {
		return minimum
	}
	return requested
}
