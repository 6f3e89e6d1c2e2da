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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/cmd/partgraph/config"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/token"
	"github.com/AleutianAI/partgraph/pkg/validation"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the cached access token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a valid access token for the tenant",
	Long: `Print a valid access token, refreshing it through the identity
provider when the cached one is missing or expired.`,
	RunE: runTokenShow,
}

var tokenClaimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Print the claims of the tenant's cached or refreshed token",
	RunE:  runTokenClaims,
}

var tokenInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Remove the tenant's cached token",
	RunE:  runTokenInvalidate,
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd, tokenClaimsCmd, tokenInvalidateCmd)
	rootCmd.AddCommand(tokenCmd)
}

// tokenSetup loads config and validates the tenant for token commands,
// which need no data client.
func tokenSetup() (string, error) {
	if err := config.Load(); err != nil {
		return "", err
	}
	if err := validation.ValidateTenant(flagTenant); err != nil {
		return "", err
	}
	return config.Global.TenantClientID(flagTenant)
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	clientID, err := tokenSetup()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	accessToken, err := newTokenManager(logger).GetToken(cmd.Context(), flagTenant, clientID)
	if err != nil {
		return err
	}
	fmt.Println(accessToken)
	return nil
}

func runTokenClaims(cmd *cobra.Command, args []string) error {
	clientID, err := tokenSetup()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	accessToken, err := newTokenManager(logger).GetToken(cmd.Context(), flagTenant, clientID)
	if err != nil {
		return err
	}
	claims, err := token.ParseClaims(accessToken)
	if err != nil {
		return err
	}
	return emitJSON(claims)
}

func runTokenInvalidate(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := validation.ValidateTenant(flagTenant); err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	return newTokenManager(logger).Invalidate(flagTenant)
}
