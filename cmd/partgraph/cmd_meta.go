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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/pkg/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var metaClean bool

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Inspect and manage tenant-wide metadata properties",
}

var propertiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's metadata properties",
	RunE:  runPropertiesList,
}

var propertiesCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a metadata property",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertiesCreate,
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Inspect and manage per-model metadata values",
}

var metaGetCmd = &cobra.Command{
	Use:   "get UUID",
	Short: "Fetch a model's metadata values",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetaGet,
}

var metaSetCmd = &cobra.Command{
	Use:   "set UUID NAME VALUE",
	Short: "Set one metadata value on a model",
	Long: `Set one metadata value, creating the property when it does not
exist yet. An empty VALUE deletes the value instead.`,
	Args: cobra.ExactArgs(3),
	RunE: runMetaSet,
}

var metaDeleteCmd = &cobra.Command{
	Use:   "delete UUID NAME",
	Short: "Delete one metadata value from a model",
	Args:  cobra.ExactArgs(2),
	RunE:  runMetaDelete,
}

var metaApplyCmd = &cobra.Command{
	Use:   "apply UUID FILE",
	Short: "Apply a NAME,VALUE CSV table of metadata to a model",
	Long: `Apply a CSV table of metadata values to a model.

The table has two columns, property name and value, with an optional
NAME,VALUE header. Properties are created when absent; an empty value
deletes the property value. With --clean, every value currently on
the model is deleted before the table is applied.

Examples:
  partgraph meta apply --tenant acme 95ac5f0d-... metadata.csv
  partgraph meta apply --tenant acme 95ac5f0d-... metadata.csv --clean`,
	Args: cobra.ExactArgs(2),
	RunE: runMetaApply,
}

func init() {
	metaApplyCmd.Flags().BoolVar(&metaClean, "clean", false, "delete all existing values first")

	propertiesCmd.AddCommand(propertiesListCmd, propertiesCreateCmd)
	metaCmd.AddCommand(metaGetCmd, metaSetCmd, metaDeleteCmd, metaApplyCmd)
	rootCmd.AddCommand(propertiesCmd, metaCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runPropertiesList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	properties, err := rt.client.ListProperties(cmd.Context())
	if err != nil {
		return err
	}
	return emitJSON(properties)
}

func runPropertiesCreate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	property, err := rt.client.CreateProperty(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return emitJSON(property)
}

func runMetaGet(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	metadata, err := rt.client.GetModelMetadata(cmd.Context(), id)
	if err != nil {
		return err
	}
	return emitJSON(metadata)
}

func runMetaSet(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.engine.SetMetadataValue(cmd.Context(), id, args[1], args[2])
}

func runMetaDelete(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.engine.DeleteMetadataValue(cmd.Context(), id, args[1])
}

func runMetaApply(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	file, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open the metadata table: %w", err)
	}
	defer file.Close()

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	summary, err := rt.engine.ApplyMetadataCSV(cmd.Context(), id, file, metaClean)
	if err != nil {
		return err
	}
	return emitJSON(summary)
}
