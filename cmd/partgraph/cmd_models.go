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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/render"
	"github.com/AleutianAI/partgraph/pkg/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var modelsSearch string

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and manage model records",
}

var modelsGetCmd = &cobra.Command{
	Use:   "get UUID",
	Short: "Fetch one model with its metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsGet,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models by folder and optional name search",
	Long: `List models, walking the paginated listing to the end.

Examples:
  partgraph models list --tenant acme --folder 5
  partgraph models list --tenant acme --folder 5 --folder 7 --search bracket
  partgraph models list --tenant acme --folder 5 --format csv`,
	RunE: runModelsList,
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete UUID [UUID...]",
	Short: "Delete one or more models",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runModelsDelete,
}

var modelsReprocessCmd = &cobra.Command{
	Use:   "reprocess UUID [UUID...]",
	Short: "Queue models for geometry reprocessing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runModelsReprocess,
}

func init() {
	modelsListCmd.Flags().UintSliceVar(&modelsFolderIDsRaw, "folder", nil, "folder id filter, repeatable")
	modelsListCmd.Flags().StringVar(&modelsSearch, "search", "", "model name search filter")

	modelsCmd.AddCommand(modelsGetCmd, modelsListCmd, modelsDeleteCmd, modelsReprocessCmd)
	rootCmd.AddCommand(modelsCmd)
}

// modelsFolderIDsRaw backs the --folder flag; pflag has no uint32
// slice, so values are narrowed after parsing.
var modelsFolderIDsRaw []uint

func folderIDFlags() []uint32 {
	ids := make([]uint32, 0, len(modelsFolderIDsRaw))
	for _, id := range modelsFolderIDsRaw {
		ids = append(ids, uint32(id))
	}
	return ids
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runModelsGet(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	model, err := rt.engine.GetModel(cmd.Context(), id, false)
	if err != nil {
		return err
	}
	return emitJSON(model)
}

func runModelsList(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	models, err := rt.engine.ListModels(cmd.Context(), folderIDFlags(), modelsSearch)
	if err != nil {
		return err
	}
	if format == render.FormatCSV {
		return render.WriteModelsCSV(os.Stdout, models)
	}
	return emitJSON(models)
}

func runModelsDelete(cmd *cobra.Command, args []string) error {
	ids, err := validation.ParseModelIDs(args)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	for _, id := range ids {
		if err := rt.client.DeleteModel(cmd.Context(), id); err != nil {
			return err
		}
		rt.logger.Info("model deleted", "uuid", id)
	}
	return nil
}

func runModelsReprocess(cmd *cobra.Command, args []string) error {
	ids, err := validation.ParseModelIDs(args)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	for _, id := range ids {
		if err := rt.client.ReprocessModel(cmd.Context(), id); err != nil {
			return err
		}
		rt.logger.Info("model queued for reprocessing", "uuid", id)
	}
	return nil
}
