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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/pkg/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	labelFolder    uint
	labelThreshold string
	labelProperty  string
	labelSearch    string
	labelExclusive bool
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Propagate classification labels between similar models",
}

var labelFolderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Classify a folder's models from their nearest neighbors",
	Long: `Assign a classification property across a folder by greedy
nearest-neighbor similarity.

Each model takes the property value of its most similar match whose
value is present and not "unclassified". Models with no matches above
the threshold have their stale value cleared. Models whose matches
carry no usable value are left untouched.

Examples:
  partgraph label folder --tenant acme --folder 5 --property Category
  partgraph label folder --tenant acme --folder 5 --property Category --threshold 0.9 --exclusive`,
	RunE: runLabelFolder,
}

func init() {
	labelFolderCmd.Flags().UintVar(&labelFolder, "folder", 0, "target folder id (required)")
	labelFolderCmd.Flags().StringVar(&labelThreshold, "threshold", "0.95", "minimum similarity as a fraction in [0, 1]")
	labelFolderCmd.Flags().StringVar(&labelProperty, "property", "", "classification property name (required)")
	labelFolderCmd.Flags().StringVar(&labelSearch, "search", "", "model name search filter")
	labelFolderCmd.Flags().BoolVar(&labelExclusive, "exclusive", false, "only take labels from models in the target folder")
	_ = labelFolderCmd.MarkFlagRequired("folder")
	_ = labelFolderCmd.MarkFlagRequired("property")

	labelCmd.AddCommand(labelFolderCmd)
	rootCmd.AddCommand(labelCmd)
}

func runLabelFolder(cmd *cobra.Command, args []string) error {
	threshold, err := validation.ParseThreshold(labelThreshold)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	summary, err := rt.engine.PropagateLabels(cmd.Context(),
		uint32(labelFolder), threshold, labelProperty, labelSearch, labelExclusive)
	if err != nil {
		return err
	}
	return emitJSON(summary)
}
