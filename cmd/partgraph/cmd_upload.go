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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/pkg/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	uploadFolder   uint
	uploadUnits    string
	uploadValidate bool
	uploadTimeout  time.Duration
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a model file to a folder",
	Long: `Upload a model file for geometry processing.

With --validate, the command polls the uploaded model every two
seconds until its state is terminal (finished, failed, or
missing-parts). --timeout bounds the wait; on expiry the command
exits with a distinct timeout code and the last observed state.

Examples:
  partgraph upload --tenant acme --folder 5 --units mm bracket.stl
  partgraph upload --tenant acme --folder 5 --units in housing.stp --validate --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().UintVar(&uploadFolder, "folder", 0, "destination folder id (required)")
	uploadCmd.Flags().StringVar(&uploadUnits, "units", "mm", "measurement units: mm, cm, m, in, or ft")
	uploadCmd.Flags().BoolVar(&uploadValidate, "validate", false, "wait for processing to reach a terminal state")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 0, "overall bound for --validate, 0 means none")
	_ = uploadCmd.MarkFlagRequired("folder")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := validation.ValidateUnits(uploadUnits); err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	model, err := rt.engine.Upload(cmd.Context(),
		uint32(uploadFolder), uploadUnits, args[0], uploadValidate, uploadTimeout)
	if err != nil {
		if model != nil {
			// Timeout path: show the state the model got stuck in.
			_ = emitJSON(model)
		}
		return err
	}
	return emitJSON(model)
}
