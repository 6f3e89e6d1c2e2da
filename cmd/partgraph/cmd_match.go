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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/render"
	"github.com/AleutianAI/partgraph/pkg/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	matchThreshold string
	matchFolders   []uint
	matchExclusive bool
	matchOutput    string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find geometrically similar models and build duplicate reports",
}

var matchModelCmd = &cobra.Command{
	Use:   "model UUID",
	Short: "Report duplicates of a single model",
	Long: `Aggregate every match of one model above the threshold, filtered
for self-matches and name duplicates.

Examples:
  partgraph match model --tenant acme 95ac5f0d-... --threshold 0.95
  partgraph match model --tenant acme 95ac5f0d-... --threshold 0.95 --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchModel,
}

var matchFolderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Build a duplicate report over whole folders",
	Long: `Build a duplicate report over every model in the given folders.

With --exclusive, matches outside the folder set are dropped from the
report.

Examples:
  partgraph match folder --tenant acme --folder 5 --threshold 0.95
  partgraph match folder --tenant acme --folder 5 --folder 7 --threshold 0.9 --exclusive`,
	RunE: runMatchFolder,
}

var matchReportCmd = &cobra.Command{
	Use:   "report UUID [UUID...]",
	Short: "Write the duplicate table, assembly graph, and dictionary artifacts",
	Long: `Resolve the given assemblies, flatten them into one bill of
materials, and write three artifacts for the combined match report:

  <output>.csv   duplicates table
  <output>.dot   assembly graph in Graphviz DOT format
  <output>.json  uuid-to-node dictionary

Examples:
  partgraph match report --tenant acme 95ac5f0d-... --threshold 0.95 --output report`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatchReport,
}

func init() {
	for _, cmd := range []*cobra.Command{matchModelCmd, matchFolderCmd, matchReportCmd} {
		cmd.Flags().StringVar(&matchThreshold, "threshold", "0.95", "minimum similarity as a fraction in [0, 1]")
	}
	matchFolderCmd.Flags().UintSliceVar(&matchFolders, "folder", nil, "folder id, repeatable")
	matchFolderCmd.Flags().BoolVar(&matchExclusive, "exclusive", false, "drop matches outside the folder set")
	matchReportCmd.Flags().UintSliceVar(&matchFolders, "folder", nil, "folder id filter for the report, repeatable")
	matchReportCmd.Flags().BoolVar(&matchExclusive, "exclusive", false, "drop matches outside the folder set")
	matchReportCmd.Flags().StringVar(&matchOutput, "output", "", "artifact path prefix (required)")
	_ = matchReportCmd.MarkFlagRequired("output")
	_ = matchFolderCmd.MarkFlagRequired("folder")

	matchCmd.AddCommand(matchModelCmd, matchFolderCmd, matchReportCmd)
	rootCmd.AddCommand(matchCmd)
}

func matchFolderIDs() []uint32 {
	ids := make([]uint32, 0, len(matchFolders))
	for _, id := range matchFolders {
		ids = append(ids, uint32(id))
	}
	return ids
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runMatchModel(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
	if err != nil {
		return err
	}
	threshold, err := validation.ParseThreshold(matchThreshold)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	report, err := rt.engine.BuildSimpleReport(cmd.Context(), []uuid.UUID{id}, threshold, nil, false)
	if err != nil {
		return err
	}
	return writeReport(report, format)
}

func runMatchFolder(cmd *cobra.Command, args []string) error {
	threshold, err := validation.ParseThreshold(matchThreshold)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	folders := matchFolderIDs()
	models, err := rt.engine.ListModels(cmd.Context(), folders, "")
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}

	report, err := rt.engine.BuildSimpleReport(cmd.Context(), ids, threshold, folders, matchExclusive)
	if err != nil {
		return err
	}
	return writeReport(report, format)
}

func runMatchReport(cmd *cobra.Command, args []string) error {
	ids, err := validation.ParseModelIDs(args)
	if err != nil {
		return err
	}
	threshold, err := validation.ParseThreshold(matchThreshold)
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	var trees []*engine.AssemblyTreeNode
	bom := make(engine.FlatBom)
	for _, id := range ids {
		tree, err := rt.engine.AssemblyTree(cmd.Context(), id)
		if err != nil {
			return err
		}
		trees = append(trees, tree)
		bom.Extend(engine.Flatten(tree))
	}

	report, err := rt.engine.BuildSimpleReport(cmd.Context(), bom.UUIDs(), threshold, matchFolderIDs(), matchExclusive)
	if err != nil {
		return err
	}
	assemblyGraph := engine.BuildGraph(trees)

	if err := writeArtifact(matchOutput+".csv", func(f *os.File) error {
		return render.WriteDuplicatesCSV(f, report)
	}); err != nil {
		return err
	}
	if err := writeArtifact(matchOutput+".dot", func(f *os.File) error {
		return assemblyGraph.Graph.WriteDOT(f, "assemblies")
	}); err != nil {
		return err
	}
	if err := writeArtifact(matchOutput+".json", func(f *os.File) error {
		return render.WriteJSON(f, assemblyGraph.DictionaryItems(), !flagPretty)
	}); err != nil {
		return err
	}

	rt.logger.Info("match report written",
		"csv", matchOutput+".csv", "dot", matchOutput+".dot", "dictionary", matchOutput+".json")
	return nil
}

// writeReport emits a duplicate report on stdout as JSON or CSV.
func writeReport(report *engine.SimpleDuplicatesMatchReport, format render.Format) error {
	if format == render.FormatCSV {
		return render.WriteDuplicatesCSV(os.Stdout, report)
	}
	return emitJSON(report)
}

// writeArtifact creates one output file and hands it to the writer.
func writeArtifact(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return file.Close()
}
