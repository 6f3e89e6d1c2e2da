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

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/engine"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/render"
	"github.com/AleutianAI/partgraph/pkg/validation"
)

var assemblyCmd = &cobra.Command{
	Use:   "assembly",
	Short: "Resolve assembly hierarchies and bills of materials",
}

var assemblyTreeCmd = &cobra.Command{
	Use:   "tree UUID",
	Short: "Resolve the full assembly tree of a model",
	Long: `Resolve an assembly hierarchy with full model data at every node.

Examples:
  partgraph assembly tree --tenant acme 95ac5f0d-...
  partgraph assembly tree --tenant acme 95ac5f0d-... --format tree`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemblyTree,
}

var assemblyBomCmd = &cobra.Command{
	Use:   "bom UUID [UUID...]",
	Short: "Flatten assemblies into one deduplicated bill of materials",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAssemblyBom,
}

func init() {
	assemblyCmd.AddCommand(assemblyTreeCmd, assemblyBomCmd)
	rootCmd.AddCommand(assemblyCmd)
}

func runAssemblyTree(cmd *cobra.Command, args []string) error {
	id, err := validation.ParseModelID(args[0])
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

	tree, err := rt.engine.AssemblyTree(cmd.Context(), id)
	if err != nil {
		return err
	}
	if format == render.FormatTree {
		return render.WriteTree(os.Stdout, tree, colorEnabled())
	}
	return emitJSON(tree)
}

func runAssemblyBom(cmd *cobra.Command, args []string) error {
	ids, err := validation.ParseModelIDs(args)
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

	bom := make(engine.FlatBom)
	for _, id := range ids {
		tree, err := rt.engine.AssemblyTree(cmd.Context(), id)
		if err != nil {
			return err
		}
		bom.Extend(engine.Flatten(tree))
	}
	if format == render.FormatCSV {
		return render.WriteModelsCSV(os.Stdout, bom.Models())
	}
	return emitJSON(bom.Models())
}
