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
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Inspect and manage model folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's folders",
	RunE:  runFoldersList,
}

var foldersCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoldersCreate,
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete NAME [NAME...]",
	Short: "Delete folders by name",
	Long: `Delete folders by name, matched case-insensitively.

Nothing is deleted unless every given name resolves to a folder.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFoldersDelete,
}

func init() {
	foldersCmd.AddCommand(foldersListCmd, foldersCreateCmd, foldersDeleteCmd)
	rootCmd.AddCommand(foldersCmd)
}

func runFoldersList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	folders, err := rt.client.ListFolders(cmd.Context())
	if err != nil {
		return err
	}
	return emitJSON(folders)
}

func runFoldersCreate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	folder, err := rt.client.CreateFolder(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return emitJSON(folder)
}

func runFoldersDelete(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.engine.DeleteFoldersByName(cmd.Context(), args)
}
