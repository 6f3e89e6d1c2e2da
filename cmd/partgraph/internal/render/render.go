// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render turns engine results into user-facing output: JSON
// documents, CSV tables, and styled assembly tree drawings.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Format selects the output representation of a command.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTree Format = "tree"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatTree:
		return FormatTree, nil
	default:
		return "", fmt.Errorf("unknown output format %q: expected json, csv, or tree", raw)
	}
}

// Terminal color palette, a subset of the Aleutian teals.
var (
	colorTealBright = lipgloss.Color("#2CD7C7")
	colorTealDeep   = lipgloss.Color("#16858E")
	colorSlate      = lipgloss.Color("#2C4A54")
	colorWarning    = lipgloss.Color("#F4D03F")
)

// treeStyles groups the styles used by the tree drawing.
type treeStyles struct {
	assembly lipgloss.Style
	part     lipgloss.Style
	branch   lipgloss.Style
	state    lipgloss.Style
}

func coloredTreeStyles() treeStyles {
	return treeStyles{
		assembly: lipgloss.NewStyle().Bold(true).Foreground(colorTealBright),
		part:     lipgloss.NewStyle().Foreground(colorTealDeep),
		branch:   lipgloss.NewStyle().Foreground(colorSlate),
		state:    lipgloss.NewStyle().Foreground(colorWarning),
	}
}

func plainTreeStyles() treeStyles {
	plain := lipgloss.NewStyle()
	return treeStyles{assembly: plain, part: plain, branch: plain, state: plain}
}

// DetectColor reports whether styled output is appropriate for the
// given file: a real terminal, with NO_COLOR unset.
func DetectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
