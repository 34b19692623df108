// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tftestgo/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// withMeta stores m in cmd's Metadata for retrieval by actions.
func withMeta(cmd *cli.Command, m meta.Meta) *cli.Command {
	if cmd.Metadata == nil {
		cmd.Metadata = map[string]any{}
	}
	cmd.Metadata["meta"] = m
	return cmd
}

// PrintTable renders rows under headers with the borderless style used
// throughout the CLI.
func PrintTable(headers []string, rows [][]string) {
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		BorderHeader(false).
		Rows(rows...)
	fmt.Println(t)
}

// ParseKVs splits repeated k=v flag values into a map. Malformed entries
// are reported, not silently dropped.
func ParseKVs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	kvs := map[string]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair: %s", p)
		}
		kvs[k] = v
	}
	return kvs, nil
}
