// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	gojsondiff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/tftestgo/internal/meta"
)

// DiffCommandAction compares two plan/state/output JSON documents and
// prints their differences.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("two JSON files required")
	}
	leftPath, rightPath := cmd.Args().Get(0), cmd.Args().Get(1)

	leftBytes, err := os.ReadFile(leftPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", leftPath, err)
	}
	rightBytes, err := os.ReadFile(rightPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rightPath, err)
	}

	d, err := gojsondiff.New().Compare(leftBytes, rightBytes)
	if err != nil {
		return fmt.Errorf("failed to compare documents: %w", err)
	}
	if !d.Modified() {
		fmt.Println("no differences")
		return nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(leftBytes, &left); err != nil {
		return fmt.Errorf("failed to decode %s: %w", leftPath, err)
	}
	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       cmd.Bool("color"),
	})
	out, err := f.Format(d)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}
	fmt.Print(out)
	return nil
}

// DiffCommandBuilder constructs the cli.Command for "diff".
func DiffCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return withMeta(&cli.Command{
		Name:      "diff",
		Usage:     "diff two plan, state or output JSON documents",
		UsageText: `tftest diff LEFT.json RIGHT.json [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "color", Usage: "colorize the diff"},
		},
		Action: DiffCommandAction,
	}, m)
}
