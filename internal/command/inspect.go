// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/tftestgo/internal/hclinspect"
	"github.com/staranto/tftestgo/internal/meta"
)

// InspectCommandAction parses the fixture's .tf files and prints its
// declared resources, data sources, module calls, variables and outputs.
func InspectCommandAction(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = "."
	}

	mod, err := hclinspect.Inspect(dir)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, r := range mod.Resources {
		rows = append(rows, []string{"resource", r})
	}
	for _, d := range mod.DataSources {
		rows = append(rows, []string{"data", d})
	}
	for _, m := range mod.Modules {
		rows = append(rows, []string{"module", m})
	}
	for _, o := range mod.Outputs {
		rows = append(rows, []string{"output", o})
	}
	PrintTable([]string{"Kind", "Address"}, rows)

	if len(mod.Variables) > 0 && cmd.Bool("vars") {
		names := make([]string, 0, len(mod.Variables))
		for name := range mod.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		var varRows [][]string
		for _, name := range names {
			varRows = append(varRows, []string{name, mod.Variables[name]})
		}
		PrintTable([]string{"Variable", "Default"}, varRows)
	}

	fmt.Printf("%d resource(s), %d data source(s), %d module call(s), %d output(s), %d variable(s)\n",
		len(mod.Resources), len(mod.DataSources), len(mod.Modules),
		len(mod.Outputs), len(mod.Variables))
	return nil
}

// InspectCommandBuilder constructs the cli.Command for "inspect".
func InspectCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return withMeta(&cli.Command{
		Name:      "inspect",
		Usage:     "summarize the declarations of a fixture module",
		UsageText: `tftest inspect [DIR] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "vars", Usage: "also list variables and their literal defaults"},
		},
		Action: InspectCommandAction,
	}, m)
}
