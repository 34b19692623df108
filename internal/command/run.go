// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	tftest "github.com/staranto/tftestgo"
	"github.com/staranto/tftestgo/internal/config"
	"github.com/staranto/tftestgo/internal/meta"
)

// RunCommandAction drives an init/plan cycle (optionally apply, output and
// destroy) against the fixture directory named by the first argument.
func RunCommandAction(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		return fmt.Errorf("fixture directory required")
	}

	vars, err := ParseKVs(cmd.StringSlice("var"))
	if err != nil {
		return err
	}

	binary := cmd.String("binary")
	if binary == "" {
		binary, _ = config.GetString("binary", "terraform")
	}

	opts := []tftest.Option{tftest.WithBinary(binary)}
	if m := GetMeta(cmd); m.StartingDir != "" {
		opts = append(opts, tftest.WithBasedir(m.StartingDir))
	}
	if cmd.Bool("cache") {
		opts = append(opts, tftest.WithCache(cmd.String("cache-dir")))
	}

	var tf *tftest.TerraformTest
	if strings.HasSuffix(binary, "terragrunt") {
		if cmd.Bool("run-all") {
			opts = append(opts, tftest.WithRunAll())
		}
		tf = tftest.NewTerragruntTest(dir, opts...).TerraformTest
	} else {
		tf = tftest.NewTerraformTest(dir, opts...)
	}

	args := tftest.Args{
		Vars:     vars,
		VarFile:  cmd.String("var-file"),
		Targets:  cmd.StringSlice("target"),
		UseCache: cmd.Bool("cache"),
	}

	if _, err := tf.Setup(&tftest.SetupArgs{Args: args}); err != nil {
		return err
	}
	log.Debugf("initialized %s", tf.TFDir())

	if cmd.Bool("apply") {
		if _, err := tf.Apply(&args); err != nil {
			return err
		}
		outputs, err := tf.Output(&args)
		if err != nil {
			return err
		}
		printOutputs(outputs)
	} else {
		plan, err := tf.PlanJSON(&args)
		if err != nil {
			return err
		}
		printPlan(plan)
	}

	if cmd.Bool("destroy") {
		if _, err := tf.Destroy(&args); err != nil {
			return err
		}
	}
	if cmd.Bool("teardown") {
		return tf.Teardown()
	}
	return nil
}

func printPlan(plan *tftest.Plan) {
	changes := plan.ResourceChanges()
	addrs := make([]string, 0, len(changes))
	for addr := range changes {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	var rows [][]string
	for _, addr := range addrs {
		actions := ""
		if change, ok := changes[addr]["change"].(map[string]any); ok {
			if list, ok := change["actions"].([]any); ok {
				parts := make([]string, 0, len(list))
				for _, a := range list {
					parts = append(parts, fmt.Sprint(a))
				}
				actions = strings.Join(parts, ",")
			}
		}
		rows = append(rows, []string{addr, actions})
	}
	PrintTable([]string{"Address", "Actions"}, rows)
	fmt.Printf("%d resource change(s), %d resource(s) in root module\n",
		len(changes), len(plan.Resources()))
}

func printOutputs(outputs *tftest.Values) {
	var rows [][]string
	for _, name := range outputs.Keys() {
		rows = append(rows, []string{name, fmt.Sprint(outputs.Value(name))})
	}
	PrintTable([]string{"Output", "Value"}, rows)
}

// RunCommandBuilder constructs the cli.Command for "run", configuring its
// flags and action.
func RunCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return withMeta(&cli.Command{
		Name:      "run",
		Usage:     "init, plan and optionally apply a fixture module",
		UsageText: `tftest run DIR [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "binary", Usage: "terraform or terragrunt executable"},
			&cli.BoolFlag{Name: "run-all", Usage: "terragrunt run-all mode"},
			&cli.StringSliceFlag{Name: "var", Usage: "terraform variable as k=v, repeatable"},
			&cli.StringFlag{Name: "var-file", Usage: "terraform variable file"},
			&cli.StringSliceFlag{Name: "target", Usage: "resource address to target, repeatable"},
			&cli.BoolFlag{Name: "apply", Usage: "apply and print outputs instead of planning"},
			&cli.BoolFlag{Name: "destroy", Usage: "destroy after the run"},
			&cli.BoolFlag{Name: "teardown", Usage: "remove .terraform, local state and terragrunt caches after the run"},
			&cli.BoolFlag{Name: "cache", Usage: "serve repeat invocations from the result cache"},
			&cli.StringFlag{Name: "cache-dir", Usage: "result cache directory (default: DIR/.tftest-cache)"},
		},
		Action: RunCommandAction,
	}, m)
}
