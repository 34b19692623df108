// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tftestgo/internal/cacheutil"
	"github.com/staranto/tftestgo/internal/config"
	"github.com/staranto/tftestgo/internal/meta"
)

// cacheBase resolves the cache directory for the cache subcommands:
// --dir flag, then config, then the environment/user default.
func cacheBase(cmd *cli.Command) (string, error) {
	if dir := cmd.String("dir"); dir != "" {
		return dir, nil
	}
	if dir, err := config.GetString("cache.dir"); err == nil && dir != "" {
		return dir, nil
	}
	if dir, ok := cacheutil.DefaultDir(); ok {
		return dir, nil
	}
	return "", fmt.Errorf("no cache directory could be resolved")
}

// CachePathCommandAction prints the resolved cache directory.
func CachePathCommandAction(ctx context.Context, cmd *cli.Command) error {
	dir, err := cacheBase(cmd)
	if err != nil {
		return err
	}
	fmt.Println(dir)
	return nil
}

// CacheInfoCommandAction lists the entries in the cache directory.
func CacheInfoCommandAction(ctx context.Context, cmd *cli.Command) error {
	dir, err := cacheBase(cmd)
	if err != nil {
		return err
	}
	entries, err := cacheutil.NewStore(dir).Entries()
	if err != nil {
		return err
	}

	var rows [][]string
	var total int64
	for _, e := range entries {
		rows = append(rows, []string{
			e.EncodedKey,
			humanize.Bytes(uint64(e.Size)), //nolint:gosec
			humanize.Time(e.ModTime),
		})
		total += e.Size
	}
	PrintTable([]string{"Entry", "Size", "Age"}, rows)
	fmt.Printf("%d entries, %s in %s\n", len(entries), humanize.Bytes(uint64(total)), dir) //nolint:gosec
	return nil
}

// CachePurgeCommandAction removes entries older than --hours.
func CachePurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	dir, err := cacheBase(cmd)
	if err != nil {
		return err
	}
	hours := int(cmd.Int("hours"))
	if hours <= 0 {
		hours, _ = config.GetInt("cache.purge_hours", 0)
	}
	return cacheutil.NewStore(dir).Purge(hours)
}

// CacheCommandBuilder constructs the cli.Command for "cache" and its
// path/info/purge subcommands.
func CacheCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	dirFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "dir", Usage: "cache directory override"}
	}
	return withMeta(&cli.Command{
		Name:  "cache",
		Usage: "manage the result cache",
		Commands: []*cli.Command{
			{
				Name:   "path",
				Usage:  "print the resolved cache directory",
				Flags:  []cli.Flag{dirFlag()},
				Action: CachePathCommandAction,
			},
			{
				Name:   "info",
				Usage:  "list cache entries and sizes",
				Flags:  []cli.Flag{dirFlag()},
				Action: CacheInfoCommandAction,
			},
			{
				Name:  "purge",
				Usage: "remove cache entries older than --hours",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.IntFlag{Name: "hours", Usage: "entry age threshold in hours"},
				},
				Action: CachePurgeCommandAction,
			},
		},
	}, m)
}
