package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/opencoff/pflag"

	g7 "github.com/opencoff/g7rainbow"
)

func runSort(args []string) error {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)

	var (
		tableDir string
		dedup    bool
	)

	fs.StringVarP(&tableDir, "table-dir", "d", ".", "directory holding <consumption>.g7rt")
	fs.BoolVarP(&dedup, "dedup", "", false, "drop all but the first entry in each run of equal keys")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "sort <consumption> [options]\n\nsorts an existing table in place\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return fmt.Errorf("sort: expected exactly one consumption argument")
	}

	consumption, err := parseConsumption(rest[0])
	if err != nil {
		return err
	}

	path := g7.GetTablePath(tableDir, consumption)
	hdr, tables, err := g7.LoadTable(path, g7.ForGeneration(consumption))
	if err != nil {
		return err
	}

	for i, t := range tables {
		g7.SortTableParallel(t, uint64(consumption))
		if dedup {
			tables[i] = g7.DeduplicateTable(t, uint64(consumption))
		}
	}

	if dedup {
		n := len(tables[0])
		for _, t := range tables[1:] {
			if len(t) != n {
				return fmt.Errorf("sort: --dedup left tables with differing chain counts (%d vs %d); the on-disk format requires a uniform chains-per-table", n, len(t))
			}
		}
	}

	if err := g7.SaveTable(tableDir, consumption, hdr.ChainLength, tables, true, uint64(time.Now().Unix())); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "sorted %s\n", path)
	return nil
}
