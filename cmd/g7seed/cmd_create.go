package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	flag "github.com/opencoff/pflag"

	g7 "github.com/opencoff/g7rainbow"
)

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)

	var (
		outDir   string
		noSort   bool
		tables   uint32
		chains   uint32
		length   uint32
		progress bool
	)

	fs.StringVarP(&outDir, "out-dir", "o", ".", "write the table file to `DIR`")
	fs.BoolVarP(&noSort, "no-sort", "", false, "leave the table unsorted (search will reject it)")
	fs.Uint32VarP(&tables, "tables", "t", g7.DefaultNumTables, "number of independently salted tables")
	fs.Uint32VarP(&chains, "chains", "m", g7.DefaultChainsPerTable, "chains per table")
	fs.Uint32VarP(&length, "length", "l", g7.DefaultChainLength, "chain length (must be a power of two)")
	fs.BoolVarP(&progress, "progress", "p", true, "report progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "create <consumption> [options]\n\nwrites <out-dir>/<consumption>.g7rt\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return fmt.Errorf("create: expected exactly one consumption argument")
	}

	consumption, err := parseConsumption(rest[0])
	if err != nil {
		return err
	}

	var cb g7.ProgressFunc
	if progress {
		cb = func(cur, total uint64) {
			fmt.Fprintf(os.Stderr, "\rgenerating: %d/%d", cur, total)
			if cur >= total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	genStart := time.Now()
	genTables := g7.GenerateAllTables(chains, uint64(consumption), tables, int(length), cb)

	if !noSort {
		for _, t := range genTables {
			g7.SortTableParallel(t, uint64(consumption))
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &pathError{"create", outDir, err}
	}

	if err := g7.SaveTable(outDir, consumption, length, genTables, !noSort, uint64(time.Now().Unix())); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %s in %s\n", g7.GetTablePath(outDir, consumption), time.Since(genStart).Round(time.Millisecond))
	return nil
}

type pathError struct {
	op   string
	path string
	err  error
}

func (e *pathError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.op, e.path, e.err)
}

func parseConsumption(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid consumption %q: %s", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("consumption must be non-negative, got %d", v)
	}

	known := false
	for _, c := range g7.SupportedConsumptions {
		if int32(v) == c {
			known = true
			break
		}
	}
	if !known {
		warn("consumption %d is not one of the historical gen7 values %v; proceeding anyway", v, g7.SupportedConsumptions)
	}

	return int32(v), nil
}
