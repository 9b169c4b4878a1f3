package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/opencoff/pflag"

	g7 "github.com/opencoff/g7rainbow"
)

func runCoverage(args []string) error {
	fs := flag.NewFlagSet("coverage", flag.ExitOnError)

	var tableDir, out string
	fs.StringVarP(&tableDir, "table-dir", "d", ".", "directory holding <consumption>.g7rt")
	fs.StringVarP(&out, "out", "o", "", "directory to write <consumption>.g7ms (defaults to --table-dir)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "coverage <consumption> [options]\n\nbuilds the reachability bitmap and writes a missing-seeds file\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return fmt.Errorf("coverage: expected exactly one consumption argument")
	}

	consumption, err := parseConsumption(rest[0])
	if err != nil {
		return err
	}
	if out == "" {
		out = tableDir
	}

	path := g7.GetTablePath(tableDir, consumption)
	hdr, tables, err := g7.LoadTable(path, g7.ForGeneration(consumption))
	if err != nil {
		return err
	}

	progress := func(cur, total uint64) {
		fmt.Fprintf(os.Stderr, "\rcoverage: %d/%d", cur, total)
		if cur >= total {
			fmt.Fprintln(os.Stderr)
		}
	}

	bm := g7.BuildSeedBitmapUnion(tables, uint64(consumption), int(hdr.ChainLength), progress)
	result := g7.ExtractMissingSeeds(bm)

	if err := g7.SaveMissingSeeds(out, consumption, result.Missing32, hdr, uint64(time.Now().Unix())); err != nil {
		return err
	}

	fmt.Printf("reachable: %d\nmissing:   %d\ncoverage:  %.6f%%\n",
		result.Reachable, result.Missing, 100*result.Coverage)
	fmt.Printf("wrote %s\n", g7.GetMissingSeedsPath(out, consumption))
	return nil
}
