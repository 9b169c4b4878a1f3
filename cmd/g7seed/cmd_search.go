package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	flag "github.com/opencoff/pflag"

	g7 "github.com/opencoff/g7rainbow"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	var tableDir string
	var useIndex bool
	fs.StringVarP(&tableDir, "table-dir", "d", ".", "directory holding <consumption>.g7rt")
	fs.BoolVarP(&useIndex, "index", "i", false, "build a minimal-perfect-hash index instead of relying on binary search")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "search <consumption> [options]\n\nreads 8 whitespace-separated integers in [0,16] per stdin line and\nprints candidate seeds; 'q' or 'quit' exits\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return fmt.Errorf("search: expected exactly one consumption argument")
	}

	consumption, err := parseConsumption(rest[0])
	if err != nil {
		return err
	}

	path := g7.GetTablePath(tableDir, consumption)
	hdr, tables, err := g7.LoadTable(path, g7.ForSearch(consumption))
	if err != nil {
		return err
	}

	cache, err := g7.NewSessionCache(128)
	if err != nil {
		return err
	}
	cache.LoadTable(hdr)

	fmt.Fprintf(os.Stderr, "loaded %s: %d tables x %d chains, length %d\n",
		path, hdr.NumTables, hdr.ChainsPerTable, hdr.ChainLength)

	var indexes []*g7.EndHashIndex
	if useIndex {
		indexes = make([]*g7.EndHashIndex, len(tables))
		for tableID, table := range tables {
			idx, err := g7.BuildEndHashIndex(table, uint64(consumption))
			if err != nil {
				return err
			}
			indexes[tableID] = idx
		}
		fmt.Fprintf(os.Stderr, "built %d end-hash indexes\n", len(indexes))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}

		needle, err := parseNeedle(line)
		if err != nil {
			warn("%s", err)
			continue
		}

		if cached, ok := cache.Get(needle); ok {
			printSeeds(cached)
			continue
		}

		var found []uint32
		for tableID, table := range tables {
			var seeds []uint32
			if useIndex {
				seeds = g7.SearchSeedsIndexed(needle, uint64(consumption), indexes[tableID], uint32(tableID), int(hdr.ChainLength))
			} else {
				seeds = g7.SearchSeeds(needle, uint64(consumption), table, uint32(tableID), int(hdr.ChainLength))
			}
			found = append(found, seeds...)
		}

		cache.Put(needle, found)
		printSeeds(found)
	}

	return scanner.Err()
}

func parseNeedle(line string) ([g7.NeedleCount]uint64, error) {
	var v [g7.NeedleCount]uint64
	fields := strings.Fields(line)
	if len(fields) != g7.NeedleCount {
		return v, fmt.Errorf("expected %d values, got %d", g7.NeedleCount, len(fields))
	}
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return v, fmt.Errorf("invalid needle value %q: %s", f, err)
		}
		if n > 16 {
			return v, fmt.Errorf("needle value %d out of range [0,16]", n)
		}
		v[i] = n
	}
	return v, nil
}

func printSeeds(seeds []uint32) {
	if len(seeds) == 0 {
		fmt.Println("(no match)")
		return
	}
	for _, s := range seeds {
		fmt.Printf("0x%08X (%d)\n", s, s)
	}
}
