package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/harborstats/ukproj/internal/npp"
	"github.com/harborstats/ukproj/internal/query"
)

// parseGeogs accepts a group alias (ew, gb, uk) or a comma-separated list of
// country identifiers.
func parseGeogs(val string) ([]string, error) {
	switch strings.ToLower(val) {
	case "":
		return nil, fmt.Errorf("--geog is required (ew, gb, uk or a list like en,sc)")
	case "ew":
		return npp.EW, nil
	case "gb":
		return npp.GB, nil
	case "uk":
		return npp.UK, nil
	}
	geogs := strings.Split(strings.ToLower(val), ",")
	for _, g := range geogs {
		if _, ok := npp.GeographyCodes[g]; !ok {
			return nil, fmt.Errorf("unknown geography %q (want en, wa, sc, ni or a group alias)", g)
		}
	}
	return geogs, nil
}

// parseIntSelection accepts either a comma-separated list ("2020,2030") or a
// half-open range ("2016:2051", upper bound excluded). Empty means the
// query's default selection.
func parseIntSelection(val string) ([]int, error) {
	if val == "" {
		return nil, nil
	}
	if strings.Contains(val, ":") {
		parts := strings.SplitN(val, ":", 2)
		lo, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad range start %q", parts[0])
		}
		hi, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad range end %q", parts[1])
		}
		if hi <= lo {
			return nil, fmt.Errorf("empty range %s", val)
		}
		out := make([]int, 0, hi-lo)
		for v := lo; v < hi; v++ {
			out = append(out, v)
		}
		return out, nil
	}
	var out []int
	for _, s := range strings.Split(val, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("bad value %q", s)
		}
		out = append(out, v)
	}
	return out, nil
}

// queryOptions assembles engine options from the shared selection flags.
func queryOptions(years, ages, genders string) (query.Options, error) {
	var opts query.Options
	var err error
	if opts.Years, err = parseIntSelection(years); err != nil {
		return opts, fmt.Errorf("--years: %w", err)
	}
	if opts.Ages, err = parseIntSelection(ages); err != nil {
		return opts, fmt.Errorf("--ages: %w", err)
	}
	if opts.Genders, err = parseIntSelection(genders); err != nil {
		return opts, fmt.Errorf("--genders: %w", err)
	}
	return opts, nil
}

// printer renders population counts with thousands separators.
var printer = message.NewPrinter(language.BritishEnglish)

// printTable writes a detail/ratio result as an aligned text table.
func printTable(table npp.Table) {
	fmt.Printf("%-14s %6s %7s %5s %16s\n", npp.FieldGeography, "YEAR", "GENDER", "AGE", "VALUE")
	for _, o := range table {
		fmt.Printf("%-14s %6d %7d %5d %16s\n",
			o.GeographyCode, o.Year, o.Gender, o.Age, printer.Sprintf("%.3f", o.Value))
	}
	fmt.Fprintf(os.Stderr, "%d rows\n", len(table))
}

// printGrouped writes an aggregation result, showing only grouped fields.
func printGrouped(rows []query.GroupedRow) {
	if len(rows) == 0 {
		fmt.Println("no matching observations")
		return
	}
	grouped := map[string]bool{}
	for _, f := range rows[0].Grouped {
		grouped[f] = true
	}
	header := ""
	if grouped[npp.FieldGeography] {
		header += fmt.Sprintf("%-14s ", npp.FieldGeography)
	}
	if grouped[npp.FieldYear] {
		header += fmt.Sprintf("%6s ", "YEAR")
	}
	if grouped[npp.FieldGender] {
		header += fmt.Sprintf("%7s ", "GENDER")
	}
	if grouped[npp.FieldAge] {
		header += fmt.Sprintf("%5s ", "AGE")
	}
	fmt.Printf("%s%16s\n", header, "VALUE")
	for _, r := range rows {
		line := ""
		if grouped[npp.FieldGeography] {
			line += fmt.Sprintf("%-14s ", r.GeographyCode)
		}
		if grouped[npp.FieldYear] {
			line += fmt.Sprintf("%6d ", r.Year)
		}
		if grouped[npp.FieldGender] {
			line += fmt.Sprintf("%7d ", r.Gender)
		}
		if grouped[npp.FieldAge] {
			line += fmt.Sprintf("%5d ", r.Age)
		}
		fmt.Printf("%s%16s\n", line, printer.Sprintf("%.3f", r.Value))
	}
}
