package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harborstats/ukproj/internal/npp"
)

// terminalAges holds the open-ended source age categories that are collapsed
// into the single terminal bucket at age 90: the exact ages 90-104 plus the
// two literal range labels used by the published workbooks.
var terminalAges = func() map[string]bool {
	set := map[string]bool{
		"105 - 109":    true,
		"110 and over": true,
	}
	for age := 90; age <= 104; age++ {
		set[strconv.Itoa(age)] = true
	}
	return set
}()

// normalizeWorksheet reshapes one parsed variant worksheet into tidy form for
// a single geography. The sheet is wide: row 0 is the header
// (Sex, Age, year, year, ...), each following row holds the projected values
// for one (sex, age) pair across all years. The output is long: one
// observation per (sex, age, year), with the open-ended age categories summed
// into the terminal bucket and the geography code attached.
//
// The total projected population per (sex, year) is preserved by the
// collapse; normalize_test.go pins that invariant.
func normalizeWorksheet(rows [][]string, geogCode string) (npp.Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("worksheet has no data rows")
	}
	header := rows[0]
	if len(header) < 3 || header[0] != "Sex" || header[1] != "Age" {
		return nil, fmt.Errorf("unexpected header %v (want Sex, Age, years...)", header)
	}
	years := make([]int, len(header)-2)
	for i, label := range header[2:] {
		y, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil {
			return nil, fmt.Errorf("header column %d: bad year %q", i+2, label)
		}
		years[i] = y
	}

	type sexYear struct {
		sex  int
		year int
	}
	var out npp.Table
	terminal := map[sexYear]float64{}

	for rowIdx, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d: %d cells, want %d", rowIdx+1, len(row), len(header))
		}
		sex, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad sex %q", rowIdx+1, row[0])
		}
		// Some age labels carry whitespace padding in the source files.
		ageLabel := strings.TrimSpace(row[1])
		collapse := terminalAges[ageLabel]
		var age int
		if !collapse {
			age, err = strconv.Atoi(ageLabel)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad age %q", rowIdx+1, row[1])
			}
		}
		for i, cell := range row[2:] {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, year %d: bad value %q", rowIdx+1, years[i], cell)
			}
			if collapse {
				terminal[sexYear{sex, years[i]}] += value
				continue
			}
			out = append(out, npp.Observation{
				GeographyCode: geogCode,
				Year:          years[i],
				Gender:        sex,
				Age:           age,
				Value:         value,
			})
		}
	}

	// Append the collapsed terminal-bucket observations after the surviving
	// rows, ordered by (gender, year) for deterministic artifacts.
	keys := make([]sexYear, 0, len(terminal))
	for k := range terminal {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sex != keys[j].sex {
			return keys[i].sex < keys[j].sex
		}
		return keys[i].year < keys[j].year
	})
	for _, k := range keys {
		out = append(out, npp.Observation{
			GeographyCode: geogCode,
			Year:          k.year,
			Gender:        k.sex,
			Age:           npp.MaxAge,
			Value:         terminal[k],
		})
	}
	return out, nil
}
