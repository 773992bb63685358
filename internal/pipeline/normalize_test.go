package pipeline

import (
	"math"
	"testing"

	"github.com/harborstats/ukproj/internal/npp"
)

// sheet rows for one country: two ordinary ages plus every terminal
// category, some with the whitespace padding seen in the source files.
func fixtureRows() [][]string {
	rows := [][]string{{"Sex", "Age", "2016", "2017"}}
	for _, sex := range []string{"1", "2"} {
		rows = append(rows,
			[]string{sex, "0", "100", "101"},
			[]string{sex, "1", "90", "91"},
			[]string{sex, " 90 ", "10", "11"},
			[]string{sex, "95", "5", "6"},
			[]string{sex, "104", "2", "3"},
			[]string{sex, "105 - 109", "1", "1.5"},
			[]string{sex, " 110 and over", "0.5", "0.25"},
		)
	}
	return rows
}

func sumBySexYear(t npp.Table) map[[2]int]float64 {
	sums := map[[2]int]float64{}
	for _, o := range t {
		sums[[2]int{o.Gender, o.Year}] += o.Value
	}
	return sums
}

func TestNormalizeWorksheetConservation(t *testing.T) {
	rows := fixtureRows()
	table, err := normalizeWorksheet(rows, "E92000001")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	// Total population per (sex, year) must survive the terminal collapse.
	want := map[[2]int]float64{
		{1, 2016}: 100 + 90 + 10 + 5 + 2 + 1 + 0.5,
		{1, 2017}: 101 + 91 + 11 + 6 + 3 + 1.5 + 0.25,
		{2, 2016}: 100 + 90 + 10 + 5 + 2 + 1 + 0.5,
		{2, 2017}: 101 + 91 + 11 + 6 + 3 + 1.5 + 0.25,
	}
	got := sumBySexYear(table)
	for k, w := range want {
		if math.Abs(got[k]-w) > 1e-9 {
			t.Errorf("sex=%d year=%d: total %v, want %v", k[0], k[1], got[k], w)
		}
	}
}

func TestNormalizeWorksheetTerminalBucket(t *testing.T) {
	table, err := normalizeWorksheet(fixtureRows(), "E92000001")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	for _, o := range table {
		if o.Age > npp.MaxAge {
			t.Fatalf("observation above terminal age: %+v", o)
		}
		if o.GeographyCode != "E92000001" {
			t.Fatalf("geography code not attached: %+v", o)
		}
	}
	// 90 + 95 + 104 + "105 - 109" + "110 and over" for sex 1, year 2016.
	var terminal float64
	var count int
	for _, o := range table {
		if o.Gender == 1 && o.Year == 2016 && o.Age == npp.MaxAge {
			terminal += o.Value
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one terminal observation, got %d", count)
	}
	if want := 10 + 5 + 2 + 1 + 0.5; math.Abs(terminal-want) > 1e-9 {
		t.Fatalf("terminal bucket %v, want %v", terminal, want)
	}
}

func TestNormalizeWorksheetAgeCompleteness(t *testing.T) {
	table, err := normalizeWorksheet(fixtureRows(), "W92000004")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	type key struct {
		sex, year, age int
	}
	seen := map[key]int{}
	for _, o := range table {
		seen[key{o.Gender, o.Year, o.Age}]++
	}
	for _, sex := range []int{1, 2} {
		for _, year := range []int{2016, 2017} {
			for _, age := range []int{0, 1, npp.MaxAge} {
				if n := seen[key{sex, year, age}]; n != 1 {
					t.Errorf("sex=%d year=%d age=%d: %d observations, want 1", sex, year, age, n)
				}
			}
		}
	}
	if want := 2 * 2 * 3; len(table) != want {
		t.Fatalf("expected %d observations, got %d", want, len(table))
	}
}

func TestNormalizeWorksheetErrors(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
	}{
		{"empty", nil},
		{"header only", [][]string{{"Sex", "Age", "2016"}}},
		{"bad header", [][]string{{"Gender", "Age", "2016"}, {"1", "0", "1"}}},
		{"bad year", [][]string{{"Sex", "Age", "soon"}, {"1", "0", "1"}}},
		{"short row", [][]string{{"Sex", "Age", "2016"}, {"1", "0"}}},
		{"bad value", [][]string{{"Sex", "Age", "2016"}, {"1", "0", "many"}}},
		{"bad age", [][]string{{"Sex", "Age", "2016"}, {"1", "unknown", "1"}}},
	}
	for _, c := range cases {
		if _, err := normalizeWorksheet(c.rows, "E92000001"); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}
