package npp

import "sort"

// Gender codes as used by the source datasets.
const (
	Male   = 1
	Female = 2
)

// MaxAge is the terminal age bucket: observations at age 90 represent
// "90 and over". No observation carries an age above it.
const MaxAge = 90

// Observation is one projected population count for a single
// (geography, year, gender, age) cell.
type Observation struct {
	GeographyCode string
	Year          int
	Gender        int
	Age           int
	Value         float64
}

// Table is an ordered collection of observations for one variant. Tables are
// immutable once loaded; query operations return fresh slices.
type Table []Observation

// Years returns the distinct projection years present, ascending.
func (t Table) Years() []int {
	seen := map[int]bool{}
	for _, o := range t {
		seen[o.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// TotalValue sums the observation values across the whole table.
func (t Table) TotalValue() float64 {
	var sum float64
	for _, o := range t {
		sum += o.Value
	}
	return sum
}
