// Package query serves typed slices of the loaded projection tables:
// filtering, grouped aggregation, and year/variant ratios.
package query

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/harborstats/ukproj/internal/npp"
	"github.com/harborstats/ukproj/internal/pipeline"
)

// Options narrow a query. Nil slices select the defaults: every age 0-90,
// both genders, and the year range [MinYear, MaxYear). The upper-exclusive
// year default is long-standing documented behavior (the final projection
// year must be requested explicitly).
type Options struct {
	Years   []int
	Ages    []int
	Genders []int
}

// GroupedRow is one row of an Aggregate result. Key fields the caller did
// not group by are left at their zero value; Grouped lists the fields that
// are populated, in the caller's order.
type GroupedRow struct {
	Grouped       []string
	GeographyCode string
	Year          int
	Gender        int
	Age           int
	Value         float64
}

// Engine answers queries against the variant store. Warnings (such as a
// corrected aggregation request) go to warn.
type Engine struct {
	store *pipeline.Store
	warn  io.Writer
}

// New returns an engine over the given store.
func New(store *pipeline.Store, warn io.Writer) *Engine {
	if warn == nil {
		warn = io.Discard
	}
	return &Engine{store: store, warn: warn}
}

// MinYear is the first projection year available.
func (e *Engine) MinYear() int { return e.store.MinYear() }

// MaxYear is the final projection year available.
func (e *Engine) MaxYear() int { return e.store.MaxYear() }

// Detail returns every observation of the variant matching the geographies
// and options. An unknown variant code fails before any I/O; a variant not
// yet in memory is loaded through the acquisition pipeline.
func (e *Engine) Detail(ctx context.Context, variant string, geogs []string, opts Options) (npp.Table, error) {
	if !npp.ValidVariant(variant) {
		return nil, &npp.InvalidVariantError{Code: variant}
	}
	geogCodes, err := npp.ResolveGeographies(geogs)
	if err != nil {
		return nil, err
	}
	table, err := e.store.Variant(ctx, variant)
	if err != nil {
		return nil, err
	}

	years := opts.Years
	if years == nil {
		for y := e.MinYear(); y < e.MaxYear(); y++ {
			years = append(years, y)
		}
	}
	ages := opts.Ages
	if ages == nil {
		for a := 0; a <= npp.MaxAge; a++ {
			ages = append(ages, a)
		}
	}
	genders := opts.Genders
	if genders == nil {
		genders = []int{npp.Male, npp.Female}
	}

	geogSet := stringSet(geogCodes)
	yearSet := intSet(years)
	ageSet := intSet(ages)
	genderSet := intSet(genders)

	var out npp.Table
	for _, o := range table {
		if geogSet[o.GeographyCode] && yearSet[o.Year] && ageSet[o.Age] && genderSet[o.Gender] {
			out = append(out, o)
		}
	}
	return out, nil
}

// Aggregate sums observation values grouped by the requested fields. Summing
// across projection years is not meaningful for this dataset, so the year
// field is force-added (with a warning) when omitted.
func (e *Engine) Aggregate(ctx context.Context, fields []string, variant string, geogs []string, opts Options) ([]GroupedRow, error) {
	for _, f := range fields {
		switch f {
		case npp.FieldGeography, npp.FieldYear, npp.FieldGender, npp.FieldAge:
		default:
			return nil, fmt.Errorf("unknown aggregation field %q", f)
		}
	}
	hasYear := false
	for _, f := range fields {
		if f == npp.FieldYear {
			hasYear = true
		}
	}
	if !hasYear {
		fmt.Fprintf(e.warn, "⚠ Warning: not aggregating over %s as it makes no sense; adding it to the grouping\n", npp.FieldYear)
		fields = append(append([]string{}, fields...), npp.FieldYear)
	}

	data, err := e.Detail(ctx, variant, geogs, opts)
	if err != nil {
		return nil, err
	}

	fieldSet := stringSet(fields)
	type key struct {
		geog   string
		year   int
		gender int
		age    int
	}
	sums := map[key]float64{}
	for _, o := range data {
		k := key{}
		if fieldSet[npp.FieldGeography] {
			k.geog = o.GeographyCode
		}
		if fieldSet[npp.FieldYear] {
			k.year = o.Year
		}
		if fieldSet[npp.FieldGender] {
			k.gender = o.Gender
		}
		if fieldSet[npp.FieldAge] {
			k.age = o.Age
		}
		sums[k] += o.Value
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.geog != b.geog {
			return a.geog < b.geog
		}
		if a.year != b.year {
			return a.year < b.year
		}
		if a.gender != b.gender {
			return a.gender < b.gender
		}
		return a.age < b.age
	})
	rows := make([]GroupedRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, GroupedRow{
			Grouped:       fields,
			GeographyCode: k.geog,
			Year:          k.year,
			Gender:        k.gender,
			Age:           k.age,
			Value:         sums[k],
		})
	}
	return rows, nil
}

// YearRatio divides each observation of year by its (geography, age, gender)
// counterpart in refYear within the same variant. Rows are matched by key,
// never by position; a missing counterpart is an error.
func (e *Engine) YearRatio(ctx context.Context, variant string, geogs []string, refYear, year int, opts Options) (npp.Table, error) {
	refOpts := opts
	refOpts.Years = []int{refYear}
	ref, err := e.Detail(ctx, variant, geogs, refOpts)
	if err != nil {
		return nil, err
	}
	numOpts := opts
	numOpts.Years = []int{year}
	num, err := e.Detail(ctx, variant, geogs, numOpts)
	if err != nil {
		return nil, err
	}

	type key struct {
		geog   string
		gender int
		age    int
	}
	denom := make(map[key]float64, len(ref))
	for _, o := range ref {
		denom[key{o.GeographyCode, o.Gender, o.Age}] = o.Value
	}
	out := make(npp.Table, 0, len(num))
	for _, o := range num {
		d, ok := denom[key{o.GeographyCode, o.Gender, o.Age}]
		if !ok {
			return nil, fmt.Errorf("year ratio: no %d observation for %s gender=%d age=%d", refYear, o.GeographyCode, o.Gender, o.Age)
		}
		o.Value /= d
		out = append(out, o)
	}
	return out, nil
}

// VariantRatio divides each observation of the variant by its
// (geography, year, age, gender) counterpart in the principal projection.
func (e *Engine) VariantRatio(ctx context.Context, variant string, geogs []string, opts Options) (npp.Table, error) {
	ref, err := e.Detail(ctx, npp.Principal, geogs, opts)
	if err != nil {
		return nil, err
	}
	num, err := e.Detail(ctx, variant, geogs, opts)
	if err != nil {
		return nil, err
	}

	type key struct {
		geog   string
		year   int
		gender int
		age    int
	}
	denom := make(map[key]float64, len(ref))
	for _, o := range ref {
		denom[key{o.GeographyCode, o.Year, o.Gender, o.Age}] = o.Value
	}
	out := make(npp.Table, 0, len(num))
	for _, o := range num {
		d, ok := denom[key{o.GeographyCode, o.Year, o.Gender, o.Age}]
		if !ok {
			return nil, fmt.Errorf("variant ratio: no principal observation for %s year=%d gender=%d age=%d", o.GeographyCode, o.Year, o.Gender, o.Age)
		}
		o.Value /= d
		out = append(out, o)
	}
	return out, nil
}

func stringSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

func intSet(vals []int) map[int]bool {
	set := make(map[int]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
