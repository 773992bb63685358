package query_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/harborstats/ukproj/internal/cache"
	"github.com/harborstats/ukproj/internal/fetch"
	"github.com/harborstats/ukproj/internal/npp"
	"github.com/harborstats/ukproj/internal/pipeline"
	"github.com/harborstats/ukproj/internal/query"
)

// value makes every (geography, year, gender, age) cell distinct.
func value(geog string, year, gender, age int) float64 {
	return float64(year-2000)*100000 + float64(age)*100 + float64(gender)*10 + float64(len(geog)%7)
}

func fixtureTable(scale float64) npp.Table {
	var t npp.Table
	for _, geog := range npp.UK {
		code := npp.GeographyCodes[geog]
		for year := 2016; year <= 2021; year++ {
			for _, gender := range []int{npp.Male, npp.Female} {
				for age := 0; age <= npp.MaxAge; age++ {
					t = append(t, npp.Observation{
						GeographyCode: code,
						Year:          year,
						Gender:        gender,
						Age:           age,
						Value:         scale * value(code, year, gender, age),
					})
				}
			}
		}
	}
	return t
}

type stubAPI struct{ table npp.Table }

func (s stubAPI) PrincipalProjection(ctx context.Context) (npp.Table, error) {
	return s.table, nil
}

// newEngine serves ppp from the stub loader and hhh (doubled values) from a
// pre-seeded processed artifact, so no test touches the network.
func newEngine(t *testing.T) (*query.Engine, *bytes.Buffer) {
	t.Helper()
	cs, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	hhh, err := fixtureTable(2).EncodeCSV()
	if err != nil {
		t.Fatalf("encode hhh: %v", err)
	}
	if err := cs.Write(cs.TablePath("hhh"), hhh); err != nil {
		t.Fatalf("seed hhh artifact: %v", err)
	}
	store, err := pipeline.NewStore(context.Background(), cs, fetch.New(0), stubAPI{fixtureTable(1)}, pipeline.Options{})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	warn := &bytes.Buffer{}
	return query.New(store, warn), warn
}

func TestYearRange(t *testing.T) {
	e, _ := newEngine(t)
	if e.MinYear() != 2016 || e.MaxYear() != 2021 {
		t.Fatalf("year range %d-%d, want 2016-2021", e.MinYear(), e.MaxYear())
	}
}

func TestDetailSingleCell(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.Detail(context.Background(), "ppp", []string{"en"}, query.Options{
		Years:   []int{2020},
		Ages:    []int{30},
		Genders: []int{npp.Male},
	})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("expected exactly one observation, got %d", len(table))
	}
	o := table[0]
	if o.GeographyCode != "E92000001" || o.Year != 2020 || o.Age != 30 || o.Gender != npp.Male {
		t.Fatalf("unexpected observation: %+v", o)
	}
	if want := value("E92000001", 2020, npp.Male, 30); o.Value != want {
		t.Fatalf("value %v, want %v", o.Value, want)
	}
}

func TestDetailDefaultYearsExcludeFinal(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.Detail(context.Background(), "ppp", []string{"en"}, query.Options{})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	years := map[int]bool{}
	for _, o := range table {
		years[o.Year] = true
	}
	// The default year selection is [MinYear, MaxYear): the final projected
	// year must be asked for explicitly.
	if years[2021] {
		t.Fatal("default selection must exclude the final year")
	}
	for y := 2016; y <= 2020; y++ {
		if !years[y] {
			t.Fatalf("default selection missing year %d", y)
		}
	}
}

func TestDetailUnknownVariant(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Detail(context.Background(), "zzz", npp.EW, query.Options{})
	var verr *npp.InvalidVariantError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InvalidVariantError, got %v", err)
	}
}

func TestDetailLazyVariantLoad(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.Detail(context.Background(), "hhh", []string{"wa"}, query.Options{
		Years: []int{2020}, Ages: []int{5}, Genders: []int{npp.Female},
	})
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("expected one observation, got %d", len(table))
	}
	if want := 2 * value("W92000004", 2020, npp.Female, 5); table[0].Value != want {
		t.Fatalf("value %v, want %v", table[0].Value, want)
	}
}

func TestAggregateByGeography(t *testing.T) {
	e, warn := newEngine(t)
	rows, err := e.Aggregate(context.Background(), []string{npp.FieldGeography}, "ppp", npp.EW, query.Options{
		Years: []int{2020},
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !strings.Contains(warn.String(), "Warning") {
		t.Fatal("expected a warning about forced year grouping")
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (England, Wales), got %d", len(rows))
	}
	for _, r := range rows {
		var want float64
		for _, gender := range []int{npp.Male, npp.Female} {
			for age := 0; age <= npp.MaxAge; age++ {
				want += value(r.GeographyCode, 2020, gender, age)
			}
		}
		if math.Abs(r.Value-want) > 1e-6 {
			t.Errorf("%s: sum %v, want %v", r.GeographyCode, r.Value, want)
		}
		if r.Year != 2020 {
			t.Errorf("%s: year %d, want 2020", r.GeographyCode, r.Year)
		}
	}
}

func TestAggregateKeepsExplicitYearGrouping(t *testing.T) {
	e, warn := newEngine(t)
	rows, err := e.Aggregate(context.Background(), []string{npp.FieldGender, npp.FieldYear}, "ppp", []string{"en"}, query.Options{
		Years: []int{2016, 2017},
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if warn.Len() != 0 {
		t.Fatalf("unexpected warning: %s", warn.String())
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows (2 genders x 2 years), got %d", len(rows))
	}
}

func TestAggregateUnknownField(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.Aggregate(context.Background(), []string{"OBS_VALUE"}, "ppp", npp.EW, query.Options{}); err == nil {
		t.Fatal("expected error for non-grouping field")
	}
}

func TestVariantRatioIdentity(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.VariantRatio(context.Background(), "ppp", npp.EW, query.Options{
		Years: []int{2016, 2020},
	})
	if err != nil {
		t.Fatalf("variant ratio: %v", err)
	}
	if len(table) == 0 {
		t.Fatal("empty ratio table")
	}
	for _, o := range table {
		if o.Value != 1.0 {
			t.Fatalf("principal over itself must be 1.0, got %v at %+v", o.Value, o)
		}
	}
}

func TestVariantRatioAgainstPrincipal(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.VariantRatio(context.Background(), "hhh", []string{"sc"}, query.Options{
		Years: []int{2018},
	})
	if err != nil {
		t.Fatalf("variant ratio: %v", err)
	}
	for _, o := range table {
		if math.Abs(o.Value-2.0) > 1e-9 {
			t.Fatalf("hhh fixture is exactly double ppp, got ratio %v at %+v", o.Value, o)
		}
	}
}

func TestYearRatio(t *testing.T) {
	e, _ := newEngine(t)
	table, err := e.YearRatio(context.Background(), "ppp", []string{"ni"}, 2016, 2020, query.Options{
		Ages:    []int{40},
		Genders: []int{npp.Female},
	})
	if err != nil {
		t.Fatalf("year ratio: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("expected one ratio row, got %d", len(table))
	}
	code := npp.GeographyCodes["ni"]
	want := value(code, 2020, npp.Female, 40) / value(code, 2016, npp.Female, 40)
	if math.Abs(table[0].Value-want) > 1e-12 {
		t.Fatalf("ratio %v, want %v", table[0].Value, want)
	}
	if table[0].Year != 2020 {
		t.Fatalf("ratio row carries year %d, want 2020", table[0].Year)
	}
}

func TestDetailUnknownGeography(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.Detail(context.Background(), "ppp", []string{"fr"}, query.Options{}); err == nil {
		t.Fatal("expected error for unknown geography")
	}
}
