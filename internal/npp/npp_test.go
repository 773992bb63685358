package npp_test

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/harborstats/ukproj/internal/npp"
)

func TestValidVariant(t *testing.T) {
	for _, code := range []string{"ppp", "hhh", "ppz"} {
		if !npp.ValidVariant(code) {
			t.Errorf("%s should be valid", code)
		}
	}
	for _, code := range []string{"", "zzz", "PPP", "pppp"} {
		if npp.ValidVariant(code) {
			t.Errorf("%q should be invalid", code)
		}
	}
}

func TestVariantCodes(t *testing.T) {
	codes := npp.VariantCodes()
	if len(codes) != 15 {
		t.Fatalf("expected 15 variant codes, got %d", len(codes))
	}
	if !sort.StringsAreSorted(codes) {
		t.Fatalf("codes not sorted: %v", codes)
	}
}

func TestInvalidVariantError(t *testing.T) {
	err := &npp.InvalidVariantError{Code: "zzz"}
	if !strings.Contains(err.Error(), "zzz") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestResolveGeographies(t *testing.T) {
	codes, err := npp.ResolveGeographies(npp.EW)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(codes) != 2 || codes[0] != "E92000001" || codes[1] != "W92000004" {
		t.Fatalf("unexpected codes: %v", codes)
	}
	if _, err := npp.ResolveGeographies([]string{"en", "fr"}); err == nil {
		t.Fatal("expected error for unknown geography")
	}
}

func TestGeographyGroups(t *testing.T) {
	if len(npp.EW) != 2 || len(npp.GB) != 3 || len(npp.UK) != 4 {
		t.Fatalf("unexpected group sizes: %d %d %d", len(npp.EW), len(npp.GB), len(npp.UK))
	}
}

func TestTableYears(t *testing.T) {
	table := npp.Table{
		{Year: 2018}, {Year: 2016}, {Year: 2018}, {Year: 2017},
	}
	years := table.Years()
	if len(years) != 3 || years[0] != 2016 || years[2] != 2018 {
		t.Fatalf("unexpected years: %v", years)
	}
}

func TestTableCSVRoundTrip(t *testing.T) {
	table := npp.Table{
		{GeographyCode: "E92000001", Year: 2016, Gender: 1, Age: 0, Value: 341.273},
		{GeographyCode: "W92000004", Year: 2050, Gender: 2, Age: 90, Value: 12},
	}
	data, err := table.EncodeCSV()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "GENDER,C_AGE,PROJECTED_YEAR_NAME,OBS_VALUE,GEOGRAPHY_CODE" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	got, err := npp.DecodeCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(table) {
		t.Fatalf("expected %d rows, got %d", len(table), len(got))
	}
	for i := range table {
		if got[i] != table[i] {
			t.Fatalf("row %d: %+v != %+v", i, got[i], table[i])
		}
	}
}

func TestDecodeCSVRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"GENDER,C_AGE\n1,2",
		"GENDER,C_AGE,PROJECTED_YEAR_NAME,OBS_VALUE,GEOGRAPHY_CODE\nx,0,2016,1,E92000001",
	}
	for _, c := range cases {
		if _, err := npp.DecodeCSV(strings.NewReader(c)); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}
