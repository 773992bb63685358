// Package pipeline turns the published projection sources into tidy
// per-variant tables. The principal variant comes straight from the
// statistical API; every other variant is assembled from the per-country zip
// archives through an idempotent download -> extract -> parse -> normalize ->
// persist chain, where each stage is skipped if its cache artifact already
// exists.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harborstats/ukproj/internal/archive"
	"github.com/harborstats/ukproj/internal/cache"
	"github.com/harborstats/ukproj/internal/fetch"
	"github.com/harborstats/ukproj/internal/npp"
	"github.com/harborstats/ukproj/internal/sheetxml"
)

// worksheetName is the sheet carrying the projection table in every variant
// workbook.
const worksheetName = "Population"

// DefaultArchiveURLs are the published 2016-based variant archives, one per
// country, each containing every variant's workbook.
var DefaultArchiveURLs = map[string]string{
	"en": "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/populationandmigration/populationprojections/datasets/z3zippedpopulationprojectionsdatafilesengland/2016based/tablez3opendata16england.zip",
	"wa": "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/populationandmigration/populationprojections/datasets/z4zippedpopulationprojectionsdatafileswales/2016based/tablez4opendata16wales.zip",
	"sc": "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/populationandmigration/populationprojections/datasets/z5zippedpopulationprojectionsdatafilesscotland/2016based/tablez5opendata16scotland.zip",
	"ni": "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/populationandmigration/populationprojections/datasets/z6zippedpopulationprojectionsdatafilesnorthernireland/2016based/tablez6opendata16northernireland.zip",
}

// PrincipalLoader is the statistical-API collaborator: it returns the tidy
// principal-variant table directly.
type PrincipalLoader interface {
	PrincipalProjection(ctx context.Context) (npp.Table, error)
}

// Options tune where the pipeline reads from and reports to.
type Options struct {
	// ArchiveURLs overrides the published archive locations per country
	// (tests point these at a local server). Countries not present keep
	// their DefaultArchiveURLs entry.
	ArchiveURLs map[string]string
	// Progress receives human-readable stage updates. Nil discards them.
	Progress io.Writer
}

// Store owns the loaded variant tables for the life of the process. The
// principal variant is loaded eagerly at construction; the rest on first
// request. Tables are immutable once loaded — refreshing the data means
// clearing the cache directory and restarting.
type Store struct {
	cache    *cache.Store
	fetcher  *fetch.Fetcher
	api      PrincipalLoader
	urls     map[string]string
	progress io.Writer
	tables   map[string]npp.Table
}

// NewStore builds the variant store and eagerly loads the principal variant
// through the statistical API.
func NewStore(ctx context.Context, cs *cache.Store, f *fetch.Fetcher, api PrincipalLoader, opts Options) (*Store, error) {
	urls := make(map[string]string, len(DefaultArchiveURLs))
	for geog, u := range DefaultArchiveURLs {
		urls[geog] = u
	}
	for geog, u := range opts.ArchiveURLs {
		urls[geog] = u
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	s := &Store{
		cache:    cs,
		fetcher:  f,
		api:      api,
		urls:     urls,
		progress: progress,
		tables:   map[string]npp.Table{},
	}

	fmt.Fprintln(s.progress, "loading principal (ppp) projection for England, Wales, Scotland & Northern Ireland")
	ppp, err := api.PrincipalProjection(ctx)
	if err != nil {
		return nil, fmt.Errorf("load principal variant: %w", err)
	}
	s.tables[npp.Principal] = ppp
	return s, nil
}

// Variant returns the tidy table for a variant code, running the acquisition
// pipeline on first request. Unknown codes fail before any I/O.
func (s *Store) Variant(ctx context.Context, code string) (npp.Table, error) {
	if !npp.ValidVariant(code) {
		return nil, &npp.InvalidVariantError{Code: code}
	}
	if table, ok := s.tables[code]; ok {
		return table, nil
	}
	table, err := s.loadVariant(ctx, code)
	if err != nil {
		return nil, err
	}
	s.tables[code] = table
	return table, nil
}

// MinYear is the first projection year of the principal table.
func (s *Store) MinYear() int {
	years := s.tables[npp.Principal].Years()
	if len(years) == 0 {
		return 0
	}
	return years[0]
}

// MaxYear is the final projection year of the principal table.
func (s *Store) MaxYear() int {
	years := s.tables[npp.Principal].Years()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// loadVariant assembles one non-principal variant from the four country
// archives, reusing any artifact a previous run already produced.
func (s *Store) loadVariant(ctx context.Context, code string) (npp.Table, error) {
	tablePath := s.cache.TablePath(code)
	if s.cache.Has(tablePath) {
		fmt.Fprintf(s.progress, "using cached table %s\n", tablePath)
		data, err := s.cache.Read(tablePath)
		if err != nil {
			return nil, fmt.Errorf("read cached table: %w", err)
		}
		table, err := npp.DecodeCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode cached table %s: %w", tablePath, err)
		}
		return table, nil
	}

	// Stage 1: all four country archives on disk.
	for _, geog := range npp.UK {
		zipPath := s.cache.ArchivePath(geog)
		if s.cache.Has(zipPath) {
			fmt.Fprintf(s.progress, "using %s\n", zipPath)
			continue
		}
		fmt.Fprintf(s.progress, "downloading %s\n", zipPath)
		start := time.Now()
		data, err := s.fetcher.Fetch(ctx, s.urls[geog])
		if err != nil {
			return nil, err
		}
		if err := s.cache.Write(zipPath, data); err != nil {
			return nil, fmt.Errorf("store archive: %w", err)
		}
		fmt.Fprintf(s.progress, "downloaded %s in %.1fs\n", zipPath, time.Since(start).Seconds())
	}

	// Stages 2-4 per country: extract, parse, normalize.
	var merged npp.Table
	for _, geog := range npp.UK {
		docName := cache.DocumentName(geog, code)
		docPath := s.cache.DocumentPath(geog, code)
		if !s.cache.Has(docPath) {
			fmt.Fprintf(s.progress, "extracting %s\n", docName)
			if err := archive.ExtractDocument(s.cache.ArchivePath(geog), docName, docPath); err != nil {
				return nil, err
			}
		}
		rows, err := sheetxml.ParseWorksheetFile(docPath, worksheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, &sheetxml.ParseError{
				Path:  docPath,
				Sheet: worksheetName,
				Err:   errors.New("worksheet not found"),
			}
		}
		part, err := normalizeWorksheet(rows, npp.GeographyCodes[geog])
		if err != nil {
			return nil, &sheetxml.ParseError{Path: docPath, Sheet: worksheetName, Err: err}
		}
		merged = append(merged, part...)
	}

	// Stage 5: persist the merged table for the next process.
	data, err := merged.EncodeCSV()
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	if err := s.cache.Write(tablePath, data); err != nil {
		return nil, fmt.Errorf("store table: %w", err)
	}
	return merged, nil
}
