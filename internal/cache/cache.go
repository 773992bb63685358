// Package cache is the tri-level artifact store behind the projection
// pipeline: raw country archives, extracted variant documents, and processed
// per-variant tables all live as flat files under one directory. Presence of
// a file is the sole "stage already done" signal; artifacts are written once,
// atomically, and never mutated.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harborstats/ukproj/internal/utils"
)

// Store manages the pipeline artifacts under a single cache directory. No
// locking is provided: the pipeline is single-threaded, and concurrent
// processes sharing a cache directory are not a supported configuration.
type Store struct {
	Dir string
}

// New creates the cache directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// ArchivePath is the raw downloaded zip for one country.
func (s *Store) ArchivePath(geog string) string {
	return filepath.Join(s.Dir, "npp_"+geog+".zip")
}

// DocumentPath is the variant workbook extracted from a country archive.
func (s *Store) DocumentPath(geog, variant string) string {
	return filepath.Join(s.Dir, DocumentName(geog, variant))
}

// DocumentName is the workbook's member name inside the archive, which the
// extracted file keeps.
func DocumentName(geog, variant string) string {
	return geog + "_" + variant + "_opendata2016.xml"
}

// TablePath is the processed tidy table for one variant, all four countries
// merged.
func (s *Store) TablePath(variant string) string {
	return filepath.Join(s.Dir, "npp_"+variant+".csv")
}

// Has reports whether the artifact already exists. Callers must check this
// before running the stage that produces it.
func (s *Store) Has(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Write persists an artifact atomically.
func (s *Store) Write(path string, data []byte) error {
	return utils.SafeWriteFile(path, data)
}

// Read loads an artifact's payload.
func (s *Store) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}
