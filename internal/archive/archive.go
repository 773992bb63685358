// Package archive pulls individual variant workbooks out of the downloaded
// country zip files.
package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/harborstats/ukproj/internal/utils"
)

// ExtractError indicates the archive does not contain the expected workbook,
// which means the published archive layout has changed.
type ExtractError struct {
	Archive string
	Name    string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("archive %s: no member %q", e.Archive, e.Name)
}

// ExtractDocument copies the named archive member to destPath atomically.
func ExtractDocument(zipPath, name, destPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.Name != name {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return fmt.Errorf("open member %s: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read member %s: %w", name, err)
		}
		if err := utils.SafeWriteFile(destPath, data); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		return nil
	}
	return &ExtractError{Archive: zipPath, Name: name}
}
