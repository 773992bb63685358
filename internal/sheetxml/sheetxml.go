// Package sheetxml reads SpreadsheetML (Excel 2003 XML) workbooks, the
// format the ONS publishes projection variant tables in. Only the small
// subset needed here is understood: worksheets selected by ss:Name, their
// rows, and the text content of each cell's Data element.
package sheetxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError indicates an unreadable or malformed workbook document.
type ParseError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("parse %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseWorksheet streams the workbook and returns the rows of the worksheet
// whose ss:Name matches sheetName. Each row is the ordered text of its cells'
// Data elements; cells without a Data element are omitted entirely, so rows
// are not positionally aligned with one another. Worksheets with other names
// are skipped. If no worksheet matches, the result is empty and err is nil;
// callers that require the sheet must check for that themselves.
func ParseWorksheet(r io.Reader, sheetName string) ([][]string, error) {
	dec := xml.NewDecoder(r)

	var (
		rows    [][]string
		inSheet bool
		inRow   bool
		curRow  []string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "Worksheet":
				inSheet = worksheetName(se) == sheetName
			case "Row":
				if inSheet {
					inRow = true
					curRow = nil
				}
			case "Cell":
				// nothing to track: only Data children carry text
			case "Data":
				if inRow {
					text, err := collectText(dec, se.Name)
					if err != nil {
						return nil, fmt.Errorf("decode: %w", err)
					}
					curRow = append(curRow, text)
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "Worksheet":
				inSheet = false
			case "Row":
				if inRow {
					rows = append(rows, curRow)
					inRow = false
				}
			}
		}
	}
	return rows, nil
}

// ParseWorksheetFile is ParseWorksheet over a file on disk, wrapping any
// failure in a ParseError.
func ParseWorksheetFile(path, sheetName string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Sheet: sheetName, Err: err}
	}
	defer f.Close()
	rows, err := ParseWorksheet(f, sheetName)
	if err != nil {
		return nil, &ParseError{Path: path, Sheet: sheetName, Err: err}
	}
	return rows, nil
}

func worksheetName(se xml.StartElement) string {
	for _, a := range se.Attr {
		if a.Name.Local == "Name" {
			return a.Value
		}
	}
	return ""
}

// collectText reads character data until the matching end element.
func collectText(dec *xml.Decoder, name xml.Name) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write([]byte(t))
		case xml.EndElement:
			if t.Name.Local == name.Local {
				return sb.String(), nil
			}
		}
	}
}
