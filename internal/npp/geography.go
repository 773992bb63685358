package npp

import "fmt"

// GeographyCodes maps the short country identifiers used throughout the
// toolkit to the canonical 9-character GSS geography codes.
var GeographyCodes = map[string]string{
	"en": "E92000001",
	"wa": "W92000004",
	"sc": "S92000003",
	"ni": "N92000002",
}

// Fixed country groupings, in the conventional order.
var (
	EW = []string{"en", "wa"}
	GB = []string{"en", "wa", "sc"}
	UK = []string{"en", "wa", "sc", "ni"}
)

// ResolveGeographies expands the short country identifiers to GSS codes.
// Unknown identifiers are rejected.
func ResolveGeographies(geogs []string) ([]string, error) {
	codes := make([]string, 0, len(geogs))
	for _, g := range geogs {
		code, ok := GeographyCodes[g]
		if !ok {
			return nil, fmt.Errorf("unknown geography %q (want en, wa, sc or ni)", g)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
