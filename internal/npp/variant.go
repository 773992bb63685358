package npp

import (
	"fmt"
	"sort"
)

// Principal is the reference projection scenario. It is loaded eagerly at
// startup and is the denominator for variant ratios.
const Principal = "ppp"

// Variants maps each known 3-letter projection variant code to its
// published display name.
var Variants = map[string]string{
	"hhh": "High population",
	"hpp": "High fertility",
	"lll": "Low population",
	"lpp": "Low fertility",
	"php": "High life expectancy",
	"pjp": "Moderately high life expectancy",
	"pkp": "Moderately low life expectancy",
	"plp": "Low life expectancy",
	"pph": "High migration",
	"ppl": "Low migration",
	"ppp": "Principal",
	"ppq": "0% future EU migration (non-ONS)",
	"ppr": "50% future EU migration (non-ONS)",
	"pps": "150% future EU migration (non-ONS)",
	"ppz": "Zero net migration",
}

// ValidVariant reports whether code names a known projection variant.
func ValidVariant(code string) bool {
	_, ok := Variants[code]
	return ok
}

// VariantCodes returns all known variant codes in sorted order.
func VariantCodes() []string {
	codes := make([]string, 0, len(Variants))
	for c := range Variants {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// InvalidVariantError indicates an unknown projection variant code. It is a
// usage error: callers receive it before any network or disk I/O happens.
type InvalidVariantError struct {
	Code string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid variant code: %q", e.Code)
}
