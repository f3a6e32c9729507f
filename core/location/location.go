// Package location resolves jurisdictions to effective tax profiles.
//
// A jurisdiction is a country/region/city path. Each layer may define
// its own tax profile; the effective profile for a location is the
// layers merged top-down, so the marginal rate at any income is the sum
// of the layers' rates. Built-in tables cover the locations the tool
// ships with; custom tables can be layered on from HCL files.
package location

import (
	"strings"

	"relocation-cost/internal/errors"
)

// Key identifies a jurisdiction. Region and City may be empty: "US"
// alone means federal taxes only.
type Key struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// String renders the canonical slash-separated form.
func (k Key) String() string {
	parts := []string{k.Country}
	if k.Region != "" {
		parts = append(parts, k.Region)
	}
	if k.City != "" {
		parts = append(parts, k.City)
	}
	return strings.Join(parts, "/")
}

// countryAliases maps accepted country spellings to canonical codes.
var countryAliases = map[string]string{
	"us":            "US",
	"usa":           "US",
	"united states": "US",
	"america":       "US",
}

// regionAliases maps accepted region spellings to canonical codes.
var regionAliases = map[string]string{
	"ca":         "CA",
	"california": "CA",
	"tx":         "TX",
	"texas":      "TX",
}

// cityAliases maps accepted city spellings to canonical names.
var cityAliases = map[string]string{
	"sf":            "San Francisco",
	"san francisco": "San Francisco",
	"aus":           "Austin",
	"austin":        "Austin",
}

// ParseKey parses a location string such as "US/CA/San Francisco",
// "US/TX" or "US". Known aliases are canonicalized; unrecognized parts
// are kept as written so that custom tables can name new jurisdictions.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Key{}, errors.Newf(errors.TypeInput,
			"location %q has more than country/region/city", s)
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return Key{}, errors.Newf(errors.TypeInput, "location %q has an empty component", s)
		}
	}

	key := Key{Country: canonical(parts[0], countryAliases, strings.ToUpper)}
	if len(parts) > 1 {
		key.Region = canonical(parts[1], regionAliases, nil)
	}
	if len(parts) > 2 {
		key.City = canonical(parts[2], cityAliases, nil)
	}
	return key, nil
}

// countryKey returns the country-only prefix of the key.
func (k Key) countryKey() Key {
	return Key{Country: k.Country}
}

// regionKey returns the country/region prefix of the key.
func (k Key) regionKey() Key {
	return Key{Country: k.Country, Region: k.Region}
}

func canonical(part string, aliases map[string]string, fallback func(string) string) string {
	if c, ok := aliases[strings.ToLower(part)]; ok {
		return c
	}
	if fallback != nil {
		return fallback(part)
	}
	return part
}
