// Package postcode provides the address lookup consumed by the address
// screen. There is no real lookup provider; the directory serves fixed
// candidates for known postcodes and deterministic generated candidates for
// everything else.
package postcode

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/debtflyhq/debtfly/internal/types"
)

// Candidate is one address offered for a postcode.
type Candidate struct {
	types.Address
	Formatted string `json:"formatted"`
}

// Lookup answers postcode queries. Pure query, no side effects.
type Lookup interface {
	ByPostcode(code string) []Candidate
}

// Directory is the built-in mock lookup.
type Directory struct{}

// NewDirectory creates the mock directory.
func NewDirectory() *Directory {
	return &Directory{}
}

var known = map[string][]Candidate{
	"SW1A 1AA": {
		candidate("Buckingham Palace", "London", "SW1A 1AA"),
	},
	"EC1A 1BB": {
		candidate("10 Downing Street", "London", "EC1A 1BB"),
	},
	"M1 1AE": {
		candidate("Flat 1, 123 Deansgate", "Manchester", "M1 1AE"),
		candidate("Flat 2, 123 Deansgate", "Manchester", "M1 1AE"),
		candidate("Flat 3, 123 Deansgate", "Manchester", "M1 1AE"),
	},
}

var streetNames = []string{
	"High Street",
	"Church Road",
	"Station Road",
	"Main Street",
	"Park Avenue",
	"Victoria Road",
	"Mill Lane",
}

var cityNames = []string{
	"London",
	"Manchester",
	"Birmingham",
	"Leeds",
	"Bristol",
}

// ByPostcode returns candidates for a postcode. Unknown postcodes get
// generated candidates that are stable per input, so the screen behaves
// consistently across visits. Empty input returns nothing.
func (d *Directory) ByPostcode(code string) []Candidate {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil
	}
	if fixed, ok := known[normalized]; ok {
		return fixed
	}
	return generate(normalized)
}

func generate(postcode string) []Candidate {
	h := fnv.New32a()
	h.Write([]byte(postcode))
	seed := h.Sum32()

	street := streetNames[seed%uint32(len(streetNames))]
	city := cityNames[(seed/7)%uint32(len(cityNames))]
	count := 3 + int(seed%3)

	candidates := make([]Candidate, 0, count)
	for i := 0; i < count; i++ {
		number := 1 + (int(seed)+i*4)%98
		line1 := fmt.Sprintf("%d %s", number, street)
		candidates = append(candidates, candidate(line1, city, postcode))
	}
	return candidates
}

func candidate(line1, city, postcode string) Candidate {
	return Candidate{
		Address: types.Address{
			Line1:    line1,
			City:     city,
			Postcode: postcode,
		},
		Formatted: fmt.Sprintf("%s, %s, %s", line1, city, postcode),
	}
}
