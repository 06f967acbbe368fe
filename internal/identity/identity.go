// Package identity generates and validates the human-typeable item
// identifiers used across report and management collections.
package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Item identifiers are dash-delimited numeric tokens, e.g. "4829-1753-0264".
// They are generated client-side or at intake and must stay stable for the
// lifetime of a report.
const (
	groupCount = 3
	groupWidth = 4
)

var itemIDPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}$`)

// NewItemID returns a fresh random item identifier.
func NewItemID() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < groupWidth; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	groups := make([]string, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate item id: %w", err)
		}
		groups = append(groups, fmt.Sprintf("%0*d", groupWidth, n))
	}
	return strings.Join(groups, "-"), nil
}

// ValidItemID reports whether the supplied value is a well-formed item
// identifier. Surrounding whitespace is tolerated, casing is irrelevant
// because the token is purely numeric.
func ValidItemID(value string) bool {
	return itemIDPattern.MatchString(strings.TrimSpace(value))
}

// Normalize trims an operator-entered identifier for lookup.
func Normalize(value string) string {
	return strings.TrimSpace(value)
}
