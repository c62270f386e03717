package queryir

import "fmt"

// Comparator selects how a ValueFilter compares.
type Comparator int

// Comparators. Any other value is unsupported and compiles to an
// unconditional match.
const (
	CmpEQ Comparator = iota
	CmpNEQ
	CmpLess
	CmpGreater
	CmpLEQ
	CmpGEQ
	CmpLike
	CmpNotLike
)

var comparatorSymbols = map[Comparator]string{
	CmpEQ:      "=",
	CmpNEQ:     "!=",
	CmpLess:    "<",
	CmpGreater: ">",
	CmpLEQ:     "<=",
	CmpGEQ:     ">=",
	CmpLike:    "~",
	CmpNotLike: "!~",
}

// String returns the comparator's symbol as written in query files.
func (c Comparator) String() string {
	if s, ok := comparatorSymbols[c]; ok {
		return s
	}
	return fmt.Sprintf("Comparator(%d)", int(c))
}

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	_, ok := comparatorSymbols[c]
	return ok
}

// ParseComparator parses a comparator symbol ("=", "!=", "<", ">", "<=",
// ">=", "~", "!~").
func ParseComparator(s string) (Comparator, error) {
	for c, sym := range comparatorSymbols {
		if sym == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown comparator %q", s)
}
