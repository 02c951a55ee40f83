package model

import "strconv"

// ID is the canonical identifier triple for a platform-native identifier.
// Source holds the identifier exactly as the platform produced it, Str its
// canonical string form, and Num the gateway-assigned integer surrogate.
// Protocols that speak numeric IDs use Num; string-friendly protocols use Str.
type ID struct {
	Source any    `json:"source"`
	Str    string `json:"string"`
	Num    int64  `json:"number"`
}

// NumericID builds an ID for a native identifier that is already an integer.
// Numeric natives are self-describing: no surrogate allocation is needed.
func NumericID(n int64) ID {
	return ID{Source: n, Str: strconv.FormatInt(n, 10), Num: n}
}

// IsZero reports whether the ID is the empty value.
func (id ID) IsZero() bool {
	return id.Source == nil && id.Str == "" && id.Num == 0
}

func (id ID) String() string { return id.Str }
