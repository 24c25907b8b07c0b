package validation

import (
	"strings"
	"unicode"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

// Pair couples an "attended" counter with the "total" it may not exceed.
type Pair struct {
	Attended domain.FieldKind
	Total    domain.FieldKind
}

var Pairs = [...]Pair{
	{domain.FieldSessionsAttended, domain.FieldSessionsTotal},
	{domain.FieldCommitteeAttended, domain.FieldCommitteeTotal},
	{domain.FieldLDPRAttended, domain.FieldLDPRTotal},
}

// PairOf returns the pair k belongs to, as either member.
func PairOf(k domain.FieldKind) (Pair, bool) {
	for _, p := range Pairs {
		if p.Attended == k || p.Total == k {
			return p, true
		}
	}
	return Pair{}, false
}

// ExceedsTotal reports whether attended > total. Both sides are read the way
// parseInt reads them, so "5x" and " 5" count as 5. It is false while either
// side has no leading number, which includes an empty total.
func ExceedsTotal(p Pair, s *domain.Snapshot) bool {
	aNeg, att, ok := leadingInt(s.Value(domain.F(p.Attended)))
	if !ok {
		return false
	}
	tNeg, tot, ok := leadingInt(s.Value(domain.F(p.Total)))
	if !ok {
		return false
	}
	return compareInts(aNeg, att, tNeg, tot) > 0
}

// leadingInt skips leading whitespace, reads an optional sign and returns the
// run of decimal digits that follows. ok is false when there are no digits.
func leadingInt(v string) (neg bool, digits string, ok bool) {
	v = strings.TrimLeftFunc(v, unicode.IsSpace)
	if v != "" && (v[0] == '+' || v[0] == '-') {
		neg = v[0] == '-'
		v = v[1:]
	}
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n == 0 {
		return false, "", false
	}
	return neg, v[:n], true
}

// compareInts compares two signed decimal numbers of any length.
func compareInts(aNeg bool, a string, bNeg bool, b string) int {
	aNeg = aNeg && strings.Trim(a, "0") != ""
	bNeg = bNeg && strings.Trim(b, "0") != ""
	switch {
	case aNeg && !bNeg:
		return -1
	case !aNeg && bNeg:
		return 1
	case aNeg:
		return -compareDigits(a, b)
	}
	return compareDigits(a, b)
}

// compareDigits compares two decimal digit strings of any length.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}
	return strings.Compare(a, b)
}
