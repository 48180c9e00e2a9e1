package sortkey

import (
	"github.com/peak/gosort/record"
)

// ParseNumeric extracts a simplified numeric value from the start of key,
// following a plain-decimal subset of the original implementation's
// numeric_str_cmp: an optional sign, digits, an optional fractional part.
// Locale thousands-grouping and exponents are explicitly out of scope
// (see spec.md §1 non-goals on exact numeric comparison rules).
func ParseNumeric(key []byte) record.NumInfo {
	i := 0
	n := len(key)

	for i < n && (key[i] == ' ' || key[i] == '\t') {
		i++
	}

	negative := false
	if i < n && (key[i] == '+' || key[i] == '-') {
		negative = key[i] == '-'
		i++
	}

	start := i
	var intPart int64
	for i < n && key[i] >= '0' && key[i] <= '9' {
		intPart = intPart*10 + int64(key[i]-'0')
		i++
	}
	hasDigits := i > start

	var fraction float64
	if i < n && key[i] == '.' {
		j := i + 1
		div := 1.0
		for j < n && key[j] >= '0' && key[j] <= '9' {
			div *= 10
			fraction += float64(key[j]-'0') / div
			j++
		}
		if j > i+1 {
			hasDigits = true
		}
	}

	if !hasDigits {
		return record.NumInfo{Valid: false}
	}

	return record.NumInfo{
		Valid:    true,
		Negative: negative,
		Integer:  intPart,
		Fraction: fraction,
	}
}

// CompareNumeric orders two NumInfo values the way coreutils' -n does:
// invalid (non-numeric) keys sort before all valid numbers, mirroring the
// "numbers that don't parse are treated as negative infinity" rule.
func CompareNumeric(a, b record.NumInfo) int {
	if !a.Valid && !b.Valid {
		return 0
	}
	if !a.Valid {
		return -1
	}
	if !b.Valid {
		return 1
	}

	as, bs := sign(a), sign(b)
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}

	if a.Integer != b.Integer {
		if (a.Integer < b.Integer) == a.Negative {
			return 1
		}
		return -1
	}
	if a.Fraction != b.Fraction {
		if (a.Fraction < b.Fraction) == a.Negative {
			return 1
		}
		return -1
	}
	return 0
}

func sign(n record.NumInfo) int {
	if n.Integer == 0 && n.Fraction == 0 {
		return 0
	}
	if n.Negative {
		return -1
	}
	return 1
}
