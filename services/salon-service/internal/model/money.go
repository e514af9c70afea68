package model

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents). JSON carries it as a decimal
// number with at most two fractional digits.
type Money int64

var ErrInvalidMoney = errors.New("invalid money amount")

func Cents(c int64) Money { return Money(c) }

func (m Money) Cents() int64 { return int64(m) }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 1 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	v, err := ParseMoney(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMoney parses "45", "45.5" or "45.50" exactly. More than two
// fractional digits is an error rather than a silent rounding.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, ErrInvalidMoney
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrInvalidMoney
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (1<<62)/100 {
		return 0, ErrInvalidMoney
	}
	cents := units * 100
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		f, _ := strconv.ParseInt(frac, 10, 64)
		cents += f
	}
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DivRound divides m by n rounding half away from zero.
func (m Money) DivRound(n int64) Money {
	if n == 0 {
		return 0
	}
	v := int64(m)
	q := v / n
	r := v % n
	if r < 0 {
		r = -r
	}
	if 2*r >= abs(n) {
		if (v < 0) != (n < 0) {
			q--
		} else {
			q++
		}
	}
	return Money(q)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
