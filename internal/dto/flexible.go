package dto

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Clients send numbers both as JSON numbers and as strings ("12", "3.50"),
// and sometimes send garbage. The lenient types below accept either form and
// decode anything non-numeric to zero instead of failing the whole body.

// Entero is an int64 that decodes leniently.
type Entero int64

func (e *Entero) UnmarshalJSON(b []byte) error {
	s, ok := scalar(b)
	if !ok {
		*e = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*e = Entero(n)
		return nil
	}
	// "3.7" → 3, the same truncation an integer column cast applies.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*e = Entero(int64(f))
		return nil
	}
	*e = 0
	return nil
}

func (e Entero) Int64() int64 { return int64(e) }

// DecimalFlexible is a decimal.Decimal that decodes leniently.
type DecimalFlexible struct {
	decimal.Decimal
}

func (d *DecimalFlexible) UnmarshalJSON(b []byte) error {
	s, ok := scalar(b)
	if !ok {
		d.Decimal = decimal.Zero
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		v = decimal.Zero
	}
	d.Decimal = v
	return nil
}

// BoolFlexible accepts true/false, 0/1 and their string forms.
type BoolFlexible bool

func (v *BoolFlexible) UnmarshalJSON(b []byte) error {
	s, ok := scalar(b)
	if !ok {
		*v = false
		return nil
	}
	switch strings.ToLower(s) {
	case "true", "1", "si", "sí", "yes", "on":
		*v = true
		return nil
	case "false", "0", "no", "off", "":
		*v = false
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = f != 0
		return nil
	}
	*v = false
	return nil
}

// Bool resolves an optional flag, falling back to def when absent.
func (v *BoolFlexible) Bool(def bool) bool {
	if v == nil {
		return def
	}
	return bool(*v)
}

// scalar returns the textual form of a JSON number, string or boolean.
// Objects, arrays and null report ok=false.
func scalar(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	switch b[0] {
	case '{', '[':
		return "", false
	case '"':
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return string(b), true
}
