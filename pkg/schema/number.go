// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

// This file handles numbers used in range and length restrictions and in
// decoded integer and decimal64 values.

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// MaxInt64 corresponds to the maximum value of a signed int64.
	MaxInt64 = 1<<63 - 1
	// MinInt64 corresponds to the minimum value of a signed int64.
	MinInt64 = -1 << 63
	// AbsMinInt64 is the absolute value of MinInt64.
	AbsMinInt64 = 1 << 63
	// MaxFractionDigits is the maximum number of fractional digits of a
	// decimal64 per RFC6020 Section 9.3.4.
	MaxFractionDigits uint8 = 18

	space18 = "000000000000000000" // used for prepending 0's
)

// These are the default ranges defined by the YANG standard.
var (
	Int8Range  = YangRange{{FromInt(-128), FromInt(127)}}
	Int16Range = YangRange{{FromInt(-32768), FromInt(32767)}}
	Int32Range = YangRange{{FromInt(-2147483648), FromInt(2147483647)}}
	Int64Range = YangRange{{FromInt(MinInt64), FromInt(MaxInt64)}}

	Uint8Range  = YangRange{{FromUint(0), FromUint(255)}}
	Uint16Range = YangRange{{FromUint(0), FromUint(65535)}}
	Uint32Range = YangRange{{FromUint(0), FromUint(4294967295)}}
	Uint64Range = YangRange{{FromUint(0), FromUint(18446744073709551615)}}
)

// A Number is either an integer in the range [-(1<<64)-1, (1<<64)-1] or a
// YANG decimal64 conforming to RFC6020 Section 9.3.4.
type Number struct {
	// Value is the absolute value of the number.
	Value uint64
	// FractionDigits is the number of fractional digits.  0 means the
	// number is an integer; for decimal64 it falls within [1, 18].
	FractionDigits uint8
	// Negative indicates whether the number is negative.
	Negative bool
}

// FromInt creates a Number from an int64.
func FromInt(i int64) Number {
	if i < 0 {
		return Number{Negative: true, Value: uint64(-(i + 1)) + 1}
	}
	return Number{Value: uint64(i)}
}

// FromUint creates a Number from a uint64.
func FromUint(i uint64) Number {
	return Number{Value: i}
}

// IsDecimal reports whether n is a decimal number.
func (n Number) IsDecimal() bool {
	return n.FractionDigits != 0
}

// String returns n as a string in decimal.
func (n Number) String() string {
	out := strconv.FormatUint(n.Value, 10)
	if fd := int(n.FractionDigits); fd > 0 {
		ofd := len(out) - fd
		if ofd <= 0 {
			// We want 0.1 not .1
			out = space18[:-ofd+1] + out
			ofd = 1
		}
		out = out[:ofd] + "." + out[ofd:]
	}
	if n.Negative {
		out = "-" + out
	}
	return out
}

// Int returns n as an int64.  It returns an error if n overflows an int64
// or the number is decimal.
func (n Number) Int() (int64, error) {
	if n.IsDecimal() {
		return 0, errors.New("called Int() on decimal64 value")
	}
	if n.Negative {
		if n.Value > AbsMinInt64 {
			return 0, errors.New("signed integer overflow")
		}
		if n.Value == AbsMinInt64 {
			return MinInt64, nil
		}
		return -int64(n.Value), nil
	}
	if n.Value <= MaxInt64 {
		return int64(n.Value), nil
	}
	return 0, errors.New("signed integer overflow")
}

// Scaled returns a decimal64 n as its scaled int64 representation,
// value * 10^fraction-digits.
func (n Number) Scaled() (int64, error) {
	if n.Negative {
		if n.Value > AbsMinInt64 {
			return 0, errors.New("decimal64 overflow")
		}
		if n.Value == AbsMinInt64 {
			return MinInt64, nil
		}
		return -int64(n.Value), nil
	}
	if n.Value > MaxInt64 {
		return 0, errors.New("decimal64 overflow")
	}
	return int64(n.Value), nil
}

// Trunc returns the whole part of abs(n).
func (n Number) Trunc() uint64 {
	return n.Value / pow10(n.FractionDigits)
}

// frac returns the fraction part with a precision of 18 fractional digits.
func (n Number) frac() uint64 {
	i := n.Trunc() * pow10(n.FractionDigits)
	return (n.Value - i) * pow10(MaxFractionDigits-n.FractionDigits)
}

// Less returns true if n is less than m.
func (n Number) Less(m Number) bool {
	switch {
	case n.Negative && !m.Negative:
		return true
	case !n.Negative && m.Negative:
		return false
	}
	nt, mt := n.Trunc(), m.Trunc()
	lt := nt < mt
	if nt == mt {
		nf, mf := n.frac(), m.frac()
		if nf == mf {
			return false
		}
		lt = nf < mf
	}
	if n.Negative {
		return !lt
	}
	return lt
}

// Equal returns true if n is equal to m.
func (n Number) Equal(m Number) bool {
	return !n.Less(m) && !m.Less(n)
}

func pow10(e uint8) uint64 {
	v := uint64(1)
	for ; e > 0; e-- {
		v *= 10
	}
	return v
}

// ParseInt returns s interpreted as a decimal integer Number.
func ParseInt(s string) (Number, error) {
	var n Number
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return n, errors.New("converting empty string to number")
	case "+", "-":
		return n, errors.New("sign with no value")
	}
	ns := s
	switch s[0] {
	case '+':
		ns = s[1:]
	case '-':
		n.Negative = true
		ns = s[1:]
	}
	v, err := strconv.ParseUint(ns, 10, 64)
	if err != nil {
		return n, fmt.Errorf("%q is not a valid integer", s)
	}
	if n.Negative && v > AbsMinInt64 {
		return n, fmt.Errorf("%q underflows an int64", s)
	}
	n.Value = v
	return n, nil
}

// ParseDecimal returns s interpreted as a decimal64 with the given number
// of fraction digits.  The textual value may not use more fractional digits
// than fracDig.
func ParseDecimal(s string, fracDig uint8) (Number, error) {
	var n Number
	if fracDig < 1 || fracDig > MaxFractionDigits {
		return n, fmt.Errorf("invalid number of fraction digits %d", fracDig)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return n, errors.New("converting empty string to number")
	}
	ns := s
	switch s[0] {
	case '+':
		ns = s[1:]
	case '-':
		n.Negative = true
		ns = s[1:]
	}
	whole := ns
	frac := ""
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		whole, frac = ns[:i], ns[i+1:]
	}
	if whole == "" && frac == "" {
		return n, fmt.Errorf("%q is not a valid decimal", s)
	}
	if len(frac) > int(fracDig) {
		return n, fmt.Errorf("%q has more than %d fraction digits", s, fracDig)
	}
	digits := whole + frac + space18[:int(fracDig)-len(frac)]
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return n, fmt.Errorf("%q is not a valid decimal", s)
	}
	if v > MaxInt64 && !(n.Negative && v == AbsMinInt64) {
		return n, fmt.Errorf("%q overflows a decimal64", s)
	}
	n.Value = v
	n.FractionDigits = fracDig
	return n, nil
}

// YRange is a single range of consecutive numbers, inclusive.
type YRange struct {
	Min Number
	Max Number
}

// Valid returns false if r is not a valid range (min > max).
func (r YRange) Valid() bool {
	return !r.Max.Less(r.Min)
}

// String returns r as a string using YANG notation, either a simple value
// if min == max or min..max.
func (r YRange) String() string {
	if r.Min.Equal(r.Max) {
		return r.Min.String()
	}
	return r.Min.String() + ".." + r.Max.String()
}

// Equal compares whether two YRanges are equal.
func (r YRange) Equal(s YRange) bool {
	return r.Min.Equal(s.Min) && r.Max.Equal(s.Max)
}

// A YangRange is a set of non-overlapping ranges.
type YangRange []YRange

// String returns the ranges r using YANG notation.  Individual ranges are
// separated by pipes (|).
func (r YangRange) String() string {
	s := make([]string, len(r))
	for i, rr := range r {
		s[i] = rr.String()
	}
	return strings.Join(s, "|")
}

func (r YangRange) Len() int      { return len(r) }
func (r YangRange) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r YangRange) Less(i, j int) bool {
	switch {
	case r[i].Min.Less(r[j].Min):
		return true
	case r[j].Min.Less(r[i].Min):
		return false
	default:
		return r[i].Max.Less(r[j].Max)
	}
}

// Sort r.  Must be called before Validate if r was built unsorted.
func (r YangRange) Sort() { sort.Sort(r) }

// Validate returns an error if r has either an invalid range or has
// overlapping ranges.  r is expected to be sorted.
func (r YangRange) Validate() error {
	if !sort.IsSorted(r) {
		return errors.New("range not sorted")
	}
	switch {
	case len(r) == 0:
		return nil
	case !r[0].Valid():
		return errors.New("invalid number")
	}
	p := r[0]
	for _, n := range r[1:] {
		if !n.Valid() {
			return errors.New("invalid number")
		}
		if n.Min.Less(p.Max) {
			return errors.New("overlapping ranges")
		}
		p = n
	}
	return nil
}

// Equal returns true if ranges r and q are identically equivalent.
func (r YangRange) Equal(q YangRange) bool {
	if len(r) != len(q) {
		return false
	}
	for i, rr := range r {
		if !rr.Equal(q[i]) {
			return false
		}
	}
	return true
}

// ContainsValue reports whether n falls inside one of the ranges of r.  An
// empty range set allows every value.
func (r YangRange) ContainsValue(n Number) bool {
	if len(r) == 0 {
		return true
	}
	for _, rr := range r {
		if !n.Less(rr.Min) && !rr.Max.Less(n) {
			return true
		}
	}
	return false
}

// ParseRangesInt parses a YANG range expression ("1..10|100..200") of
// integers into a YangRange.
func ParseRangesInt(s string) (YangRange, error) {
	return parseRanges(s, ParseInt)
}

// ParseRangesDecimal parses a YANG range expression of decimal64 numbers
// with the given fraction digits into a YangRange.
func ParseRangesDecimal(s string, fracDig uint8) (YangRange, error) {
	return parseRanges(s, func(v string) (Number, error) { return ParseDecimal(v, fracDig) })
}

func parseRanges(s string, parse func(string) (Number, error)) (YangRange, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var r YangRange
	for _, part := range strings.Split(s, "|") {
		var y YRange
		var err error
		if i := strings.Index(part, ".."); i >= 0 {
			if y.Min, err = parse(part[:i]); err != nil {
				return nil, err
			}
			if y.Max, err = parse(part[i+2:]); err != nil {
				return nil, err
			}
		} else {
			if y.Min, err = parse(part); err != nil {
				return nil, err
			}
			y.Max = y.Min
		}
		if !y.Valid() {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		r = append(r, y)
	}
	r.Sort()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
