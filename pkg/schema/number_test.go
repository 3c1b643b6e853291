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

import (
	"testing"

	"github.com/openconfig/gnmi/errdiff"
)

func TestParseInt(t *testing.T) {
	for x, tt := range []struct {
		in   string
		want Number
		err  string
	}{
		{in: "0", want: FromInt(0)},
		{in: "42", want: FromInt(42)},
		{in: "+42", want: FromInt(42)},
		{in: "-42", want: FromInt(-42)},
		{in: " 7 ", want: FromInt(7)},
		{in: "-9223372036854775808", want: FromInt(MinInt64)},
		{in: "9223372036854775807", want: FromInt(MaxInt64)},
		{in: "18446744073709551615", want: FromUint(18446744073709551615)},
		{in: "", err: "empty string"},
		{in: "-", err: "sign with no value"},
		{in: "12x", err: "not a valid integer"},
		{in: "1.5", err: "not a valid integer"},
		{in: "18446744073709551616", err: "not a valid integer"},
	} {
		got, err := ParseInt(tt.in)
		if diff := errdiff.Substring(err, tt.err); diff != "" {
			t.Errorf("#%d (%q): %s", x, tt.in, diff)
			continue
		}
		if err == nil && !got.Equal(tt.want) {
			t.Errorf("#%d (%q): got %s, want %s", x, tt.in, got, tt.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	for x, tt := range []struct {
		in   string
		fd   uint8
		want string
		err  string
	}{
		{in: "3.14", fd: 2, want: "3.14"},
		{in: "3.1", fd: 2, want: "3.10"},
		{in: "3", fd: 2, want: "3.00"},
		{in: "-3.14", fd: 2, want: "-3.14"},
		{in: "0.1", fd: 1, want: "0.1"},
		{in: ".5", fd: 1, want: "0.5"},
		{in: "3.141", fd: 2, err: "more than 2 fraction digits"},
		{in: "", fd: 2, err: "empty string"},
		{in: "x", fd: 2, err: "not a valid decimal"},
		{in: "1", fd: 0, err: "fraction digits"},
		{in: "1", fd: 19, err: "fraction digits"},
	} {
		got, err := ParseDecimal(tt.in, tt.fd)
		if diff := errdiff.Substring(err, tt.err); diff != "" {
			t.Errorf("#%d (%q): %s", x, tt.in, diff)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("#%d (%q): got %s, want %s", x, tt.in, got, tt.want)
		}
	}
}

func TestNumberLess(t *testing.T) {
	for x, tt := range []struct {
		n, m Number
		want bool
	}{
		{FromInt(1), FromInt(2), true},
		{FromInt(2), FromInt(1), false},
		{FromInt(-2), FromInt(-1), true},
		{FromInt(-1), FromInt(1), true},
		{FromInt(1), FromInt(1), false},
		{mustDecimal(t, "1.5", 1), mustDecimal(t, "1.6", 1), true},
		{mustDecimal(t, "-1.5", 1), mustDecimal(t, "1.5", 1), true},
		{mustDecimal(t, "1.50", 2), mustDecimal(t, "1.5", 1), false},
	} {
		if got := tt.n.Less(tt.m); got != tt.want {
			t.Errorf("#%d: %s < %s: got %v, want %v", x, tt.n, tt.m, got, tt.want)
		}
	}
}

func mustDecimal(t *testing.T, s string, fd uint8) Number {
	t.Helper()
	n, err := ParseDecimal(s, fd)
	if err != nil {
		t.Fatalf("ParseDecimal(%q, %d): %v", s, fd, err)
	}
	return n
}

func TestRangeContainsValue(t *testing.T) {
	r, err := ParseRangesInt("1..10|100..200")
	if err != nil {
		t.Fatal(err)
	}
	for x, tt := range []struct {
		in   int64
		want bool
	}{
		{1, true},
		{10, true},
		{11, false},
		{99, false},
		{100, true},
		{200, true},
		{201, false},
		{-5, false},
	} {
		if got := r.ContainsValue(FromInt(tt.in)); got != tt.want {
			t.Errorf("#%d: ContainsValue(%d): got %v, want %v", x, tt.in, got, tt.want)
		}
	}
	var empty YangRange
	if !empty.ContainsValue(FromInt(12345)) {
		t.Error("empty range must contain every value")
	}
}

func TestParseRanges(t *testing.T) {
	for x, tt := range []struct {
		in   string
		want string
		err  string
	}{
		{in: "1..10", want: "1..10"},
		{in: "1..10|20..30", want: "1..10|20..30"},
		{in: "5", want: "5"},
		{in: "20..30|1..10", want: "1..10|20..30"}, // sorted
		{in: "10..1", err: "invalid range"},
		{in: "1..x", err: "not a valid integer"},
		{in: "1..10|5..20", err: "overlapping"},
	} {
		got, err := ParseRangesInt(tt.in)
		if diff := errdiff.Substring(err, tt.err); diff != "" {
			t.Errorf("#%d (%q): %s", x, tt.in, diff)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("#%d (%q): got %s, want %s", x, tt.in, got, tt.want)
		}
	}
}

func TestBuiltinRanges(t *testing.T) {
	for x, tt := range []struct {
		kind TypeKind
		in   string
		want bool
	}{
		{Yint8, "-128", true},
		{Yint8, "-129", false},
		{Yint8, "127", true},
		{Yint8, "128", false},
		{Yuint8, "255", true},
		{Yuint8, "256", false},
		{Yuint64, "18446744073709551615", true},
		{Yint64, "-9223372036854775808", true},
	} {
		n, err := ParseInt(tt.in)
		if err != nil {
			t.Errorf("#%d: ParseInt(%q): %v", x, tt.in, err)
			continue
		}
		if got := tt.kind.BuiltinRange().ContainsValue(n); got != tt.want {
			t.Errorf("#%d: %s in %s: got %v, want %v", x, tt.in, tt.kind, got, tt.want)
		}
	}
}
