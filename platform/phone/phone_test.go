package phone

import (
	"errors"
	"testing"
)

func TestNormalizeStripsFormatting(t *testing.T) {
	num, err := Normalize("+1 (415) 555-2671", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.Digits != "14155552671" {
		t.Fatalf("expected digits 14155552671, got %s", num.Digits)
	}
	if num.E164 != "+14155552671" {
		t.Fatalf("expected E.164 +14155552671, got %s", num.E164)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize("+1 415-555-2671", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize(first.E164, "US")
	if err != nil {
		t.Fatalf("unexpected error on renormalize: %v", err)
	}
	if first.Digits != second.Digits || first.E164 != second.E164 {
		t.Fatalf("normalization not idempotent: %+v vs %+v", first, second)
	}
}

func TestNormalizeRegionHintAddsCallingCode(t *testing.T) {
	num, err := Normalize("4155552671", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.E164 != "+14155552671" {
		t.Fatalf("expected region hint to add calling code, got %s", num.E164)
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	for _, raw := range []string{"", "abc", "12345", "++--"} {
		if _, err := Normalize(raw, "US"); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("expected ErrInvalidNumber for %q, got %v", raw, err)
		}
	}
}

func TestNormalizeWithoutRegion(t *testing.T) {
	num, err := Normalize("4155552671", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num.E164 != "" {
		t.Fatalf("expected no E.164 form without region or country code, got %s", num.E164)
	}
	if num.Digits != "4155552671" {
		t.Fatalf("expected bare digits to survive, got %s", num.Digits)
	}
}

func TestDescribeValidNumber(t *testing.T) {
	num, err := Normalize("+14155552671", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := Describe(num)
	if err != nil {
		t.Fatalf("unexpected describe error: %v", err)
	}
	if !info.Valid || !info.Possible {
		t.Fatalf("expected a valid, possible number, got %+v", info)
	}
	if info.Region != "US" {
		t.Fatalf("expected region US, got %s", info.Region)
	}
	if info.LineType != "FIXED_LINE_OR_MOBILE" {
		t.Fatalf("expected FIXED_LINE_OR_MOBILE, got %s", info.LineType)
	}
	if len(info.Timezones) == 0 {
		t.Fatal("expected at least one timezone for a US number")
	}
}

func TestDescribeUnparsableNumber(t *testing.T) {
	if _, err := Describe(Number{Digits: "1234567"}); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber for number without region or country code, got %v", err)
	}
}

func TestMatchesExactDigits(t *testing.T) {
	a, _ := Normalize("+14155552671", "")
	b, _ := Normalize("+1 415 555 2671", "US")
	if !Matches(a, b) {
		t.Fatal("identical numbers should match")
	}
}

func TestMatchesStripsCallingCode(t *testing.T) {
	full, err := Normalize("+14155552671", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	short := Number{Digits: "4155552671", Region: "US"}
	if !Matches(full, short) {
		t.Fatal("full international number should match local number of the same region")
	}
	if !Matches(short, full) {
		t.Fatal("matching must hold regardless of argument order")
	}
}

func TestMatchesRejectsDifferentNumbers(t *testing.T) {
	a, _ := Normalize("+14155552671", "")
	b, _ := Normalize("+442079460958", "")
	if Matches(a, b) {
		t.Fatal("different numbers must not match")
	}
	short := Number{Digits: "2079460958", Region: "GB"}
	if Matches(a, short) {
		t.Fatal("local number of a different region must not match")
	}
}

func TestMatchesEmptyNever(t *testing.T) {
	a, _ := Normalize("+14155552671", "")
	if Matches(a, Number{}) {
		t.Fatal("empty number must never match")
	}
}
