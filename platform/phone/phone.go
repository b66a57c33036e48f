// Package phone provides phone number normalization and matching.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strconv"
	"strings"

	"phonefinder/platform/apperr"

	"github.com/nyaruka/phonenumbers"
)

// MinDigits is the minimum digit count a number must carry after stripping
// formatting characters.
const MinDigits = 7

// ErrInvalidNumber is returned when a raw input cannot be normalized into a
// comparable phone number.
var ErrInvalidNumber = apperr.Validation("invalid phone number format")

// Number is a normalized phone number. Digits is the canonical digits-only
// form used for matching; E164 is set when the number parses against its
// region hint.
type Number struct {
	Raw    string
	Digits string
	E164   string
	Region string
}

// Normalize canonicalizes a raw phone number string. All non-digit characters
// except a leading '+' are stripped. When a region hint is supplied and the
// number carries no country code, the region's calling code is prepended
// through E.164 formatting. Normalization is idempotent: normalizing an
// already-normalized number yields an equal value.
func Normalize(raw, region string) (Number, error) {
	stripped := stripFormatting(raw)
	digits := strings.TrimPrefix(stripped, "+")
	if len(digits) < MinDigits {
		return Number{}, ErrInvalidNumber
	}

	num := Number{
		Raw:    raw,
		Digits: digits,
		Region: strings.ToUpper(strings.TrimSpace(region)),
	}

	// Formatting is attempted even for numbers libphonenumber considers
	// invalid; downstream matching works on the digit form either way.
	if parsed, err := phonenumbers.Parse(stripped, num.Region); err == nil {
		num.E164 = phonenumbers.Format(parsed, phonenumbers.E164)
		num.Digits = strings.TrimPrefix(num.E164, "+")
	}

	return num, nil
}

// Matches reports whether two normalized numbers identify the same line.
// Beyond exact digit equality, a number that includes a country code matches
// one that omits it when stripping that calling code yields the same digits.
// The tolerated prefix must be the calling code of either side's region, so
// this is an explicit policy, not incidental string comparison.
func Matches(a, b Number) bool {
	if a.Digits == "" || b.Digits == "" {
		return false
	}
	if a.Digits == b.Digits {
		return true
	}
	return matchesWithoutCallingCode(a, b) || matchesWithoutCallingCode(b, a)
}

// matchesWithoutCallingCode treats full as the side carrying a country code
// and short as the side omitting it.
func matchesWithoutCallingCode(full, short Number) bool {
	if len(full.Digits) <= len(short.Digits) {
		return false
	}
	for _, code := range []string{full.CallingCode(), short.CallingCode()} {
		if code != "" && full.Digits == code+short.Digits {
			return true
		}
	}
	return false
}

// CallingCode returns the country calling code of the number, preferring the
// parsed E.164 form and falling back to the region hint. Empty when neither
// is available.
func (n Number) CallingCode() string {
	if n.E164 != "" {
		if parsed, err := phonenumbers.Parse(n.E164, ""); err == nil {
			return strconv.Itoa(int(parsed.GetCountryCode()))
		}
	}
	if n.Region != "" {
		if code := phonenumbers.GetCountryCodeForRegion(n.Region); code != 0 {
			return strconv.Itoa(code)
		}
	}
	return ""
}

// Info is free metadata about a number, derived entirely from the library's
// embedded phonenumbers data. No network call is involved.
type Info struct {
	Valid       bool
	Possible    bool
	Region      string
	Description string
	Carrier     string
	LineType    string
	Timezones   []string
}

// Describe derives offline metadata for a normalized number: validity,
// region, geographic description, carrier, line type, and timezones. It
// fails only when the number cannot be parsed at all.
func Describe(num Number) (Info, error) {
	parsed, err := phonenumbers.Parse(num.String(), num.Region)
	if err != nil {
		return Info{}, ErrInvalidNumber
	}

	info := Info{
		Valid:    phonenumbers.IsValidNumber(parsed),
		Possible: phonenumbers.IsPossibleNumber(parsed),
		Region:   phonenumbers.GetRegionCodeForNumber(parsed),
		LineType: lineTypeName(phonenumbers.GetNumberType(parsed)),
	}
	if desc, err := phonenumbers.GetGeocodingForNumber(parsed, "en"); err == nil {
		info.Description = desc
	}
	if carrier, err := phonenumbers.GetCarrierForNumber(parsed, "en"); err == nil {
		info.Carrier = carrier
	}
	if tzs, err := phonenumbers.GetTimezonesForNumber(parsed); err == nil {
		info.Timezones = tzs
	}

	return info, nil
}

func lineTypeName(t phonenumbers.PhoneNumberType) string {
	switch t {
	case phonenumbers.FIXED_LINE:
		return "FIXED_LINE"
	case phonenumbers.MOBILE:
		return "MOBILE"
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return "FIXED_LINE_OR_MOBILE"
	case phonenumbers.TOLL_FREE:
		return "TOLL_FREE"
	case phonenumbers.PREMIUM_RATE:
		return "PREMIUM_RATE"
	case phonenumbers.SHARED_COST:
		return "SHARED_COST"
	case phonenumbers.VOIP:
		return "VOIP"
	case phonenumbers.PERSONAL_NUMBER:
		return "PERSONAL_NUMBER"
	case phonenumbers.PAGER:
		return "PAGER"
	case phonenumbers.UAN:
		return "UAN"
	case phonenumbers.VOICEMAIL:
		return "VOICEMAIL"
	default:
		return "UNKNOWN"
	}
}

// String returns the most specific representation available.
func (n Number) String() string {
	if n.E164 != "" {
		return n.E164
	}
	return n.Digits
}

// stripFormatting removes every character except digits and a leading '+'.
func stripFormatting(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
