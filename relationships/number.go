package relationships

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/unicode/norm"
)

// DefaultLocale is the locale the bundled tables are written in.
const DefaultLocale = "en-CA"

const defaultFractionDigits = 2

// separatorSample is formatted once per locale to read back its separators.
const separatorSample = 1234567.5

// unitSuffixes are the unit markers a raw value may end with, longest first.
var unitSuffixes = []struct {
	text string
	unit Unit
}{
	{"centimorgans", UnitCM},
	{"centimorgan", UnitCM},
	{"cm", UnitCM},
	{"%", UnitPercent},
}

// NumberFormat parses and formats numbers for one locale. It is immutable and safe
// for concurrent use.
type NumberFormat struct {
	tag            language.Tag
	printer        *message.Printer
	decimal        string
	group          string
	fractionDigits int
}

// NewNumberFormat builds a NumberFormat for a BCP 47 locale such as "en-CA" or "de-DE".
// fractionDigits bounds the digits Format prints after the separator; values below
// zero select the default of 2.
func NewNumberFormat(locale string, fractionDigits int) (*NumberFormat, error) {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	if fractionDigits < 0 {
		fractionDigits = defaultFractionDigits
	}
	p := message.NewPrinter(tag)
	decimal, group := separatorsFrom(p.Sprint(number.Decimal(separatorSample, number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	return &NumberFormat{
		tag:            tag,
		printer:        p,
		decimal:        decimal,
		group:          group,
		fractionDigits: fractionDigits,
	}, nil
}

// MustNumberFormat is NewNumberFormat for constant locales.
func MustNumberFormat(locale string) *NumberFormat {
	nf, err := NewNumberFormat(locale, defaultFractionDigits)
	if err != nil {
		panic(err)
	}
	return nf
}

// separatorsFrom reads the separators out of the formatted sample: the last run of
// non-digits is the decimal separator, the first of several runs is the grouping one.
// Locales that do not print ASCII digits fall back to "." and ",".
func separatorsFrom(sample string) (decimal, group string) {
	sample = norm.NFKC.String(sample)
	var runs []string
	var cur strings.Builder
	digits := 0
	for _, r := range sample {
		if r >= '0' && r <= '9' {
			digits++
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if digits != 8 || len(runs) == 0 {
		return ".", ","
	}
	decimal = runs[len(runs)-1]
	if len(runs) > 1 {
		group = runs[0]
	}
	return decimal, group
}

// Locale returns the locale tag.
func (nf *NumberFormat) Locale() language.Tag {
	return nf.tag
}

// DecimalSeparator returns the locale's decimal separator after NFKC folding.
func (nf *NumberFormat) DecimalSeparator() string {
	return nf.decimal
}

// Parse converts locale-formatted text to a float. Compatibility characters such as
// full-width digits are folded, whitespace and grouping separators are dropped and a
// trailing "cM" or "%" is ignored. Only an optional sign, digits and one decimal
// separator are accepted; exponents and hex notation are not.
func (nf *NumberFormat) Parse(raw string) (float64, error) {
	cleaned, _ := nf.clean(raw)
	return parseDecimal(cleaned, raw)
}

// ParseIn is Parse for a value entered in unit. A trailing unit marker that names
// the other unit, such as "50%" entered as centimorgans, is rejected.
func (nf *NumberFormat) ParseIn(raw string, unit Unit) (float64, error) {
	cleaned, suffix := nf.clean(raw)
	if suffix != "" && suffix != unit {
		return 0, fmt.Errorf("%w: %q is a %s value, not %s", ErrInvalidInput, strings.TrimSpace(raw), suffix, unit)
	}
	return parseDecimal(cleaned, raw)
}

// ParseInt parses an integer field using the same cleaning rules as Parse.
func (nf *NumberFormat) ParseInt(raw string) (int, error) {
	cleaned, _ := nf.clean(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidInput)
	}
	if !isPlainNumber(cleaned, false) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, strings.TrimSpace(raw))
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, strings.TrimSpace(raw))
	}
	return v, nil
}

func parseDecimal(cleaned, raw string) (float64, error) {
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidInput)
	}
	if !isPlainNumber(cleaned, true) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, strings.TrimSpace(raw))
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, strings.TrimSpace(raw))
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidInput, strings.TrimSpace(raw))
	}
	return v, nil
}

// isPlainNumber reports whether s is an optional sign followed by ASCII digits with
// at most one '.' (when fraction is set) and at least one digit.
func isPlainNumber(s string, fraction bool) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && fraction:
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// clean folds raw into strconv syntax and returns the unit named by a trailing
// marker, or "" when there is none.
func (nf *NumberFormat) clean(raw string) (string, Unit) {
	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	var suffix Unit
	lower := strings.ToLower(s)
	for _, us := range unitSuffixes {
		if strings.HasSuffix(lower, us.text) {
			s = s[:len(s)-len(us.text)]
			suffix = us.unit
			break
		}
	}
	if nf.group != "" && strings.TrimSpace(nf.group) != "" {
		s = strings.ReplaceAll(s, nf.group, "")
	}
	if nf.decimal != "." {
		s = strings.ReplaceAll(s, nf.decimal, ".")
	}
	return s, suffix
}

// Format renders v with at most the configured number of fraction digits.
func (nf *NumberFormat) Format(v float64) string {
	return nf.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(nf.fractionDigits)))
}
