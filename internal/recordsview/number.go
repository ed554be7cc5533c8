package recordsview

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// en-GB groups thousands with commas: 281992 -> 281,992.
var printer = message.NewPrinter(language.BritishEnglish)

// ToNumber coerces any value into a finite number. It never fails:
// nil, non-numeric and non-finite inputs all become 0.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		return parseNumeric(x.String())
	case string:
		return parseNumeric(x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return parseNumeric(rv.String())
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return finite(f)
}

// parseNumeric strips thousands separators and surrounding whitespace.
// Blank input is 0.
func parseNumeric(s string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0
	}

	if len(cleaned) > 2 && cleaned[0] == '0' {
		switch cleaned[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			n, err := strconv.ParseUint(cleaned, 0, 64)
			if err != nil {
				return 0
			}
			return float64(n)
		}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FmtInt renders v as a grouped integer string, e.g. "281,992". nil renders as "0".
func FmtInt(v any) string {
	n := math.Round(ToNumber(v))
	if n == 0 {
		// folds -0
		return "0"
	}
	if n >= math.MinInt64 && n < math.MaxInt64 {
		return printer.Sprintf("%d", int64(n))
	}
	return printer.Sprintf("%.0f", n)
}
