package coach

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var extendedNumberKeys = []string{"$numberDecimal", "$numberInt", "$numberLong"}

// ToNumber reads plain numbers, numeric strings and extended JSON wrappers
// such as {"$numberDecimal": "12.5"}.
func ToNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		return parseFloat(v.Str)
	case gjson.JSON:
		if !v.IsObject() {
			return 0, false
		}
		for _, key := range extendedNumberKeys {
			w := v.Get(key)
			if w.Type == gjson.String {
				return parseFloat(w.Str)
			}
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// fmt1 prints a value with one decimal place.
func fmt1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
