// Package render turns ledger data into terminal text.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"

	"fintrack.com/internal/domain/entity"
)

// TimeLayout is the date format used for display and for range filters
const TimeLayout = "2006.01.02 15:04:05"

// FormatAmount rounds to two decimals for display only
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprint(amount)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatSigned prefixes an entry amount with + for income and - for outcome
func FormatSigned(e entity.Entry) string {
	if e.IsIncome {
		return "+" + FormatAmount(e.Amount)
	}
	return "-" + FormatAmount(e.Amount)
}

// ParseAmount reads a decimal amount; a comma is accepted as decimal separator
func ParseAmount(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || s == "" {
		return 0, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidArgument, input)
	}
	return d.InexactFloat64(), nil
}

// ParseTime reads a timestamp in the local zone. TimeLayout is tried first,
// then the common date layouts godate recognises (2024-01-31, 2024/01/31, ...).
// Empty input yields the zero time.
func ParseTime(input string) (time.Time, error) {
	t, _, err := parseTime(input)
	return t, err
}

// ParseEndTime is ParseTime for the upper bound of a period: a plain date
// covers the whole day up to its last nanosecond.
func ParseEndTime(input string) (time.Time, error) {
	t, dateOnly, err := parseTime(input)
	if err != nil || !dateOnly {
		return t, err
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func parseTime(input string) (time.Time, bool, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return t, false, nil
	}
	t, layout, err := date.ParseAndGetLayout(s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q is not a date, use %s", entity.ErrInvalidArgument, input, "yyyy.MM.dd HH:mm:ss")
	}
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
	midnight := t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
	return local, midnight && !strings.Contains(layout, ":"), nil
}

// FormatTime renders a timestamp with TimeLayout in the local zone
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}
