package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/service"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12.34", want: 12.34},
		{input: " 12,34 ", want: 12.34},
		{input: "1000", want: 1000},
		{input: "-5", want: -5},
		{input: "0.1", want: 0.1},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1,000.50", wantErr: true},
		{input: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, entity.ErrInvalidArgument), "error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.00", FormatAmount(12))
	assert.Equal(t, "0.30", FormatAmount(0.1+0.2))
	assert.Equal(t, "-50.00", FormatAmount(-50))
	assert.Equal(t, "+1.50", FormatSigned(entity.Entry{Amount: 1.5, IsIncome: true}))
	assert.Equal(t, "-1.50", FormatSigned(entity.Entry{Amount: 1.5}))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024.01.31 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local), got)
	assert.Equal(t, "2024.01.31 23:59:59", FormatTime(got))

	zero, err := ParseTime("  ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	for _, input := range []string{"2024-01-31", "2024/01/31"} {
		day, err := ParseTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local), day, input)
	}

	_, err = ParseTime("not a date")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestParseEndTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "plain date covers the day", input: "2024-01-31", want: time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.Local)},
		{name: "slash date covers the day", input: "2024/01/31", want: time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.Local)},
		{name: "full timestamp is exact", input: "2024.01.31 10:00:00", want: time.Date(2024, 1, 31, 10, 0, 0, 0, time.Local)},
		{name: "midnight timestamp is exact", input: "2024.01.31 00:00:00", want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
		{name: "empty is open", input: "", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEndTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "ParseEndTime(%q) = %v, want %v", tt.input, got, tt.want)
		})
	}

	noon := time.Date(2024, 1, 31, 12, 0, 0, 0, time.Local)
	end, err := ParseEndTime("2024-01-31")
	require.NoError(t, err)
	assert.False(t, noon.After(end), "an entry at noon falls inside a period ending 2024-01-31")

	_, err = ParseEndTime("not a date")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ColorEnabled(&buf, ColorAlways))
	assert.False(t, ColorEnabled(&buf, ColorNever))
	assert.False(t, ColorEnabled(&buf, ColorAuto), "a buffer is not a terminal")
}

func TestPrinter_Summary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ColorNever)

	p.Summary(&usecase.Summary{
		Username:             "alice",
		TotalIncome:          100,
		TotalOutcome:         150,
		Balance:              -50,
		OutcomeExceedsIncome: true,
		OutcomeByCategory:    service.CategoryTotals{{Category: "food", Amount: 150}},
		Budgets: []service.BudgetStatus{
			{Category: "food", Limit: 120, Spent: 150, Remaining: -30, Over: true, Alert: true},
			{Category: "rent", Limit: 0, Exhausted: true},
		},
		AlertPercent: 80,
	})

	out := buf.String()
	assert.Contains(t, out, "STATISTICS: alice")
	assert.Contains(t, out, "-50.00")
	assert.Contains(t, out, "outcome exceeds income")
	assert.Contains(t, out, `budget for "food" exceeded by 30.00`)
	assert.Contains(t, out, `budget for "rent" exhausted`)
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestPrinter_Entries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ColorNever)

	p.Entries(nil)
	assert.Contains(t, buf.String(), "No entries.")

	buf.Reset()
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local)
	p.Entries([]entity.Entry{
		{Amount: 10, Category: "salary", IsIncome: true, Timestamp: ts},
		{Amount: 2.5, Category: "coffee", Timestamp: ts},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "2 "), "line %q", last)
	assert.Contains(t, last, "-2.50")
	assert.Contains(t, last, "2024.02.03 04:05:06")
}

func TestPrinter_ColorsWhenForced(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ColorAlways).Error("boom")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Error: boom")
}
