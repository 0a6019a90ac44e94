package dosage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDosesPerDay_DashPatterns(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"1-0-1", 2},
		{"1-1-1", 3},
		{"0-0-1", 1},
		{"1/2-0-1/2", 1},
		{"1/2-1/2-1/2", 1.5},
		{"2-2-2-2", 8},
		{"1", 1},
		{"1/2", 0.5},
		{"1/0", 0},
		{"0-0-0", 0},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, ParseDosesPerDay(tc.input), 1e-9, "input %q", tc.input)
	}
}

func TestParseDosesPerDay_NamedFrequencies(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"Once daily", 1},
		{"OD", 1},
		{"twice daily", 2},
		{"BD", 2},
		{"bid", 2},
		{"Three times daily", 3},
		{"TDS", 3},
		{"TID", 3},
		{"four times daily", 4},
		{"QID", 4},
		{"every 8 hours", 3},
		{"Every 12 Hours", 2},
		{"weekly", 1.0 / 7.0},
		{"SOS", 1},
		{"stat", 1},
		{"HS", 1},
		{"QOD", 0.5},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, ParseDosesPerDay(tc.input), 1e-9, "input %q", tc.input)
	}
}

func TestParseDosesPerDay_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{"", "   ", "abc", "1-x-1", "-", "--", "once", "1..5", "every 7 hours", "½-0-½", "1 - 0 - 1"}

	for _, input := range inputs {
		assert.NotPanics(t, func() { ParseDosesPerDay(input) }, "input %q", input)
	}

	assert.Equal(t, 0.0, ParseDosesPerDay("xyz"))
	assert.Equal(t, 0.0, ParseDosesPerDay(""))
	assert.Equal(t, 0.0, ParseDosesPerDay("1-x-1"))
}

func TestParseDosesPerDay_DashPatternWithSpaces(t *testing.T) {
	assert.InDelta(t, 2.0, ParseDosesPerDay("1 - 0 - 1"), 1e-9)
}

func TestParseDurationDays(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"3-5 days", 5},
		{"1-2 weeks", 14},
		{"5 days", 5},
		{"5 day", 5},
		{"2 weeks", 14},
		{"1 week", 7},
		{"1 month", 30},
		{"2 months", 60},
		{"7", 7},
		{"10", 10},
		{"xyz", 0},
		{"", 0},
		{"days", 0},
		{"-5 days", 0},
		{"5 fortnights", 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseDurationDays(tc.input), "input %q", tc.input)
	}
}

func TestCalculateQuantity(t *testing.T) {
	testCases := []struct {
		frequency string
		duration  string
		expected  int
	}{
		{"1-0-1", "5 days", 10},
		{"1-1-1", "7 days", 21},
		{"1/2-0-1/2", "5 days", 5},
		{"1/2-1/2-1/2", "3 days", 5}, // 1.5 * 3 = 4.5, rounded up
		{"weekly", "1 month", 5},     // 30/7 rounded up
		{"0-0-0", "5 days", 0},
		{"1-0-1", "garbage", 0},
		{"garbage", "5 days", 0},
		{"", "", 0},
	}

	for _, tc := range testCases {
		got := CalculateQuantity(tc.frequency, tc.duration)
		assert.Equal(t, tc.expected, got, "frequency %q duration %q", tc.frequency, tc.duration)
		assert.GreaterOrEqual(t, got, 0)
	}
}

func TestCalculateTaperedQuantity(t *testing.T) {
	steps := []Step{
		{StepNumber: 1, Dose: "10mg", Frequency: "Once daily", DurationDays: 5},
		{StepNumber: 2, Dose: "5mg", Frequency: "Once daily", DurationDays: 5},
	}

	assert.Equal(t, 10, CalculateTaperedQuantity(steps))
}

func TestCalculateTaperedQuantity_SkipsUnparseableSteps(t *testing.T) {
	steps := []Step{
		{StepNumber: 1, Dose: "10mg", Frequency: "1-0-1", DurationDays: 3},
		{StepNumber: 2, Dose: "5mg", Frequency: "whenever", DurationDays: 3},
		{StepNumber: 3, Dose: "5mg", Frequency: "OD", DurationDays: 0},
	}

	assert.Equal(t, 6, CalculateTaperedQuantity(steps))
}

func TestCalculateTaperedQuantity_Empty(t *testing.T) {
	assert.Equal(t, 0, CalculateTaperedQuantity(nil))
}

func TestScheduleNarrative_PreservesStepOrder(t *testing.T) {
	steps := []Step{
		{StepNumber: 1, Dose: "10mg", Frequency: "Once daily", DurationDays: 5},
		{StepNumber: 2, Dose: "5mg", Frequency: "Once daily", DurationDays: 5},
		{StepNumber: 3, Dose: "2.5mg", Frequency: "Once daily", DurationDays: 1},
	}

	narrative := ScheduleNarrative(steps)
	assert.Equal(t, "10mg Once daily for 5 days, Then 5mg Once daily for 5 days, Then 2.5mg Once daily for 1 day", narrative)
}

func TestScheduleNarrative_Empty(t *testing.T) {
	assert.Equal(t, "", ScheduleNarrative(nil))
}
