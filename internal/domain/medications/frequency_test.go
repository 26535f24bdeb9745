package medications

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFrequency_AcceptsKnownCodes(t *testing.T) {
	for _, code := range []string{
		"daily", "twice_daily", "three_times_daily", "four_times_daily",
		"weekly", "biweekly", "monthly",
	} {
		if _, err := ParseFrequency(code); err != nil {
			t.Fatalf("ParseFrequency(%q) error: %v", code, err)
		}
	}

	// case-insensitive + trim
	f, err := ParseFrequency("  Daily ")
	if err != nil {
		t.Fatalf("ParseFrequency error: %v", err)
	}
	if f != FrequencyDaily {
		t.Fatalf("expected daily, got %s", f)
	}
}

func TestParseFrequency_RejectsUnknown(t *testing.T) {
	if _, err := ParseFrequency("hourly"); err == nil {
		t.Fatalf("expected error for unknown frequency")
	}
	if _, err := ParseFrequency(""); err == nil {
		t.Fatalf("expected error for empty frequency")
	}
}

func TestDueOn_Daily_WindowBounds(t *testing.T) {
	start := date(2024, 3, 10)
	end := date(2024, 3, 12)

	cases := []struct {
		day  time.Time
		want bool
	}{
		{date(2024, 3, 9), false}, // antes del start
		{date(2024, 3, 10), true}, // start inclusive
		{date(2024, 3, 11), true},
		{date(2024, 3, 12), true},  // end inclusive
		{date(2024, 3, 13), false}, // después del end
	}

	for _, c := range cases {
		got := FrequencyDaily.DueOn(start, &end, c.day)
		if got != c.want {
			t.Fatalf("DueOn(daily, %s) = %v, want %v", c.day.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestDueOn_Weekly_EverySeventhDay(t *testing.T) {
	start := date(2024, 3, 4) // lunes

	for i := 0; i < 30; i++ {
		day := start.AddDate(0, 0, i)
		want := i%7 == 0
		if got := FrequencyWeekly.DueOn(start, nil, day); got != want {
			t.Fatalf("DueOn(weekly, +%d days) = %v, want %v", i, got, want)
		}
	}
}

func TestDueOn_Biweekly_EveryFourteenthDay(t *testing.T) {
	start := date(2024, 3, 4)

	for i := 0; i < 45; i++ {
		day := start.AddDate(0, 0, i)
		want := i%14 == 0
		if got := FrequencyBiweekly.DueOn(start, nil, day); got != want {
			t.Fatalf("DueOn(biweekly, +%d days) = %v, want %v", i, got, want)
		}
	}
}

func TestDueOn_Monthly_SameDayOfMonth(t *testing.T) {
	start := date(2024, 1, 15)

	if !FrequencyMonthly.DueOn(start, nil, date(2024, 2, 15)) {
		t.Fatalf("expected due on feb 15")
	}
	if !FrequencyMonthly.DueOn(start, nil, date(2024, 3, 15)) {
		t.Fatalf("expected due on mar 15")
	}
	if FrequencyMonthly.DueOn(start, nil, date(2024, 2, 14)) {
		t.Fatalf("not due on feb 14")
	}
	if FrequencyMonthly.DueOn(start, nil, date(2024, 2, 16)) {
		t.Fatalf("not due on feb 16")
	}
}

func TestDueOn_Monthly_ClampsToShorterMonths(t *testing.T) {
	// Inicio el 31: en meses cortos la toma cae en el último día.
	start := date(2024, 1, 31)

	if !FrequencyMonthly.DueOn(start, nil, date(2024, 2, 29)) { // bisiesto
		t.Fatalf("expected due on feb 29 (leap year clamp)")
	}
	if FrequencyMonthly.DueOn(start, nil, date(2024, 2, 28)) {
		t.Fatalf("not due on feb 28 when feb has 29 days")
	}
	if !FrequencyMonthly.DueOn(start, nil, date(2024, 4, 30)) {
		t.Fatalf("expected due on apr 30 (clamp)")
	}
	if !FrequencyMonthly.DueOn(start, nil, date(2024, 3, 31)) {
		t.Fatalf("expected due on mar 31 (no clamp needed)")
	}
	if !FrequencyMonthly.DueOn(start, nil, date(2025, 2, 28)) { // no bisiesto
		t.Fatalf("expected due on feb 28 2025 (clamp)")
	}
}

func TestDueOn_UnknownFrequency_AlwaysFalse(t *testing.T) {
	start := date(2024, 3, 10)
	if Frequency("hourly").DueOn(start, nil, start) {
		t.Fatalf("unknown frequency must never be due")
	}
}

func TestDueOn_Deterministic_IgnoresTimeComponent(t *testing.T) {
	// Un instante con hora se evalúa igual que su fecha calendario.
	start := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	day := time.Date(2024, 3, 17, 0, 1, 0, 0, time.UTC)

	if !FrequencyWeekly.DueOn(start, nil, day) {
		t.Fatalf("expected due: dates normalize to calendar days")
	}
}

func TestDosesPerDay(t *testing.T) {
	cases := map[Frequency]int{
		FrequencyDaily:           1,
		FrequencyTwiceDaily:      2,
		FrequencyThreeTimesDaily: 3,
		FrequencyFourTimesDaily:  4,
		FrequencyWeekly:          1,
		FrequencyBiweekly:        1,
		FrequencyMonthly:         1,
	}
	for f, want := range cases {
		if got := f.DosesPerDay(); got != want {
			t.Fatalf("DosesPerDay(%s) = %d, want %d", f, got, want)
		}
	}
}
