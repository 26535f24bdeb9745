package medications

import (
	"testing"
	"time"
)

func testMedication(freq Frequency, start time.Time, end *time.Time) Medication {
	return Medication{
		ID:          "med-1",
		OwnerUserID: "user-1",
		Name:        "Lisinopril",
		Dosage:      "10mg",
		Frequency:   freq,
		TimeOfDay:   TimeOfDay{Hour: 8, Minute: 0},
		StartDate:   start,
		EndDate:     end,
	}
}

func TestScheduledTimes_Daily_SevenDays(t *testing.T) {
	start := date(2024, 3, 10)
	m := testMedication(FrequencyDaily, start, nil)

	got := ScheduledTimes(m, start, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 timestamps, got %d", len(got))
	}

	for i, ts := range got {
		want := time.Date(2024, 3, 10+i, 8, 0, 0, 0, time.UTC)
		if !ts.Equal(want) {
			t.Fatalf("timestamp %d = %s, want %s", i, ts, want)
		}
	}
}

func TestScheduledTimes_Weekly_OnePerWindow(t *testing.T) {
	start := date(2024, 3, 10)
	m := testMedication(FrequencyWeekly, start, nil)

	got := ScheduledTimes(m, start, 7)
	if len(got) != 1 {
		t.Fatalf("expected 1 timestamp in a 7-day window, got %d", len(got))
	}
	want := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	if !got[0].Equal(want) {
		t.Fatalf("timestamp = %s, want %s", got[0], want)
	}
}

func TestScheduledTimes_EndDateTruncatesWindow(t *testing.T) {
	start := date(2024, 3, 10)
	end := date(2024, 3, 12)
	m := testMedication(FrequencyDaily, start, &end)

	got := ScheduledTimes(m, start, 7)
	if len(got) != 3 {
		t.Fatalf("expected 3 timestamps (end inclusive), got %d", len(got))
	}
}

func TestScheduledTimes_WindowBeforeStart_Empty(t *testing.T) {
	start := date(2024, 3, 20)
	m := testMedication(FrequencyDaily, start, nil)

	got := ScheduledTimes(m, date(2024, 3, 1), 7)
	if len(got) != 0 {
		t.Fatalf("expected no timestamps before start, got %d", len(got))
	}
}

func TestScheduledTimes_DefaultWindow(t *testing.T) {
	start := date(2024, 3, 10)
	m := testMedication(FrequencyDaily, start, nil)

	got := ScheduledTimes(m, start, 0)
	if len(got) != DefaultWindowDays {
		t.Fatalf("expected %d timestamps with default window, got %d", DefaultWindowDays, len(got))
	}
}

func TestScheduledTimes_Idempotent_SameInputsSameOutput(t *testing.T) {
	start := date(2024, 3, 10)
	m := testMedication(FrequencyBiweekly, start, nil)

	a := ScheduledTimes(m, start, 30)
	b := ScheduledTimes(m, start, 30)

	if len(a) != len(b) {
		t.Fatalf("expected same length, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("timestamp %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}
