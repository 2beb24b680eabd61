package domain

import (
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestSlotToTime(t *testing.T) {
	tcs := []struct {
		slot int
		want string
	}{
		{0, "00:00"},
		{1, "00:30"},
		{18, "09:00"},
		{19, "09:30"},
		{47, "23:30"},
		{48, "24:00"},
	}
	for _, tc := range tcs {
		if got := SlotToTime(tc.slot); got != tc.want {
			t.Errorf("SlotToTime(%d) = %q; want %q", tc.slot, got, tc.want)
		}
	}
}

func TestTimeRangeToSlots_FloorStartCeilEnd(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	tcs := []struct {
		name       string
		start, end time.Time
		wantStart  int
		wantEnd    int
	}{
		{
			name:      "on the half hour",
			start:     day.Add(9 * time.Hour),
			end:       day.Add(10 * time.Hour),
			wantStart: 18, wantEnd: 20,
		},
		{
			name:      "start floors",
			start:     day.Add(9*time.Hour + 20*time.Minute),
			end:       day.Add(10 * time.Hour),
			wantStart: 18, wantEnd: 20,
		},
		{
			name:      "end ceils so 10:15 reserves through 10:30",
			start:     day.Add(9 * time.Hour),
			end:       day.Add(10*time.Hour + 15*time.Minute),
			wantStart: 18, wantEnd: 21,
		},
		{
			name:      "zero-length span clamps to one slot",
			start:     day.Add(9 * time.Hour),
			end:       day.Add(9 * time.Hour),
			wantStart: 18, wantEnd: 19,
		},
		{
			name:      "end on next local midnight runs to the day bound",
			start:     day.Add(23 * time.Hour),
			end:       day.AddDate(0, 0, 1),
			wantStart: 46, wantEnd: 48,
		},
	}

	for _, tc := range tcs {
		s, e := TimeRangeToSlots(tc.start.UTC(), tc.end.UTC(), loc)
		if s != tc.wantStart || e != tc.wantEnd {
			t.Errorf("%s: got (%d,%d); want (%d,%d)", tc.name, s, e, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestSlotInstantRoundTrip(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)

	for slot := 0; slot < SlotsPerDay; slot++ {
		start := SlotInstant(day, slot, loc)
		end := SlotInstant(day, slot+1, loc)
		s, e := TimeRangeToSlots(start, end, loc)
		if s != slot || e != slot+1 {
			t.Fatalf("round trip slot %d: got (%d,%d)", slot, s, e)
		}
	}
}

func TestSlotInstantIsUTC(t *testing.T) {
	loc := mustLoc(t, "Asia/Tokyo")
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, loc)

	got := SlotInstant(day, 18, loc) // 09:00 JST
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("SlotInstant = %v; want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("SlotInstant location = %v; want UTC", got.Location())
	}
}

func TestClampSpan(t *testing.T) {
	tcs := []struct {
		start, end         int
		wantStart, wantEnd int
	}{
		{-3, 2, 0, 2},
		{18, 20, 18, 20},
		{20, 18, 20, 21},
		{46, 50, 46, 48},
		{50, 52, 47, 48},
		{10, 10, 10, 11},
	}
	for _, tc := range tcs {
		s, e := ClampSpan(tc.start, tc.end)
		if s != tc.wantStart || e != tc.wantEnd {
			t.Errorf("ClampSpan(%d,%d) = (%d,%d); want (%d,%d)",
				tc.start, tc.end, s, e, tc.wantStart, tc.wantEnd)
		}
	}
}
