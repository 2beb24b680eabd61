package layout

import (
	"testing"

	"gridcal/internal/domain"
)

var week = Metrics{
	GutterWidth: 6,
	ColumnWidth: 10,
	SlotHeight:  1,
	Padding:     1,
	VisibleDays: 7,
}

func TestEventRect(t *testing.T) {
	tcs := []struct {
		name string
		m    Metrics
		p    domain.Placement
		want Rect
	}{
		{
			name: "week view column offset",
			m:    week,
			p:    domain.Placement{DayIndex: 2, StartSlot: 18, EndSlot: 20},
			want: Rect{X: 26, Y: 18, W: 9, H: 2},
		},
		{
			name: "day view single column",
			m:    Metrics{GutterWidth: 6, ColumnWidth: 40, SlotHeight: 1, Padding: 2, VisibleDays: 1},
			p:    domain.Placement{DayIndex: 0, StartSlot: 0, EndSlot: 48},
			want: Rect{X: 6, Y: 0, W: 38, H: 48},
		},
		{
			name: "taller slots scale height",
			m:    Metrics{GutterWidth: 6, ColumnWidth: 10, SlotHeight: 2, Padding: 1, VisibleDays: 3},
			p:    domain.Placement{DayIndex: 1, StartSlot: 4, EndSlot: 7},
			want: Rect{X: 16, Y: 8, W: 9, H: 6},
		},
	}
	for _, tc := range tcs {
		if got := tc.m.EventRect(tc.p); got != tc.want {
			t.Errorf("%s: EventRect = %+v; want %+v", tc.name, got, tc.want)
		}
	}
}

func TestCellAt(t *testing.T) {
	tcs := []struct {
		x, y     int
		day      int
		slot     int
		ok       bool
	}{
		{6, 0, 0, 0, true},
		{15, 18, 0, 18, true},
		{16, 18, 1, 18, true},
		{75, 47, 6, 47, true},
		{5, 10, 0, 0, false},  // gutter
		{76, 10, 0, 0, false}, // past last column
		{10, 48, 0, 0, false}, // past midnight row
		{10, -1, 0, 0, false},
	}
	for _, tc := range tcs {
		day, slot, ok := week.CellAt(tc.x, tc.y)
		if ok != tc.ok || day != tc.day || slot != tc.slot {
			t.Errorf("CellAt(%d,%d) = (%d,%d,%v); want (%d,%d,%v)",
				tc.x, tc.y, day, slot, ok, tc.day, tc.slot, tc.ok)
		}
	}
}

func TestSnapSlotRoundsToNearest(t *testing.T) {
	m := Metrics{GutterWidth: 6, ColumnWidth: 10, SlotHeight: 2, VisibleDays: 7}
	tcs := []struct {
		y    float64
		want int
	}{
		{0, 0},
		{0.9, 0},  // under half a slot snaps back
		{1.0, 1},  // half a slot rounds up
		{3.9, 2},
		{36, 18},
		{37, 19}, // exactly one slot-height below 18
	}
	for _, tc := range tcs {
		if got := m.SnapSlot(tc.y); got != tc.want {
			t.Errorf("SnapSlot(%v) = %d; want %d", tc.y, got, tc.want)
		}
	}
}

func TestSnapDayClamps(t *testing.T) {
	tcs := []struct {
		x    float64
		want int
	}{
		{-40, 0},
		{6, 0},
		{10.9, 0},
		{11, 1},
		{66, 6},
		{200, 6},
	}
	for _, tc := range tcs {
		if got := week.SnapDay(tc.x); got != tc.want {
			t.Errorf("SnapDay(%v) = %d; want %d", tc.x, got, tc.want)
		}
	}
}

func TestHandleZones(t *testing.T) {
	r := week.EventRect(domain.Placement{DayIndex: 1, StartSlot: 10, EndSlot: 14})

	top := week.TopHandle(r)
	if !top.Contains(r.X, r.Y) || top.Contains(r.X, r.Y+1) {
		t.Fatalf("top handle %+v does not hug the top edge of %+v", top, r)
	}
	bottom := week.BottomHandle(r)
	if !bottom.Contains(r.X, r.Y+r.H-1) || bottom.Contains(r.X, r.Y+r.H-2) {
		t.Fatalf("bottom handle %+v does not hug the bottom edge of %+v", bottom, r)
	}
}
