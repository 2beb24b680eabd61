package gesture

import (
	"gridcal/internal/domain"
	"gridcal/internal/layout"
)

// snapMove resolves a move drag to its target placement: round the
// vertical offset to the nearest slot, the horizontal offset to the
// nearest visible day column, then clamp so the duration-preserving
// move cannot leave the grid. When the rounded end would pass local
// midnight and a later column is visible, the event re-snaps into that
// next day (the day containing the new end time).
func snapMove(anchor domain.Placement, dx, dy float64, m layout.Metrics) domain.Placement {
	dur := anchor.Duration()

	y := float64(anchor.StartSlot*m.SlotHeight) + dy
	x := float64(m.GutterWidth+anchor.DayIndex*m.ColumnWidth) + dx

	slot := m.SnapSlot(y)
	day := m.SnapDay(x)

	if slot+dur > domain.SlotsPerDay && day+1 < m.VisibleDays {
		day++
		slot -= domain.SlotsPerDay
	}

	if slot < 0 {
		slot = 0
	}
	if slot+dur > domain.SlotsPerDay {
		slot = domain.SlotsPerDay - dur
	}
	return domain.Placement{DayIndex: day, StartSlot: slot, EndSlot: slot + dur}
}

// snapResize resolves an edge resize. Only the grabbed boundary moves;
// the opposing boundary holds, the day never changes, and the span
// never shrinks below one slot.
func snapResize(anchor domain.Placement, kind Kind, dy float64, m layout.Metrics) domain.Placement {
	p := anchor
	switch kind {
	case KindResizeTop:
		s := m.SnapSlot(float64(anchor.StartSlot*m.SlotHeight) + dy)
		if s < 0 {
			s = 0
		}
		if s > anchor.EndSlot-domain.MinSlots {
			s = anchor.EndSlot - domain.MinSlots
		}
		p.StartSlot = s
	case KindResizeBottom:
		e := m.SnapSlot(float64(anchor.EndSlot*m.SlotHeight) + dy)
		if e > domain.SlotsPerDay {
			e = domain.SlotsPerDay
		}
		if e < anchor.StartSlot+domain.MinSlots {
			e = anchor.StartSlot + domain.MinSlots
		}
		p.EndSlot = e
	}
	return p
}
