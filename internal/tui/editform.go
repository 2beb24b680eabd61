package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridcal/internal/domain"
)

type formMode int

const (
	formCreate formMode = iota
	formEdit
)

// Field order in the form; allDay is a toggle row between the time
// inputs and location.
const (
	fieldTitle = iota
	fieldDate
	fieldStart
	fieldEnd
	fieldAllDay
	fieldLocation
	fieldDescription
	fieldCount
)

var (
	formBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	formTitleStyle = lipgloss.NewStyle().Bold(true)
	formLabelStyle = lipgloss.NewStyle().Faint(true).Width(12)
	formErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// editForm is the create/edit sheet. It validates on submit and keeps
// the sheet open with an error message until the input is acceptable;
// no mutation leaves the form before validation passes.
type editForm struct {
	mode    formMode
	eventID string
	color   string

	inputs [fieldCount]textinput.Model
	allDay bool
	focus  int
	err    string
}

func newForm(mode formMode, e domain.Event, loc *time.Location) *editForm {
	f := &editForm{mode: mode, eventID: e.ID, color: e.Color, allDay: e.AllDay}

	mk := func(placeholder, value string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.SetValue(value)
		return ti
	}

	start := e.Start.In(loc)
	end := e.End.In(loc)
	f.inputs[fieldTitle] = mk("Title", e.Title, 120)
	f.inputs[fieldDate] = mk("YYYY-MM-DD", start.Format("2006-01-02"), 10)
	f.inputs[fieldStart] = mk("HH:MM", start.Format("15:04"), 5)
	f.inputs[fieldEnd] = mk("HH:MM", end.Format("15:04"), 5)
	f.inputs[fieldLocation] = mk("Location", e.Location, 120)
	f.inputs[fieldDescription] = mk("Description", e.Description, 500)

	f.inputs[fieldTitle].Focus()
	return f
}

// Update handles one key. submitted is true when the form validated
// and the caller should read Event(); cancelled when the user backed
// out.
func (f *editForm) Update(msg tea.KeyMsg, loc *time.Location) (cmd tea.Cmd, submitted, cancelled bool) {
	switch msg.String() {
	case "esc":
		return nil, false, true

	case "ctrl+s":
		return nil, f.validate(loc), false

	case "enter":
		if f.focus == fieldDescription {
			return nil, f.validate(loc), false
		}
		f.setFocus(f.focus + 1)
		return nil, false, false

	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil, false, false

	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil, false, false

	case " ":
		if f.focus == fieldAllDay {
			f.allDay = !f.allDay
			return nil, false, false
		}
	}

	if f.focus != fieldAllDay {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return cmd, false, false
}

func (f *editForm) setFocus(i int) {
	if i < 0 {
		i = fieldCount - 1
	}
	if i >= fieldCount {
		i = 0
	}
	if f.focus != fieldAllDay {
		f.inputs[f.focus].Blur()
	}
	f.focus = i
	if i != fieldAllDay {
		f.inputs[i].Focus()
	}
}

func (f *editForm) validate(loc *time.Location) bool {
	if _, err := f.event(loc); err != nil {
		f.err = err.Error()
		return false
	}
	f.err = ""
	return true
}

// Event builds the validated event. Callers must have seen validate
// succeed; it re-validates anyway.
func (f *editForm) Event(loc *time.Location) (domain.Event, error) {
	return f.event(loc)
}

func (f *editForm) event(loc *time.Location) (domain.Event, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return domain.Event{}, fmt.Errorf("a title is required")
	}

	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(f.inputs[fieldDate].Value()), loc)
	if err != nil {
		return domain.Event{}, fmt.Errorf("the date must look like 2025-03-12")
	}

	var start, end time.Time
	if f.allDay {
		start = date
		end = date.AddDate(0, 0, 1)
	} else {
		start, err = parseClock(date, f.inputs[fieldStart].Value(), loc)
		if err != nil {
			return domain.Event{}, fmt.Errorf("the start time must look like 09:00")
		}
		end, err = parseClock(date, f.inputs[fieldEnd].Value(), loc)
		if err != nil {
			return domain.Event{}, fmt.Errorf("the end time must look like 10:30")
		}
		if !end.After(start) {
			return domain.Event{}, fmt.Errorf("the end time must be after the start time")
		}
	}

	return domain.Event{
		ID:          f.eventID,
		Title:       title,
		Start:       start.UTC(),
		End:         end.UTC(),
		AllDay:      f.allDay,
		Location:    strings.TrimSpace(f.inputs[fieldLocation].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Color:       f.color,
	}, nil
}

func parseClock(date time.Time, raw string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

func (f *editForm) View() string {
	var b strings.Builder

	heading := "New event"
	if f.mode == formEdit {
		heading = "Edit event"
	}
	b.WriteString(formTitleStyle.Render(heading) + "\n\n")

	labels := [fieldCount]string{"Title", "Date", "Start", "End", "All day", "Location", "Notes"}
	for i := 0; i < fieldCount; i++ {
		b.WriteString(formLabelStyle.Render(labels[i]))
		if i == fieldAllDay {
			box := "[ ]"
			if f.allDay {
				box = "[x]"
			}
			if f.focus == fieldAllDay {
				box += " (space toggles)"
			}
			b.WriteString(box + "\n")
			continue
		}
		b.WriteString(f.inputs[i].View() + "\n")
	}

	if f.err != "" {
		b.WriteString("\n" + formErrStyle.Render(f.err))
	}
	b.WriteString("\n" + formLabelStyle.Render("enter next · ctrl+s save · esc cancel"))

	return formBoxStyle.Render(b.String())
}
