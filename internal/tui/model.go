// Package tui is the terminal host for the calendar grid: it owns the
// Bubble Tea loop, translates mouse input into gesture reports, and
// marshals realtime channel messages onto the UI loop before they
// touch the store.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gridcal/config"
	"gridcal/internal/clients/realtime"
	"gridcal/internal/domain"
	"gridcal/internal/gesture"
	"gridcal/internal/layout"
	"gridcal/internal/service"
)

const (
	// Rows above the grid body: status bar, day headers, all-day band.
	bodyTop = 3
	// Long-press delays per view, matching the touch-era tuning: the
	// single-day view arms faster than the multi-day ones.
	longPressDay   = 500 * time.Millisecond
	longPressMulti = 1000 * time.Millisecond
	// Pointer travel beyond one cell while armed releases the gesture
	// to scrolling.
	jitterCells = 1.0

	tickInterval = 50 * time.Millisecond
)

var (
	statusStyle  = lipgloss.NewStyle().Bold(true)
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	allDayStyle  = lipgloss.NewStyle().Italic(true)
)

// Messages the model's commands produce.
type (
	loadedMsg   service.LoadResult
	realtimeMsg realtime.Message
	// RefreshMsg asks for a window re-fetch; the scheduler sends it
	// from outside the loop.
	RefreshMsg    struct{}
	tickMsg       time.Time
	emitErrMsg    struct{ err error }
	exportDoneMsg struct {
		path string
		err  error
	}
	importDoneMsg struct {
		count int
		err   error
	}
	channelClosedMsg struct{}
)

type Model struct {
	cfg *config.Config
	svc *service.CalendarService
	rt  *realtime.Client

	view    domain.ViewKind
	anchor  time.Time
	window  domain.Window
	metrics layout.Metrics
	rec     *gesture.Recognizer

	width, height int
	scroll        int
	selected      string
	// pressedSelected records whether the active gesture started on
	// the already-selected event; drags on unselected events resolve
	// to selection instead of a commit.
	pressedSelected bool

	// cursor is the last empty cell the user tapped; new events
	// default into it.
	cursorDay  int
	cursorSlot int
	hasCursor  bool

	form      *editForm
	alert     string
	stale     bool
	connected bool
	loading   bool
}

// InitialWindow is the window the app opens on: the week containing
// today. The store needs it before the UI loop starts.
func InitialWindow(cfg *config.Config) domain.Window {
	return domain.NewWindow(domain.ViewWeek, time.Now(), cfg.Timezone)
}

func New(cfg *config.Config, svc *service.CalendarService, rt *realtime.Client) Model {
	m := Model{
		cfg:    cfg,
		svc:    svc,
		rt:     rt,
		view:   domain.ViewWeek,
		anchor: time.Now(),
	}
	m.rebuildWindow()
	return m
}

func (m *Model) rebuildWindow() {
	m.window = domain.NewWindow(m.view, m.anchor, m.cfg.Timezone)
	m.metrics = m.computeMetrics()
	cfg := gesture.Config{LongPress: longPressMulti, Jitter: jitterCells}
	if m.view == domain.ViewDay {
		cfg.LongPress = longPressDay
	}
	m.rec = gesture.New(cfg, m.metrics)
	m.hasCursor = false
}

func (m Model) computeMetrics() layout.Metrics {
	days := int(m.view)
	gutter := 6
	col := 10
	if m.width > 0 {
		col = (m.width - gutter) / days
		if col < 8 {
			col = 8
		}
	}
	return layout.Metrics{
		GutterWidth: gutter,
		ColumnWidth: col,
		SlotHeight:  1,
		Padding:     1,
		VisibleDays: days,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitRealtime())
}

func (m Model) loadCmd() tea.Cmd {
	svc, w := m.svc, m.window
	return func() tea.Msg {
		return loadedMsg(svc.LoadWindow(context.Background(), w))
	}
}

func (m Model) waitRealtime() tea.Cmd {
	ch := m.rt.Messages()
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return realtimeMsg(msg)
	}
}

func emitCmd(emit func() error) tea.Cmd {
	return func() tea.Msg {
		if err := emit(); err != nil {
			return emitErrMsg{err: err}
		}
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.metrics = m.computeMetrics()
		m.rec.SetMetrics(m.metrics)
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		if m.rec.Tick(time.Time(msg)) || m.armed() {
			return m, tickCmd()
		}
		return m, nil

	case loadedMsg:
		res := service.LoadResult(msg)
		if !sameWindow(res.Window, m.window) {
			// Late response for a window we already navigated away
			// from; the in-flight load for the current one wins.
			return m, nil
		}
		m.loading = false
		m.stale = res.Stale
		m.svc.ApplyLoad(res)
		if _, ok := m.svc.Store().Get(m.selected); !ok {
			m.selected = ""
		}
		return m, nil

	case realtimeMsg:
		rmsg := realtime.Message(msg)
		if rmsg.Kind == realtime.KindStatus {
			m.connected = rmsg.Connected
			if !rmsg.Connected {
				m.svc.ResetPending()
			}
		} else if alert := m.svc.ApplyRealtime(rmsg); alert != "" {
			m.alert = alert
		}
		if _, ok := m.svc.Store().Get(m.selected); !ok && m.selected != "" {
			m.selected = ""
		}
		return m, m.waitRealtime()

	case channelClosedMsg:
		m.connected = false
		return m, nil

	case RefreshMsg:
		m.loading = true
		return m, m.loadCmd()

	case emitErrMsg:
		m.alert = msg.err.Error()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.alert = msg.err.Error()
		} else {
			m.alert = "Exported to " + msg.path
		}
		return m, nil

	case importDoneMsg:
		if msg.err != nil {
			m.alert = msg.err.Error()
		} else {
			m.alert = fmt.Sprintf("Imported %d events", msg.count)
		}
		return m, nil
	}
	return m, nil
}

func sameWindow(a, b domain.Window) bool {
	return a.Kind == b.Kind && a.VisibleDays() == b.VisibleDays() && a.Day(0).Equal(b.Day(0))
}

func (m Model) armed() bool {
	s, ok := m.rec.Session()
	return ok && s.Phase == gesture.PhaseArmed
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Day):
		return m.switchView(domain.ViewDay)
	case key.Matches(msg, keys.ThreeDay):
		return m.switchView(domain.ViewThreeDay)
	case key.Matches(msg, keys.Week):
		return m.switchView(domain.ViewWeek)

	case key.Matches(msg, keys.Prev):
		return m.moveAnchor(-m.window.VisibleDays())
	case key.Matches(msg, keys.Next):
		return m.moveAnchor(m.window.VisibleDays())
	case key.Matches(msg, keys.Today):
		m.anchor = time.Now()
		m.rebuildWindow()
		m.loading = true
		return m, m.loadCmd()

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.loadCmd()

	case key.Matches(msg, keys.ScrollUp):
		m.scroll--
		m.clampScroll()
		return m, nil
	case key.Matches(msg, keys.ScrollDn):
		m.scroll++
		m.clampScroll()
		return m, nil

	case key.Matches(msg, keys.New):
		start := time.Date(m.anchor.Year(), m.anchor.Month(), m.anchor.Day(), 9, 0, 0, 0, m.cfg.Timezone)
		if m.hasCursor {
			start = domain.SlotInstant(m.window.Day(m.cursorDay), m.cursorSlot, m.window.Loc)
		}
		m.form = newForm(formCreate, domain.Event{Start: start, End: start.Add(time.Hour)}, m.cfg.Timezone)
		return m, nil

	case key.Matches(msg, keys.Edit):
		if e, ok := m.svc.Store().Get(m.selected); ok {
			m.form = newForm(formEdit, e, m.cfg.Timezone)
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		if m.selected == "" {
			return m, nil
		}
		emit := m.svc.DeleteEvent(m.selected)
		m.selected = ""
		return m, emitCmd(emit)

	case key.Matches(msg, keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, keys.Import):
		return m, m.importCmd()

	case key.Matches(msg, keys.Dismiss):
		if m.alert != "" {
			m.alert = ""
		} else {
			m.selected = ""
		}
		m.rec.Cancel()
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, submitted, cancelled := m.form.Update(msg, m.cfg.Timezone)
	if cancelled {
		m.form = nil
		return m, nil
	}
	if !submitted {
		return m, cmd
	}

	e, err := m.form.Event(m.cfg.Timezone)
	if err != nil {
		// Validation blocked the submit; the form shows the reason.
		return m, nil
	}
	mode := m.form.mode
	m.form = nil

	if mode == formCreate {
		svc := m.svc
		return m, emitCmd(func() error { return svc.CreateEvent(e) })
	}
	return m, emitCmd(m.svc.CommitFields(e))
}

func (m Model) switchView(v domain.ViewKind) (tea.Model, tea.Cmd) {
	if m.view == v {
		return m, nil
	}
	m.view = v
	m.rebuildWindow()
	m.loading = true
	return m, m.loadCmd()
}

func (m Model) moveAnchor(days int) (tea.Model, tea.Cmd) {
	m.anchor = m.anchor.AddDate(0, 0, days)
	m.rebuildWindow()
	m.loading = true
	return m, m.loadCmd()
}

// gridPoint translates a terminal mouse position into grid-body cell
// space, accounting for the header rows and the scroll offset. The
// point is clamped to the body so motion and release reports that
// stray into the header or past the bottom still carry the pointer's
// real column and nearest legal row; inBody is false for those strays
// and gates gesture starts only.
func (m Model) gridPoint(msg tea.MouseMsg) (gesture.Point, bool) {
	inBody := msg.Y >= bodyTop && msg.Y < bodyTop+m.bodyHeight()
	y := msg.Y - bodyTop + m.scroll
	if y < 0 {
		y = 0
	}
	if max := m.metrics.GridHeight() - 1; y > max {
		y = max
	}
	return gesture.Point{X: float64(msg.X), Y: float64(y)}, inBody
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		// Scrolling releases any armed gesture to the scroll surface.
		m.rec.Cancel()
		m.scroll -= 2
		m.clampScroll()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.rec.Cancel()
		m.scroll += 2
		m.clampScroll()
		return m, nil
	}

	p, inBody := m.gridPoint(msg)
	now := time.Now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inBody {
			return m, nil
		}
		x, y := int(p.X), int(p.Y)
		e, placement, hit := m.hitTest(x, y)
		if !hit {
			m.selected = ""
			if day, slot, ok := m.metrics.CellAt(x, y); ok {
				m.cursorDay, m.cursorSlot, m.hasCursor = day, slot, true
			}
			return m, nil
		}

		m.pressedSelected = e.ID == m.selected
		rect := m.metrics.EventRect(placement)

		// Resize handles only exist on the selected block.
		if m.pressedSelected && m.metrics.TopHandle(rect).Contains(x, y) && placement.Duration() > 1 {
			m.rec.Down(gesture.KindResizeTop, e.ID, placement, p, now)
			return m, nil
		}
		if m.pressedSelected && m.metrics.BottomHandle(rect).Contains(x, y) {
			m.rec.Down(gesture.KindResizeBottom, e.ID, placement, p, now)
			return m, nil
		}

		m.rec.Down(gesture.KindMove, e.ID, placement, p, now)
		return m, tickCmd()

	case tea.MouseActionMotion:
		m.rec.Move(p, now)
		return m, nil

	case tea.MouseActionRelease:
		res := m.rec.Up(p, now)
		switch res.Class {
		case gesture.ClassTap:
			// A tap both selects the event and opens its edit sheet;
			// the selection is what arms later drags and resizes.
			m.selected = res.EventID
			if e, ok := m.svc.Store().Get(res.EventID); ok {
				m.form = newForm(formEdit, e, m.cfg.Timezone)
			}
			return m, nil

		case gesture.ClassCommit:
			if !m.pressedSelected {
				// Drags on unselected events select instead of moving.
				m.selected = res.EventID
				return m, nil
			}
			emit, changed := m.svc.CommitGeometry(res.EventID, res.Placement)
			if !changed {
				return m, nil
			}
			return m, emitCmd(emit)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) clampScroll() {
	max := m.metrics.GridHeight() - m.bodyHeight()
	if max < 0 {
		max = 0
	}
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) bodyHeight() int {
	h := m.height - bodyTop - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) exportCmd() tea.Cmd {
	svc := m.svc
	path := fmt.Sprintf("gridcal-%s.ics", m.window.Day(0).Format("2006-01-02"))
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: svc.ExportICS(path)}
	}
}

func (m Model) importCmd() tea.Cmd {
	svc, w, path := m.svc, m.window, m.cfg.CalDAVPath
	return func() tea.Msg {
		n, err := svc.ImportCalDAV(context.Background(), path, w)
		return importDoneMsg{count: n, err: err}
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.form != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	}

	rows := m.renderGrid()
	top, bottom := m.scroll, m.scroll+m.bodyHeight()
	if bottom > len(rows) {
		bottom = len(rows)
	}

	var out []string
	out = append(out, m.statusBar())
	out = append(out, m.dayHeaders())
	out = append(out, m.allDayBand())
	out = append(out, rows[top:bottom]...)
	out = append(out, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m Model) statusBar() string {
	title := fmt.Sprintf("%s — %s", m.view,
		m.window.Day(0).Format("Jan 2")+" to "+m.window.Day(m.window.VisibleDays()-1).Format("Jan 2, 2006"))
	s := statusStyle.Render(title)
	if m.loading {
		s += helpStyle.Render("  fetching…")
	}
	if m.stale {
		s += "  " + staleStyle.Render("showing cached data")
	}
	if !m.connected {
		s += "  " + offlineStyle.Render("live updates offline")
	}
	return s
}

func (m Model) dayHeaders() string {
	row := fmt.Sprintf("%*s", m.metrics.GutterWidth, "")
	for i := 0; i < m.window.VisibleDays(); i++ {
		label := m.window.Day(i).Format("Mon 02")
		row += headerStyle.Render(padTo(label, m.metrics.ColumnWidth))
	}
	return row
}

func (m Model) allDayBand() string {
	row := helpStyle.Render(padTo("  all", m.metrics.GutterWidth))
	for i := 0; i < m.window.VisibleDays(); i++ {
		events := m.svc.Store().AllDay(m.window.Day(i))
		label := ""
		if len(events) == 1 {
			label = events[0].Title
		} else if len(events) > 1 {
			label = fmt.Sprintf("%s +%d", events[0].Title, len(events)-1)
		}
		row += allDayStyle.Render(padTo(label, m.metrics.ColumnWidth))
	}
	return row
}

func (m Model) footer() string {
	if m.alert != "" {
		return alertStyle.Render(m.alert) + helpStyle.Render("  esc dismiss")
	}
	return helpStyle.Render("d/t/w views · ←/→ navigate · g today · n new · enter edit · x delete · e export · i import · r refresh · q quit")
}

// padTo truncates and pads to a fixed display width, so wide and
// multi-byte titles keep the day columns aligned.
func padTo(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, ""), w)
}
