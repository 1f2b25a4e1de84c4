package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/algoviz/internal/algorithms"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/input"
	"github.com/san-kum/algoviz/internal/playback"
)

const (
	refreshInterval = 50 * time.Millisecond
	maxSpeed        = 2 * time.Second
	minSpeedStep    = 10 * time.Millisecond
)

type screen int

const (
	screenMenu screen = iota
	screenConfig
	screenPlay
)

var configFields = []string{"size", "speed_ms", "seed", "input"}

// Options are the collaborators the player hands to every controller it
// creates.
type Options struct {
	Registry  *algorithms.Registry
	Config    *config.Config
	Logger    *slog.Logger
	Observers []playback.Observer
}

type model struct {
	ctx  context.Context
	opts Options

	screen     screen
	cursor     int
	algorithms []algorithms.Algorithm
	selected   algorithms.Algorithm

	size    int
	speedMs int
	seed    int64
	text    string

	fieldCursor int
	editing     bool
	editBuf     string

	ctrl    *playback.Controller
	notes   chan playback.Notification
	status  string
	lastErr string
	pending bool
	ticking bool

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	if opts.Registry == nil {
		opts.Registry = algorithms.NewRegistry()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := model{
		ctx:        ctx,
		opts:       opts,
		screen:     screenMenu,
		algorithms: byCategory(opts.Registry),
		size:       opts.Config.Size,
		speedMs:    opts.Config.SpeedMs,
		seed:       opts.Config.Seed,
		text:       opts.Config.Input,
		width:      80,
		height:     24,
	}
	for i, a := range m.algorithms {
		if a.Key == opts.Config.Algorithm {
			m.cursor = i
		}
	}
	return m
}

// byCategory lists algorithms grouped in category order.
func byCategory(r *algorithms.Registry) []algorithms.Algorithm {
	var list []algorithms.Algorithm
	for _, c := range dataset.Categories() {
		list = append(list, r.ByCategory(c)...)
	}
	return list
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type runDoneMsg struct {
	ctrl *playback.Controller
	res  playback.Result
	err  error
}

func startRun(ctx context.Context, c *playback.Controller) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Start(ctx)
		return runDoneMsg{ctrl: c, res: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.drainNotes()
		if m.pending {
			return m, tick()
		}
		m.ticking = false
		return m, nil
	case runDoneMsg:
		if msg.ctrl != m.ctrl {
			return m, nil
		}
		m.pending = false
		m.drainNotes()
		switch {
		case msg.err != nil:
			m.lastErr = msg.err.Error()
		case msg.res.Outcome == playback.StateFailed:
			m.lastErr = msg.res.Err.Error()
		default:
			m.status = fmt.Sprintf("%s %s in %s, %d snapshots", msg.res.Name, msg.res.Outcome,
				msg.res.Elapsed.Round(time.Millisecond), msg.res.Snapshots)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) drainNotes() {
	if m.notes == nil {
		return
	}
	for {
		select {
		case n := <-m.notes:
			if n.Level == playback.LevelError {
				m.lastErr = n.Message
			} else {
				m.status = n.Message
			}
		default:
			return
		}
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.ctrl != nil {
			m.ctrl.Stop()
		}
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.menuKey(msg)
	case screenConfig:
		return m.configKey(msg)
	case screenPlay:
		return m.playKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.algorithms)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.algorithms) == 0 {
			return m, nil
		}
		if m.selected.Key != m.algorithms[m.cursor].Key {
			if m.selected.Category != m.algorithms[m.cursor].Category {
				m.text = ""
			}
			m.selected = m.algorithms[m.cursor]
		}
		m.screen = screenConfig
		m.fieldCursor = 0
		m.lastErr = ""
	}
	return m, nil
}

func (m model) fieldValue(name string) string {
	switch name {
	case "size":
		return strconv.Itoa(m.size)
	case "speed_ms":
		return strconv.Itoa(m.speedMs)
	case "seed":
		return strconv.FormatInt(m.seed, 10)
	case "input":
		return m.text
	}
	return ""
}

func (m *model) setField(name, val string) error {
	switch name {
	case "input":
		m.text = strings.TrimSpace(val)
		return nil
	case "seed":
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %q is not a number", val)
		}
		m.seed = n
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", name, val)
	}
	switch name {
	case "size":
		if n < 1 || n > config.MaxSize {
			return fmt.Errorf("size must be between 1 and %d", config.MaxSize)
		}
		m.size = n
	case "speed_ms":
		if n < 0 {
			return fmt.Errorf("speed_ms must not be negative")
		}
		m.speedMs = n
	}
	return nil
}

// editKey feeds one key into editBuf. It reports true when editing ended
// with enter.
func (m *model) editKey(msg tea.KeyMsg, numeric bool) (done bool) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		return true
	case tea.KeyEsc:
		m.editing = false
		m.editBuf = ""
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			r := []rune(m.editBuf)
			m.editBuf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		if !numeric {
			m.editBuf += " "
		}
	case tea.KeyRunes:
		for _, c := range msg.Runes {
			if numeric && !(c >= '0' && c <= '9' || c == '-') {
				continue
			}
			m.editBuf += string(c)
		}
	}
	return false
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		name := configFields[m.fieldCursor]
		if m.editKey(msg, name != "input") {
			if err := m.setField(name, m.editBuf); err != nil {
				m.lastErr = err.Error()
			} else {
				m.lastErr = ""
			}
			m.editBuf = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.screen = screenMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(configFields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = m.fieldValue(configFields[m.fieldCursor])
	case "s":
		if err := m.load(); err != nil {
			m.lastErr = err.Error()
			return m, nil
		}
		m.screen = screenPlay
		return m, tea.ClearScreen
	}
	return m, nil
}

// load builds a fresh controller for the selected algorithm. A controller
// from an earlier session is stopped and left to finish on its own.
func (m *model) load() error {
	data, seed, err := input.Resolve(m.selected.Category, m.text, m.size, m.seed)
	if err != nil {
		return err
	}
	if m.ctrl != nil {
		m.ctrl.Stop()
	}
	m.pending = false
	notes := make(chan playback.Notification, 8)
	c := playback.New(playback.Config{
		Name:        m.selected.Key,
		Speed:       time.Duration(m.speedMs) * time.Millisecond,
		LogCapacity: m.opts.Config.LogCapacity,
		Logger:      m.opts.Logger,
		Observers:   m.opts.Observers,
		Notifier: func(n playback.Notification) {
			select {
			case notes <- n:
			default:
			}
		},
	})
	if err := c.Load(m.selected.Runner, m.selected.Key, data); err != nil {
		return err
	}
	m.ctrl = c
	m.notes = notes
	m.status = fmt.Sprintf("seed %d", seed)
	m.lastErr = ""
	return nil
}

func (m model) playKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		if m.editKey(msg, false) {
			d, err := input.Parse(m.selected.Category, m.editBuf)
			switch {
			case err != nil:
				m.lastErr = err.Error()
			default:
				if err := m.ctrl.InjectCustomData(d); err != nil {
					m.lastErr = err.Error()
				} else {
					m.text = m.editBuf
					m.lastErr = ""
				}
			}
			m.editBuf = ""
		}
		return m, nil
	}

	c := m.ctrl
	switch msg.String() {
	case "q", "esc":
		c.Stop()
		m.screen = screenConfig
		return m, tea.ClearScreen
	case "s", "enter":
		if m.pending || c.State() == playback.StateRunning {
			return m, nil
		}
		m.pending = true
		m.lastErr = ""
		m.status = ""
		cmds := []tea.Cmd{startRun(m.ctx, c)}
		if !m.ticking {
			m.ticking = true
			cmds = append(cmds, tick())
		}
		return m, tea.Batch(cmds...)
	case "x", " ":
		c.Stop()
	case "right", "l", "]":
		c.StepForward()
	case "left", "h", "[":
		c.StepBackward()
	case "home", "g":
		c.Seek(0)
	case "end", "G":
		c.Seek(c.History().Len() - 1)
	case "r":
		if err := c.Reset(); err != nil {
			m.lastErr = err.Error()
		}
	case "i":
		if c.State() == playback.StateRunning {
			m.lastErr = playback.ErrRunning.Error()
			return m, nil
		}
		m.editing = true
		m.editBuf = m.text
	case "+", "=":
		c.SetSpeed(min(c.Speed()*2+minSpeedStep, maxSpeed))
	case "-", "_":
		c.SetSpeed(c.Speed() / 2)
	case "0":
		c.SetSpeed(0)
	}
	return m, nil
}

func (m model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenConfig:
		return m.viewConfig()
	case screenPlay:
		return m.viewPlay()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("a l g o v i z") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")

	var category dataset.Category
	for i, a := range m.algorithms {
		if a.Category != category {
			category = a.Category
			b.WriteString("\n      " + dimmer.Render(string(category)) + "\n")
		}
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-22s", a.Name)) + dim.Render(a.Description) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-22s", a.Name)) + dimmer.Render(a.Description) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected.Name) + "  " + dim.Render(string(m.selected.Category)) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range configFields {
		val := m.fieldValue(name)
		if name == "input" && val == "" {
			val = "(random)"
		}
		if m.editing && i == m.fieldCursor {
			val = m.editBuf + "▋"
		}
		if i == m.fieldCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.lastErr != "" {
		b.WriteString("\n      " + red.Render(m.lastErr) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  enter edit  s play  esc back") + "\n")
	return b.String()
}

func (m model) viewPlay() string {
	v := m.ctrl.View()
	var b strings.Builder

	icon, state := dim.Render("○"), dim.Render("idle")
	switch {
	case v.State == playback.StateRunning:
		icon, state = green.Render("●"), green.Render("running")
	case v.Outcome == playback.StateCompleted:
		icon, state = green.Render("✓"), green.Render("completed")
	case v.Outcome == playback.StateCancelled:
		icon, state = yellow.Render("■"), yellow.Render("stopped")
	case v.Outcome == playback.StateFailed:
		icon, state = red.Render("✗"), red.Render("failed")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n", icon, cyan.Render(m.selected.Name), state,
		dim.Render(fmt.Sprintf("%dms/step", v.Speed.Milliseconds()))))

	barWidth := 36
	filled := 0
	if v.Length > 1 {
		filled = v.Cursor * barWidth / (v.Length - 1)
	}
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(fmt.Sprintf("%d/%d", v.Cursor+1, v.Length))))

	cw := max(m.width-8, 40)
	ch := max(m.height-18, 8)
	for _, line := range strings.Split(render(m.selected.Category, v.Data, cw, ch), "\n") {
		b.WriteString("   " + line + "\n")
	}

	b.WriteString("\n   " + white.Render(v.Step) + "\n")
	for _, l := range v.Log[min(1, len(v.Log)):] {
		b.WriteString("   " + dimmer.Render(l) + "\n")
	}

	if m.selected.Category == dataset.CategoryArray {
		if spark := sparkline(v.Data, min(cw, 60), "values"); spark != "" {
			b.WriteString("\n" + dim.Render(spark) + "\n")
		}
	}

	if m.editing {
		b.WriteString("\n   " + magenta.Render("input ") + m.editBuf + "▋\n")
	}
	if m.lastErr != "" {
		b.WriteString("\n   " + red.Render(m.lastErr) + "\n")
	} else if m.status != "" {
		b.WriteString("\n   " + dim.Render(m.status) + "\n")
	}

	b.WriteString("\n" + dim.Render("   s start  x stop  ←→ step  g/G ends  ±speed  r reset  i input  q back") + "\n")
	return b.String()
}

// Run starts the interactive player and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
