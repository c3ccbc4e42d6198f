// Package editor hosts the record-editing TUI. It renders a page form,
// wires every edit through a guard session, and surfaces the session's
// restore offers, autosave activity, and leave confirmations.
package editor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evolvingstuff/vdw-server/internal/draft"
	"github.com/evolvingstuff/vdw-server/internal/form"
	"github.com/evolvingstuff/vdw-server/internal/guard"
	"github.com/evolvingstuff/vdw-server/internal/locator"
)

// Focusable rows of the editor, top to bottom.
const (
	fieldTitle = iota
	fieldSlug
	fieldStatus
	fieldPublished
	fieldContent
	fieldTags
	fieldCount
)

// Options configures the editor model.
type Options struct {
	// Ref locates the record under edit and derives the draft key.
	Ref locator.PageRef
	// Store persists drafts for the guard session.
	Store draft.Store
	// Record is the initial record state rendered into the form.
	Record Record

	// Debounce and AutosaveInterval are passed through to the guard
	// session; zero means the session defaults.
	Debounce         time.Duration
	AutosaveInterval time.Duration

	// Timers and Clock override the session's timer construction and
	// clock for deterministic tests.
	Timers guard.TimerFactory
	Clock  func() time.Time
	Logger *slog.Logger
}

// Model is the Bubble Tea model for the record editor.
type Model struct {
	ref     locator.PageRef
	frm     *form.Form
	cache   *form.SelectorCache
	session *guard.Session

	title   textinput.Model
	slug    textinput.Model
	content textinput.Model

	focus        int
	statusCursor int
	// tags widget cursor state: which box is active and the row within it
	tagsBox    int // 0 = available, 1 = chosen
	tagsCursor int

	offer  *guard.RestoreOffer
	banner string

	confirmVisible bool

	width, height int
}

// New builds the form from the record, starts the guard session, and
// returns the ready model. The session's restore offer, if any, is
// surfaced immediately.
func New(opts Options) (*Model, error) {
	frm, cache := BuildForm(opts.Record)

	session, err := guard.New(guard.Options{
		Form:             frm,
		Store:            opts.Store,
		Key:              opts.Ref.Key(),
		Debounce:         opts.Debounce,
		AutosaveInterval: opts.AutosaveInterval,
		Timers:           opts.Timers,
		Clock:            opts.Clock,
		Logger:           opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	m := &Model{
		ref:     opts.Ref,
		frm:     frm,
		cache:   cache,
		session: session,
		title:   newInput("Title", opts.Record.Title),
		slug:    newInput("Slug", opts.Record.Slug),
		content: newInput("Content", opts.Record.Content),
		offer:   session.Offer(),
	}
	m.statusCursor = statusIndex(frm)
	m.title.Focus()
	return m, nil
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 256
	return ti
}

// statusIndex returns the index of the active status radio member.
func statusIndex(f *form.Form) int {
	for i, v := range StatusValues {
		for _, c := range f.Controls() {
			if c.Type == form.TypeRadio && c.Name == "status" && c.Value == v && c.Checked {
				return i
			}
		}
	}
	return 0
}

// Session exposes the guard session (the edit command stops it on exit).
func (m *Model) Session() *guard.Session { return m.session }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The leave-confirmation modal swallows all input while visible.
	if m.confirmVisible {
		switch msg.String() {
		case "y", "enter":
			m.session.ApproveLeave()
			m.session.Stop()
			return m, tea.Quit
		case "n", "esc":
			m.confirmVisible = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.attemptQuit()

	case "ctrl+s":
		m.submit()
		return m, nil

	case "ctrl+r":
		if m.offer != nil {
			m.offer.Restore()
			m.offer = nil
			m.syncFromForm()
			m.banner = "Draft restored."
		}
		return m, nil

	case "ctrl+d":
		if m.offer != nil {
			m.offer.Discard()
			m.offer = nil
			m.banner = "Draft discarded."
		}
		return m, nil

	case "tab", "down":
		if m.focus == fieldTags && msg.String() == "down" {
			m.moveTagsCursor(1)
			return m, nil
		}
		m.setFocus((m.focus + 1) % fieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		if m.focus == fieldTags && msg.String() == "up" {
			m.moveTagsCursor(-1)
			return m, nil
		}
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, textinput.Blink
	}

	switch m.focus {
	case fieldStatus:
		switch msg.String() {
		case "left", "h":
			m.setStatus(m.statusCursor - 1)
			return m, nil
		case "right", "l", " ":
			m.setStatus(m.statusCursor + 1)
			return m, nil
		}

	case fieldPublished:
		if msg.String() == " " {
			c := m.frm.Lookup("published")
			c.Checked = !c.Checked
			m.session.FieldChanged()
			return m, nil
		}

	case fieldTags:
		switch msg.String() {
		case "left", "h":
			m.tagsBox = 0
			m.clampTagsCursor()
			return m, nil
		case "right", "l":
			m.tagsBox = 1
			m.clampTagsCursor()
			return m, nil
		case "enter", " ":
			m.moveTagEntry()
			return m, nil
		}
	}

	// Everything else lands in the focused text input.
	if input := m.focusedInput(); input != nil {
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		m.syncTextControls()
		return m, cmd
	}
	return m, nil
}

// attemptQuit asks the session whether leaving needs confirmation.
func (m *Model) attemptQuit() (tea.Model, tea.Cmd) {
	if m.session.ConfirmUnload() {
		m.confirmVisible = true
		return m, nil
	}
	m.session.ApproveLeave()
	m.session.Stop()
	return m, tea.Quit
}

// submit plays the role of the admin backend: it accepts the form,
// renders the success feedback, and rebaselines the session so the
// saved state becomes the new clean state.
func (m *Model) submit() {
	m.session.SubmitStarted()

	title := m.frm.Lookup("title").Value
	noun := m.ref.Resource + "." + m.ref.Record
	if m.ref.View == locator.ViewCreate {
		m.banner = fmt.Sprintf("The %s %q was added successfully.", noun, title)
	} else {
		m.banner = fmt.Sprintf("The %s %q was changed successfully.", noun, title)
	}
	m.session.FeedbackRendered(m.banner)
	m.session.Rebaseline()
	m.offer = nil
}

// focusedInput returns the text input under focus, or nil.
func (m *Model) focusedInput() *textinput.Model {
	switch m.focus {
	case fieldTitle:
		return &m.title
	case fieldSlug:
		return &m.slug
	case fieldContent:
		return &m.content
	}
	return nil
}

// setFocus moves row focus, blurring and focusing text inputs as needed.
func (m *Model) setFocus(next int) {
	if input := m.focusedInput(); input != nil {
		input.Blur()
	}
	m.focus = next
	if input := m.focusedInput(); input != nil {
		input.Focus()
	}
	if m.focus == fieldTags {
		m.clampTagsCursor()
	}
}

// syncTextControls writes the text inputs back into the form controls
// and notifies the session of the edit.
func (m *Model) syncTextControls() {
	changed := false
	for name, input := range map[string]*textinput.Model{
		"title":   &m.title,
		"slug":    &m.slug,
		"content": &m.content,
	} {
		if c := m.frm.Lookup(name); c != nil && c.Value != input.Value() {
			c.Value = input.Value()
			changed = true
		}
	}
	if changed {
		m.session.FieldChanged()
	}
}

// syncFromForm refreshes the widgets from the form after a restore.
func (m *Model) syncFromForm() {
	m.title.SetValue(m.frm.Lookup("title").Value)
	m.slug.SetValue(m.frm.Lookup("slug").Value)
	m.content.SetValue(m.frm.Lookup("content").Value)
	m.statusCursor = statusIndex(m.frm)
	m.clampTagsCursor()
}

// setStatus activates the status radio member at the given index.
func (m *Model) setStatus(idx int) {
	if idx < 0 || idx >= len(StatusValues) {
		return
	}
	m.statusCursor = idx
	target := StatusValues[idx]
	for _, c := range m.frm.Controls() {
		if c.Type == form.TypeRadio && c.Name == "status" {
			c.Checked = c.Value == target
		}
	}
	m.session.FieldChanged()
}

func (m *Model) tagsBoxID() string {
	if m.tagsBox == 1 {
		return tagsChosenBoxID
	}
	return tagsAvailableBoxID
}

func (m *Model) moveTagsCursor(delta int) {
	entries, _ := m.cache.Get(m.tagsBoxID())
	m.tagsCursor += delta
	if m.tagsCursor < 0 {
		m.tagsCursor = 0
	}
	if m.tagsCursor >= len(entries) {
		m.tagsCursor = len(entries) - 1
	}
	if m.tagsCursor < 0 {
		m.tagsCursor = 0
	}
}

func (m *Model) clampTagsCursor() {
	entries, _ := m.cache.Get(m.tagsBoxID())
	if m.tagsCursor >= len(entries) {
		m.tagsCursor = len(entries) - 1
	}
	if m.tagsCursor < 0 {
		m.tagsCursor = 0
	}
}

// moveTagEntry moves the entry under the cursor to the other box. Both
// cache lists are replaced, matching how the dual-list widget itself
// repartitions its pool.
func (m *Model) moveTagEntry() {
	fromID, toID := m.tagsBoxID(), tagsChosenBoxID
	if m.tagsBox == 1 {
		toID = tagsAvailableBoxID
	}
	fromEntries, _ := m.cache.Get(fromID)
	if m.tagsCursor < 0 || m.tagsCursor >= len(fromEntries) {
		return
	}
	toEntries, _ := m.cache.Get(toID)

	entry := fromEntries[m.tagsCursor]
	fromEntries = append(fromEntries[:m.tagsCursor], fromEntries[m.tagsCursor+1:]...)
	toEntries = append(toEntries, entry)

	m.cache.Set(fromID, fromEntries)
	m.cache.Set(toID, toEntries)
	m.cache.Redisplay(fromID)
	m.cache.Redisplay(toID)
	m.clampTagsCursor()
	m.session.FieldChanged()
}

// --- rendering ---

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	offerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dirtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2)
)

func (m *Model) View() string {
	if m.confirmVisible {
		return confirmStyle.Render(
			"You have unsaved changes.\n\nLeave anyway and lose them? (y/n)")
	}

	var b []string
	path := "/admin/" + m.ref.Resource + "/" + m.ref.Record + "/"
	if m.ref.View == locator.ViewCreate {
		path += "add/"
	} else {
		path += m.ref.Identity + "/change/"
	}
	b = append(b, titleStyle.Render("Edit "+path))

	if m.offer != nil {
		b = append(b, offerStyle.Render(fmt.Sprintf(
			"Unsaved draft from %s found. ctrl+r restore, ctrl+d discard.",
			m.offer.CapturedAt().Format("2006-01-02 15:04"))))
	}
	if m.banner != "" {
		b = append(b, bannerStyle.Render(m.banner))
	}

	b = append(b,
		m.renderRow(fieldTitle, "Title", m.title.View()),
		m.renderRow(fieldSlug, "Slug", m.slug.View()),
		m.renderRow(fieldStatus, "Status", m.renderStatus()),
		m.renderRow(fieldPublished, "Published", m.renderCheckbox()),
		m.renderRow(fieldContent, "Content", m.content.View()),
		m.renderRow(fieldTags, "Tags", m.renderTags()),
	)

	state := m.session.State().String()
	if m.session.Dirty() {
		b = append(b, dirtyStyle.Render("state: "+state))
	} else {
		b = append(b, helpStyle.Render("state: "+state))
	}
	b = append(b, helpStyle.Render(
		"tab/shift+tab move · space toggle · ctrl+s save · esc leave"))

	return lipgloss.JoinVertical(lipgloss.Left, b...)
}

func (m *Model) renderRow(field int, label, body string) string {
	marker := "  "
	if m.focus == field {
		marker = focusStyle.Render("> ")
	}
	return marker + labelStyle.Render(label) + body
}

func (m *Model) renderStatus() string {
	out := ""
	for i, v := range StatusValues {
		mark := "( ) "
		if i == m.statusCursor {
			mark = "(•) "
		}
		out += mark + v + "  "
	}
	return out
}

func (m *Model) renderCheckbox() string {
	if m.frm.Lookup("published").Checked {
		return "[x]"
	}
	return "[ ]"
}

func (m *Model) renderTags() string {
	available, _ := m.cache.Get(tagsAvailableBoxID)
	chosen, _ := m.cache.Get(tagsChosenBoxID)
	return fmt.Sprintf("available %s | chosen %s",
		m.renderTagBox(available, m.tagsBox == 0),
		m.renderTagBox(chosen, m.tagsBox == 1))
}

func (m *Model) renderTagBox(entries []form.Entry, active bool) string {
	if len(entries) == 0 {
		return "[-]"
	}
	out := "["
	for i, e := range entries {
		if i > 0 {
			out += " "
		}
		if active && m.focus == fieldTags && i == m.tagsCursor {
			out += focusStyle.Render(e.Label)
		} else {
			out += e.Label
		}
	}
	return out + "]"
}
