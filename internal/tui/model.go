// Package tui is the interactive terminal front end of the contact book. It
// renders the view state of a presenter.Presenter and forwards user input
// to it.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
)

// focusArea is the part of the main screen that receives key input.
type focusArea int

const (
	focusSearch focusArea = iota
	focusName
	focusPhone
	focusEmail
	focusList
	focusAreaCount
)

// Indexes into the form and edit input arrays.
const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldCount
)

// noticeExpiredMsg is sent when a notice has been shown long enough.
type noticeExpiredMsg struct {
	seq int
}

// Model is the root Bubble Tea model of the contact book.
type Model struct {
	ctx       context.Context
	presenter *presenter.Presenter

	theme       Theme
	styles      Styles
	noticeDelay time.Duration
	// scheduledSeq is the last notice for which an expiry was scheduled.
	scheduledSeq int

	search    textinput.Model
	form      [fieldCount]textinput.Model
	edit      [fieldCount]textinput.Model
	editFocus int

	focus    focusArea
	selected int

	mainKeys    mainKeys
	editKeys    editKeys
	confirmKeys confirmKeys
	help        help.Model

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the initial theme.
func WithTheme(theme Theme) Option {
	return func(m *Model) {
		m.theme = theme
		m.styles = NewStyles(theme)
	}
}

// WithNoticeDelay sets how long success and error notices stay visible.
func WithNoticeDelay(d time.Duration) Option {
	return func(m *Model) { m.noticeDelay = d }
}

// NewModel creates the model with the add form's name field focused. The
// presenter should already be loaded.
func NewModel(ctx context.Context, p *presenter.Presenter, opts ...Option) Model {
	m := Model{
		ctx:         ctx,
		presenter:   p,
		theme:       ThemeDark,
		styles:      NewStyles(ThemeDark),
		noticeDelay: 3 * time.Second,
		search:      newInput("Search by name, phone, or email", 0),
		mainKeys:    MainKeyMap(),
		editKeys:    EditKeyMap(),
		confirmKeys: ConfirmKeyMap(),
		help:        help.New(),
		focus:       focusName,
	}
	m.form = newContactInputs()
	m.edit = newContactInputs()
	for _, opt := range opts {
		opt(&m)
	}
	m.applyFocus()
	if n := p.State().Notice; n != nil {
		m.scheduledSeq = n.Seq
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func newContactInputs() [fieldCount]textinput.Model {
	return [fieldCount]textinput.Model{
		fieldName:  newInput("Full name", 100),
		fieldPhone: newInput("11 digits", 0),
		fieldEmail: newInput("name@example.com", 100),
	}
}

// Init starts the cursor blinking and schedules the expiry of a notice
// already present at startup.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if n := m.presenter.State().Notice; n != nil {
		cmds = append(cmds, m.expireNotice(n.Seq))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages with mode-based routing: the delete
// confirmation and the edit dialog take all keys while they are open.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case noticeExpiredMsg:
		m.presenter.DismissNotice(msg.seq)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		st := m.presenter.State()
		switch {
		case st.PendingDelete != nil:
			return m.handleConfirmKey(msg)
		case st.Editing != nil:
			return m.handleEditKey(msg)
		default:
			return m.handleMainKey(msg)
		}
	}

	return m.updateFocusedInput(msg)
}

// handleMainKey processes keys on the main screen.
func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.mainKeys.Theme):
		m.theme = m.theme.Toggle()
		m.styles = NewStyles(m.theme)
		return m, nil
	case key.Matches(msg, m.mainKeys.NextField):
		m.focus = (m.focus + 1) % focusAreaCount
		return m, m.applyFocus()
	case key.Matches(msg, m.mainKeys.PrevField):
		m.focus = (m.focus + focusAreaCount - 1) % focusAreaCount
		return m, m.applyFocus()
	case key.Matches(msg, m.mainKeys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.mainKeys.Down):
		m.moveSelection(1)
		return m, nil
	}

	switch m.focus {
	case focusList:
		return m.handleListKey(msg)
	case focusName, focusPhone, focusEmail:
		if key.Matches(msg, m.mainKeys.Submit) {
			return m.submitAdd()
		}
	}
	return m.updateFocusedInput(msg)
}

// handleListKey processes keys while the contact list has focus.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	contacts := m.presenter.State().Contacts
	m.clampSelection()
	switch {
	case key.Matches(msg, m.mainKeys.Search):
		m.focus = focusSearch
		return m, m.applyFocus()
	case key.Matches(msg, m.mainKeys.Edit):
		if len(contacts) == 0 {
			return m, nil
		}
		_ = m.presenter.BeginEdit(m.ctx, contacts[m.selected].Id)
		if ed := m.presenter.State().Editing; ed != nil {
			m.loadEditInputs(ed)
			return m, m.edit[m.editFocus].Focus()
		}
		m.clampSelection()
		return m, m.noticeCmd()
	case key.Matches(msg, m.mainKeys.Delete):
		if len(contacts) == 0 {
			return m, nil
		}
		_ = m.presenter.RequestDelete(contacts[m.selected].Id)
		return m, nil
	}
	return m, nil
}

// handleEditKey processes keys while the edit dialog is open.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Cancel):
		m.presenter.CancelEdit()
		return m, nil
	case key.Matches(msg, m.editKeys.NextField):
		m.editFocus = (m.editFocus + 1) % fieldCount
		return m, m.applyEditFocus()
	case key.Matches(msg, m.editKeys.PrevField):
		m.editFocus = (m.editFocus + fieldCount - 1) % fieldCount
		return m, m.applyEditFocus()
	case key.Matches(msg, m.editKeys.Save):
		_ = m.presenter.SaveEdit(m.ctx, formFrom(m.edit))
		m.clampSelection()
		return m, m.noticeCmd()
	}
	var cmd tea.Cmd
	m.edit[m.editFocus], cmd = m.edit[m.editFocus].Update(msg)
	return m, cmd
}

// handleConfirmKey processes keys while the delete confirmation is open.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		_ = m.presenter.ConfirmDelete(m.ctx)
		m.clampSelection()
		return m, m.noticeCmd()
	case key.Matches(msg, m.confirmKeys.No):
		m.presenter.CancelDelete()
	}
	return m, nil
}

// submitAdd hands the add form to the presenter and mirrors the resulting
// form values back into the inputs: cleared on success, kept on rejection.
func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	err := m.presenter.Add(m.ctx, formFrom(m.form))
	st := m.presenter.State()
	m.form[fieldName].SetValue(st.Form.Name)
	m.form[fieldPhone].SetValue(st.Form.Phone)
	m.form[fieldEmail].SetValue(st.Form.Email)
	var focusCmd tea.Cmd
	if err == nil {
		m.focus = focusName
		focusCmd = m.applyFocus()
	}
	m.clampSelection()
	return m, tea.Batch(focusCmd, m.noticeCmd())
}

// updateFocusedInput forwards msg to the focused text input. Changes of the
// search text re-query the store right away.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.presenter.State().Filter {
			_ = m.presenter.Search(m.ctx, m.search.Value())
			m.selected = 0
			return m, tea.Batch(cmd, m.noticeCmd())
		}
	case focusName:
		m.form[fieldName], cmd = m.form[fieldName].Update(msg)
	case focusPhone:
		m.form[fieldPhone], cmd = m.form[fieldPhone].Update(msg)
	case focusEmail:
		m.form[fieldEmail], cmd = m.form[fieldEmail].Update(msg)
	}
	if ed := m.presenter.State().Editing; ed != nil {
		var editCmd tea.Cmd
		m.edit[m.editFocus], editCmd = m.edit[m.editFocus].Update(msg)
		cmd = tea.Batch(cmd, editCmd)
	}
	return m, cmd
}

// applyFocus focuses the input that matches m.focus and blurs all others.
func (m *Model) applyFocus() tea.Cmd {
	m.search.Blur()
	for i := range m.form {
		m.form[i].Blur()
	}
	switch m.focus {
	case focusSearch:
		return m.search.Focus()
	case focusName:
		return m.form[fieldName].Focus()
	case focusPhone:
		return m.form[fieldPhone].Focus()
	case focusEmail:
		return m.form[fieldEmail].Focus()
	}
	return nil
}

func (m *Model) applyEditFocus() tea.Cmd {
	for i := range m.edit {
		m.edit[i].Blur()
	}
	return m.edit[m.editFocus].Focus()
}

func (m *Model) loadEditInputs(ed *presenter.EditState) {
	m.edit[fieldName].SetValue(ed.Form.Name)
	m.edit[fieldPhone].SetValue(ed.Form.Phone)
	m.edit[fieldEmail].SetValue(ed.Form.Email)
	for i := range m.edit {
		m.edit[i].CursorEnd()
	}
	m.editFocus = fieldName
	m.applyEditFocus()
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.presenter.State().Contacts)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// noticeCmd schedules the expiry of the current notice unless that was
// done before.
func (m *Model) noticeCmd() tea.Cmd {
	n := m.presenter.State().Notice
	if n == nil || n.Seq == m.scheduledSeq {
		return nil
	}
	m.scheduledSeq = n.Seq
	return m.expireNotice(n.Seq)
}

func (m Model) expireNotice(seq int) tea.Cmd {
	return tea.Tick(m.noticeDelay, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func formFrom(inputs [fieldCount]textinput.Model) model.ContactForm {
	return model.ContactForm{
		Name:  inputs[fieldName].Value(),
		Phone: inputs[fieldPhone].Value(),
		Email: inputs[fieldEmail].Value(),
	}
}
