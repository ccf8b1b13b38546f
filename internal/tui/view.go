package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// cardHeight is the number of lines one contact card takes, including the
// blank separator line.
const cardHeight = 3

// chromeHeight is the number of lines above and below the contact list.
const chromeHeight = 17

// View renders the main screen, or the open dialog on top of it.
func (m Model) View() string {
	st := m.presenter.State()
	var keys help.KeyMap = m.mainKeys
	var body string
	switch {
	case st.PendingDelete != nil:
		body = m.center(confirmView(m.styles, *st.PendingDelete))
		keys = m.confirmKeys
	case st.Editing != nil:
		body = m.center(editView(m.styles, m.edit, st.Editing))
		keys = m.editKeys
	default:
		body = m.mainView(st)
	}

	var b strings.Builder
	b.WriteString(m.titleBar())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if st.Notice != nil {
		b.WriteString(m.noticeView(*st.Notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

// titleBar renders the application title and the theme toggle.
func (m Model) titleBar() string {
	icon := "☾ dark"
	if m.theme == ThemeLight {
		icon = "☀ light"
	}
	title := m.styles.Title.Render("Contact Book")
	toggle := m.styles.Button.Render(fmt.Sprintf("[ctrl+t] %s", icon))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(toggle)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + toggle
}

// mainView renders search box, add form, and contact list.
func (m Model) mainView(st presenter.State) string {
	var b strings.Builder

	b.WriteString(m.styles.Section.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Section.Render("Add contact"))
	b.WriteString("\n")
	b.WriteString(formView(m.styles, m.form, st.FormErrors))
	b.WriteString(m.styles.Button.Render("[enter] Add contact"))
	b.WriteString("\n\n")

	listTitle := fmt.Sprintf("Contacts (%d)", len(st.Contacts))
	if m.focus == focusList {
		listTitle += " ◂"
	}
	b.WriteString(m.styles.Section.Render(listTitle))
	b.WriteString("\n")
	b.WriteString(m.listView(st))
	return b.String()
}

// listView renders the visible window of contact cards around the
// selection, or the placeholder for an empty result.
func (m Model) listView(st presenter.State) string {
	if st.Empty() {
		return m.styles.Placeholder.Render(presenter.NoResults)
	}
	first, last := visibleRange(len(st.Contacts), m.selected, m.visibleCards())
	cards := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		cards = append(cards, cardView(m.styles, st.Contacts[i], i == m.selected))
	}
	list := strings.Join(cards, "\n\n")
	if first > 0 {
		list = m.styles.CardDetail.Render(fmt.Sprintf("  ↑ %d more", first)) + "\n" + list
	}
	if rest := len(st.Contacts) - last; rest > 0 {
		list += "\n" + m.styles.CardDetail.Render(fmt.Sprintf("  ↓ %d more", rest))
	}
	return list
}

// visibleCards returns how many cards fit on screen. Before the first
// window size message every card is shown.
func (m Model) visibleCards() int {
	if m.height == 0 {
		return 0
	}
	n := (m.height - chromeHeight) / cardHeight
	if n < 1 {
		return 1
	}
	return n
}

// visibleRange returns the half-open range of cards to draw so that the
// selected card is on screen. A window of 0 means unlimited.
func visibleRange(total, selected, window int) (first, last int) {
	if window <= 0 || total <= window {
		return 0, total
	}
	first = selected - window/2
	if first < 0 {
		first = 0
	}
	if first+window > total {
		first = total - window
	}
	return first, first + window
}

func cardView(s Styles, c pkgmodel.Contact, selected bool) string {
	style := s.Card
	if selected {
		style = s.SelectedCard
	}
	content := s.CardName.Render(c.Name) + "\n" +
		s.CardDetail.Render(c.Phone+" · "+c.Email)
	return style.Render(content)
}

// formView renders the three labelled inputs with their field errors.
func formView(s Styles, inputs [fieldCount]textinput.Model, errs validation.Errors) string {
	rows := []struct {
		label string
		field validation.Field
		input textinput.Model
	}{
		{"Name", validation.FieldName, inputs[fieldName]},
		{"Phone", validation.FieldPhone, inputs[fieldPhone]},
		{"Email", validation.FieldEmail, inputs[fieldEmail]},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(s.Label.Render(row.label))
		b.WriteString(row.input.View())
		b.WriteString("\n")
		if msg, ok := errs[row.field]; ok {
			b.WriteString(s.Label.Render(""))
			b.WriteString(s.FieldError.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) noticeView(n presenter.Notice) string {
	if n.Kind == presenter.NoticeError {
		return m.styles.Failure.Render("✗ " + n.Text)
	}
	return m.styles.Success.Render("✓ " + n.Text)
}

// center places a dialog in the middle of the area below the title bar.
func (m Model) center(dialog string) string {
	if m.width == 0 || m.height == 0 {
		return dialog
	}
	h := m.height - 3
	if h < lipgloss.Height(dialog) {
		h = lipgloss.Height(dialog)
	}
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, dialog)
}
