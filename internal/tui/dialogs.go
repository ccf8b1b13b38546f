package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// confirmView renders the delete confirmation for c.
func confirmView(s Styles, c pkgmodel.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete %s?\n", s.CardName.Render(c.Name))
	fmt.Fprintf(&b, "\n  %s\n  %s\n", c.Phone, c.Email)
	b.WriteString("\n  This cannot be undone.")
	b.WriteString("\n\n  [y] Delete   [n] Keep")
	return s.DangerDialog.Render(b.String())
}

// editView renders the edit dialog with its inputs and field errors.
func editView(s Styles, inputs [fieldCount]textinput.Model, ed *presenter.EditState) string {
	var b strings.Builder
	b.WriteString(s.Section.Render("Edit contact"))
	b.WriteString("\n\n")
	b.WriteString(formView(s, inputs, ed.Errors))
	b.WriteString("\n  [Enter] Save   [Esc] Cancel")
	return s.Dialog.Render(b.String())
}
