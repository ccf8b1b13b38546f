package presenter

import (
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// NoticeKind tells success notices from error notices.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient message. Seq identifies it for DismissNotice.
type Notice struct {
	Seq  int
	Kind NoticeKind
	Text string
}

// EditState describes the open edit dialog.
type EditState struct {
	Id     int64
	Form   model.ContactForm
	Errors validation.Errors
}

// State is everything a view needs to draw the contact book.
type State struct {
	// Filter is the current search text.
	Filter string
	// Contacts is the list as last returned by the store, sorted by name.
	Contacts []pkgmodel.Contact
	// Form holds the add form values. It is cleared after a successful add
	// and kept after a rejected one.
	Form       model.ContactForm
	FormErrors validation.Errors
	// Editing is non-nil while the edit dialog is open.
	Editing *EditState
	// PendingDelete is non-nil while the delete confirmation is open.
	PendingDelete *pkgmodel.Contact
	Notice        *Notice
}

// Empty reports whether the list has nothing to show, in which case the
// view displays NoResults instead.
func (s State) Empty() bool {
	return len(s.Contacts) == 0
}

func (s State) clone() State {
	c := s
	c.Contacts = append([]pkgmodel.Contact(nil), s.Contacts...)
	c.FormErrors = cloneErrors(s.FormErrors)
	if s.Editing != nil {
		e := *s.Editing
		e.Errors = cloneErrors(s.Editing.Errors)
		c.Editing = &e
	}
	if s.PendingDelete != nil {
		d := *s.PendingDelete
		c.PendingDelete = &d
	}
	if s.Notice != nil {
		n := *s.Notice
		c.Notice = &n
	}
	return c
}

func cloneErrors(errs validation.Errors) validation.Errors {
	if errs == nil {
		return nil
	}
	c := make(validation.Errors, len(errs))
	for k, v := range errs {
		c[k] = v
	}
	return c
}
