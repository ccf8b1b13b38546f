// Package presenter turns user actions into validated store calls and keeps
// an explicit view state that a user interface renders.
//
// Every action follows the same flow: validate, call the store, re-query the
// list with the current search text, and hand the new State to the render
// function.
package presenter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// ErrContactNotFound is returned when an edit or delete targets a contact
// that is no longer in the store.
var ErrContactNotFound = errors.New("contact no longer exists")

// Texts shown to the user.
const (
	NoticeUpdated  = "Contact updated successfully!"
	NoticeDeleted  = "Contact deleted successfully!"
	NoticeNotFound = "Contact no longer exists"
	NoResults      = "No contacts found"
)

// CreatedNotice is the success text after a contact with the given name was added.
func CreatedNotice(name string) string {
	return fmt.Sprintf("Contact '%s' added successfully!", name)
}

// Store is the part of the contact store the presenter needs.
type Store interface {
	Create(ctx context.Context, c pkgmodel.Contact) (int64, error)
	List(ctx context.Context, filter string) ([]pkgmodel.Contact, error)
	Get(ctx context.Context, id int64) (pkgmodel.Contact, error)
	Update(ctx context.Context, c pkgmodel.Contact) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// RenderFunc is called with a snapshot of the state after every change.
type RenderFunc func(State)

// Option configures a Presenter.
type Option func(*Presenter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Presenter) { p.logger = logger }
}

// WithRenderFunc registers the function that re-renders the view.
func WithRenderFunc(render RenderFunc) Option {
	return func(p *Presenter) { p.render = render }
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(p *Presenter) { p.validator = v }
}

// Presenter owns the view state of the contact book. It is meant to be driven
// from a single event loop and is not safe for concurrent use.
type Presenter struct {
	store     Store
	validator *validation.Validator
	logger    *zap.Logger
	render    RenderFunc
	state     State
	noticeSeq int
}

// New creates a Presenter on top of the given store. Call Load to fill the
// contact list.
func New(s Store, opts ...Option) *Presenter {
	p := &Presenter{
		store:     s,
		validator: validation.New(),
		logger:    zap.NewNop(),
		render:    func(State) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a snapshot of the current view state.
func (p *Presenter) State() State {
	return p.state.clone()
}

// Load queries the full contact list.
func (p *Presenter) Load(ctx context.Context) error {
	err := p.refresh(ctx)
	p.emit()
	return err
}

// Search re-queries the store with the given text. A blank text lists all
// contacts.
func (p *Presenter) Search(ctx context.Context, text string) error {
	p.state.Filter = text
	err := p.refresh(ctx)
	p.emit()
	return err
}

// Add validates the form and creates a new contact. On a validation failure
// the entered values and the field messages are kept in the state and the
// store is not called; the returned error is a validation.Errors.
func (p *Presenter) Add(ctx context.Context, form model.ContactForm) error {
	normalized, err := p.validator.Contact(form)
	if err != nil {
		p.state.Form = form
		p.state.FormErrors, _ = validation.AsErrors(err)
		p.logger.Debug("contact rejected", zap.Error(err))
		p.emit()
		return err
	}
	p.state.FormErrors = nil

	id, err := p.store.Create(ctx, contactFromForm(0, normalized))
	if err != nil {
		p.state.Form = form
		p.fail("create contact", err)
		return err
	}
	p.logger.Info("contact created", zap.Int64("id", id))

	p.state.Form = model.ContactForm{}
	err = p.refresh(ctx)
	if err == nil {
		p.notify(NoticeSuccess, CreatedNotice(normalized.Name))
	}
	p.emit()
	return err
}

// BeginEdit opens the edit dialog for the contact with the given id, filled
// with its stored values.
func (p *Presenter) BeginEdit(ctx context.Context, id int64) error {
	c, err := p.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return p.missing(ctx, id)
	}
	if err != nil {
		p.fail("load contact", err)
		return err
	}
	p.state.Editing = &EditState{
		Id:   c.Id,
		Form: model.ContactForm{Name: c.Name, Phone: c.Phone, Email: c.Email},
	}
	p.emit()
	return nil
}

// SaveEdit validates the form and overwrites the contact being edited. On a
// validation failure the dialog stays open with the entered values.
func (p *Presenter) SaveEdit(ctx context.Context, form model.ContactForm) error {
	if p.state.Editing == nil {
		return errors.New("no contact is being edited")
	}
	id := p.state.Editing.Id
	normalized, err := p.validator.Contact(form)
	if err != nil {
		p.state.Editing.Form = form
		p.state.Editing.Errors, _ = validation.AsErrors(err)
		p.logger.Debug("contact edit rejected", zap.Int64("id", id), zap.Error(err))
		p.emit()
		return err
	}

	affected, err := p.store.Update(ctx, contactFromForm(id, normalized))
	if err != nil {
		p.state.Editing.Form = form
		p.fail("update contact", err)
		return err
	}
	p.state.Editing = nil
	if !affected {
		return p.missing(ctx, id)
	}
	p.logger.Info("contact updated", zap.Int64("id", id))

	err = p.refresh(ctx)
	if err == nil {
		p.notify(NoticeSuccess, NoticeUpdated)
	}
	p.emit()
	return err
}

// CancelEdit closes the edit dialog without saving.
func (p *Presenter) CancelEdit() {
	p.state.Editing = nil
	p.emit()
}

// RequestDelete asks for confirmation before the contact with the given id is
// deleted. Nothing is written until ConfirmDelete is called.
func (p *Presenter) RequestDelete(id int64) error {
	for _, c := range p.state.Contacts {
		if c.Id == id {
			pending := c
			p.state.PendingDelete = &pending
			p.emit()
			return nil
		}
	}
	return fmt.Errorf("contact %d is not listed: %w", id, ErrContactNotFound)
}

// ConfirmDelete deletes the contact awaiting confirmation.
func (p *Presenter) ConfirmDelete(ctx context.Context) error {
	if p.state.PendingDelete == nil {
		return errors.New("no contact is awaiting deletion")
	}
	id := p.state.PendingDelete.Id
	p.state.PendingDelete = nil

	affected, err := p.store.Delete(ctx, id)
	if err != nil {
		p.fail("delete contact", err)
		return err
	}
	if !affected {
		return p.missing(ctx, id)
	}
	p.logger.Info("contact deleted", zap.Int64("id", id))

	err = p.refresh(ctx)
	if err == nil {
		p.notify(NoticeSuccess, NoticeDeleted)
	}
	p.emit()
	return err
}

// CancelDelete discards the pending delete.
func (p *Presenter) CancelDelete() {
	p.state.PendingDelete = nil
	p.emit()
}

// DismissNotice hides the notice with the given sequence number. A newer
// notice stays visible.
func (p *Presenter) DismissNotice(seq int) {
	if p.state.Notice == nil || p.state.Notice.Seq != seq {
		return
	}
	p.state.Notice = nil
	p.emit()
}

// refresh re-queries the list with the current filter. On failure the old
// list is kept and an error notice is set.
func (p *Presenter) refresh(ctx context.Context) error {
	contacts, err := p.store.List(ctx, p.state.Filter)
	if err != nil {
		p.logger.Error("list contacts failed", zap.String("filter", p.state.Filter), zap.Error(err))
		p.notify(NoticeError, "Could not load contacts: "+err.Error())
		return err
	}
	p.state.Contacts = contacts
	return nil
}

// missing reports a contact that disappeared from the store and refreshes
// the list so that it is no longer shown.
func (p *Presenter) missing(ctx context.Context, id int64) error {
	p.logger.Warn("contact not found", zap.Int64("id", id))
	if err := p.refresh(ctx); err == nil {
		p.notify(NoticeError, NoticeNotFound)
	}
	p.emit()
	return fmt.Errorf("contact %d: %w", id, ErrContactNotFound)
}

// fail reports a store failure to the user. The current action is abandoned
// but the presenter stays usable.
func (p *Presenter) fail(action string, err error) {
	p.logger.Error(action+" failed", zap.Error(err))
	p.notify(NoticeError, "Could not "+action+": "+err.Error())
	p.emit()
}

func (p *Presenter) notify(kind NoticeKind, text string) {
	p.noticeSeq++
	p.state.Notice = &Notice{Seq: p.noticeSeq, Kind: kind, Text: text}
}

func (p *Presenter) emit() {
	p.render(p.State())
}

func contactFromForm(id int64, form model.ContactForm) pkgmodel.Contact {
	return pkgmodel.Contact{Id: id, Name: form.Name, Phone: form.Phone, Email: form.Email}
}
