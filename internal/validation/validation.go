// Package validation implements the field rules every contact must satisfy
// before it is written to the store.
package validation

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// Phone digits are ASCII only. Email word characters are letters and numbers
// of any script plus the underscore.
var (
	phonePattern = regexp.MustCompile(`^\d{11}$`)
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
)

// Field identifies one input field of the contact form.
type Field string

const (
	FieldName  Field = "name"
	FieldPhone Field = "phone"
	FieldEmail Field = "email"
)

// Messages shown next to the offending field.
const (
	MsgNameEmpty    = "Name cannot be empty"
	MsgPhoneInvalid = "Phone must be 11 digits (numbers only)"
	MsgEmailInvalid = "Please enter a valid email address"
)

// messages maps the struct field of model.ContactForm to its error message.
var messages = map[string]struct {
	field Field
	msg   string
}{
	"Name":  {FieldName, MsgNameEmpty},
	"Phone": {FieldPhone, MsgPhoneInvalid},
	"Email": {FieldEmail, MsgEmailInvalid},
}

// Errors holds one message per failed field. It is returned as an error
// whenever at least one rule failed.
type Errors map[Field]string

// Error joins all messages in field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[Field(f)])
	}
	return "invalid contact: " + strings.Join(parts, "; ")
}

// AsErrors extracts the field messages from err. The second return value is
// false if err does not carry validation errors.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Validator checks contact forms.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the phone and email rules registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("phone11", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Normalize trims surrounding whitespace from all fields.
func Normalize(form model.ContactForm) model.ContactForm {
	return model.ContactForm{
		Name:  strings.TrimSpace(form.Name),
		Phone: strings.TrimSpace(form.Phone),
		Email: strings.TrimSpace(form.Email),
	}
}

// Contact normalizes the form and checks all three rules. Every rule is
// evaluated, so the returned Errors may contain more than one message. The
// normalized form is returned in both cases.
func (v *Validator) Contact(form model.ContactForm) (model.ContactForm, error) {
	form = Normalize(form)
	err := v.validate.Struct(form)
	if err == nil {
		return form, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return form, err
	}
	errs := Errors{}
	for _, fe := range fieldErrs {
		m, ok := messages[fe.StructField()]
		if !ok {
			continue
		}
		errs[m.field] = m.msg
	}
	return form, errs
}
