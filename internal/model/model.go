package model

// ContactForm holds the values a user entered into the add or edit form.
// Nothing in a ContactForm has been checked yet; see package validation.
type ContactForm struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"phone11"`
	Email string `json:"email" validate:"contactemail"`
}
