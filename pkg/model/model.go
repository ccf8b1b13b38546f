package model

// Contact is the data structure for a person that we know.
// The Id is assigned by the store on creation and never changes afterwards.
type Contact struct {
	Id    int64  `json:"id"    db:"id"`
	Name  string `json:"name"  db:"name"`
	Phone string `json:"phone" db:"phone"`
	Email string `json:"email" db:"email"`
}
