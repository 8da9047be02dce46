package types

import "time"

// Account is the identity record created at signup, keyed by the identity
// provider subject.
type Account struct {
	ID           string    `db:"id" json:"uid"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"firstName"`
	MiddleName   *string   `db:"middle_name" json:"middleName,omitempty"`
	LastName     string    `db:"last_name" json:"lastName"`
	Birthday     string    `db:"birthday" json:"birthday"`
	TempPassword bool      `db:"temp_password" json:"tempPassword"`
	CompleteInfo bool      `db:"complete_info" json:"completeInfo"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is the verified caller of an authenticated route.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}
