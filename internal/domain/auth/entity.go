// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

// User roles. Premium is granted by an active subscription and revoked when
// the subscription lapses; admin and manager are assigned administratively.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
	RolePremium = "premium"
)

type User struct {
	ID             int64          `json:"id" db:"id"`
	Email          string         `json:"email" db:"email"`
	PasswordHash   string         `json:"-" db:"password_hash"`
	FullName       string         `json:"full_name" db:"full_name"`
	Role           string         `json:"role" db:"role"`
	Phone          sql.NullString `json:"phone,omitempty" db:"phone"`
	BankName       sql.NullString `json:"bank_name,omitempty" db:"bank_name"`
	BankAccount    sql.NullString `json:"bank_account,omitempty" db:"bank_account"`
	BillingAddress sql.NullString `json:"billing_address,omitempty" db:"billing_address"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// HasPremiumAccess reports whether the user's role grants premium features.
func (u *User) HasPremiumAccess() bool {
	return u.Role == RolePremium || u.Role == RoleAdmin
}
