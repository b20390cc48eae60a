package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         Role

	PasswordChangedAt time.Time

	// Pending password reset. Only the bcrypt hash of the one-time code is
	// stored; both fields are nil when no reset is pending.
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time

	// IDs of courses the user has paid for.
	PurchasedCourses []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owns reports whether the user has already purchased the course.
func (u *User) Owns(courseID string) bool {
	for _, id := range u.PurchasedCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// ChangedPasswordAfter reports whether the password was rotated after the
// given token issue time. Tokens issued before a rotation must be rejected.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
