package domain

import "time"

// Staff models a staff account (admin, lead guide, guide). Staff never carry
// verification state; they are created pre-activated by an admin or through
// the OTP elevation flow.
type Staff struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Department  string   `json:"department"`
	EmployeeID  string   `json:"employee_id"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
	CreatedBy   string   `json:"created_by,omitempty"`

	// PasswordChanged is false while the account still carries the temporary
	// password set by the admin who created it.
	PasswordChanged bool `json:"password_changed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OTPEntry is the ephemeral one-time code stored in the token cache during
// privileged staff elevation. Single-use, short TTL.
type OTPEntry struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
}
