package domain

// Role is the closed set of account roles. String-typed role checks from
// request payloads must go through ParseRole before reaching a guard.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLeadGuide Role = "lead_guide"
	RoleGuide     Role = "guide"
	RoleUser      Role = "user"
)

// ParseRole returns the matching Role, or false for anything outside the enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleLeadGuide, RoleGuide, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

// IsStaff reports whether the role belongs to the staff account kind.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleLeadGuide, RoleGuide:
		return true
	default:
		return false
	}
}

// DefaultPermissions derives the permission set granted to a staff member at
// creation time. Exhaustive over the role enum.
func DefaultPermissions(r Role) []string {
	switch r {
	case RoleAdmin:
		return []string{"create_staff", "manage_users", "view_all_data", "system_config"}
	case RoleLeadGuide:
		return []string{"manage_guides", "view_reports", "schedule_tours"}
	case RoleGuide:
		return []string{"view_schedule", "update_profile"}
	case RoleUser:
		return nil
	default:
		return nil
	}
}
