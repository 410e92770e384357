package entity

import "fmt"

// Role is the account kind chosen at sign-up. It selects the profile collection.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Collection names
const (
	CollectionDoctors   = "doctors"
	CollectionPatients  = "patients"
	CollectionUsers     = "users"
	CollectionAuditLogs = "audit_logs"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoctor, RolePatient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Collection returns the document collection holding profiles of this role.
func (r Role) Collection() string {
	if r == RoleDoctor {
		return CollectionDoctors
	}
	return CollectionPatients
}

func (r Role) IDPrefix() string {
	if r == RoleDoctor {
		return "DOC"
	}
	return "PAT"
}

// MediaFolder is the CDN folder profile pictures of this role are uploaded to.
func (r Role) MediaFolder() string {
	return string(r) + "_profiles"
}

func (r Role) String() string {
	return string(r)
}
