package entity

import "time"

// AuditLog represents a profile or account change, stored in the audit_logs collection.
type AuditLog struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Role      Role           `json:"role,omitempty"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (l *AuditLog) ToDocument() (map[string]any, error) {
	return toDocument(l)
}

// Common audit actions
const (
	AuditActionUserRegister      = "user.register"
	AuditActionUserLogin         = "user.login"
	AuditActionUserLogout        = "user.logout"
	AuditActionAccountDeactivate = "account.deactivate"
	AuditActionProfileUpdate     = "profile.update"
	AuditActionAvailability      = "profile.availability"
	AuditActionPictureUpdate     = "profile.picture.update"
	AuditActionPictureRemove     = "profile.picture.remove"
	AuditActionLookupRepair      = "lookup.repair"
)
