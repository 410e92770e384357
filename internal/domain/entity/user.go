package entity

import "time"

// RoleLookup is the record in the users collection that tells which profile
// collection an account belongs to.
type RoleLookup struct {
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func NewRoleLookup(email string, role Role, now time.Time) *RoleLookup {
	return &RoleLookup{
		Email:     email,
		Role:      role,
		CreatedAt: now,
		IsActive:  true,
	}
}

func (l *RoleLookup) ToDocument() (map[string]any, error) {
	return toDocument(l)
}

func DecodeRoleLookup(doc map[string]any) (*RoleLookup, error) {
	lookup := &RoleLookup{}
	if err := fromDocument(doc, lookup); err != nil {
		return nil, err
	}
	return lookup, nil
}

// Account is an identity-provider account.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
