package entity

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Availability holds free-text opening hours. Each part is independently nullable.
type Availability struct {
	Weekdays *string `json:"weekdays"`
	Saturday *string `json:"saturday"`
	Sunday   *string `json:"sunday"`
}

// UnmarshalJSON accepts the legacy empty-array form written by older clients.
func (a *Availability) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*a = Availability{}
		return nil
	}

	type plain Availability
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Availability(p)
	return nil
}

// DoctorProfile is the record stored in the doctors collection, keyed by the account ID.
type DoctorProfile struct {
	DoctorID string `json:"doctorId"`
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`

	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Gender   *string `json:"gender"`
	Address  *string `json:"address"`

	Specialization  *string  `json:"specialization"`
	Experience      *int     `json:"experience"`
	Education       *string  `json:"education"`
	LicenseNumber   *string  `json:"licenseNumber"`
	LanguagesSpoken []string `json:"languagesSpoken"`
	About           *string  `json:"about"`

	ConsultationFee *decimal.Decimal `json:"consultationFee"`
	Availability    Availability     `json:"availability"`
	IsAvailable     bool             `json:"isAvailable"`

	Ratings      float64 `json:"ratings"`
	TotalReviews int     `json:"totalReviews"`
	ProfileImage *string `json:"profileImage"`

	IsActive        bool       `json:"isActive"`
	ProfileComplete bool       `json:"profileComplete"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastUpdated     *time.Time `json:"lastUpdated,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
}

// NewDoctorProfile builds the default record written at sign-up.
func NewDoctorProfile(userID, doctorID, email, fullName, phone string, now time.Time) *DoctorProfile {
	return &DoctorProfile{
		DoctorID:        doctorID,
		UserID:          userID,
		Role:            RoleDoctor,
		FullName:        fullName,
		Email:           email,
		Phone:           phone,
		LanguagesSpoken: []string{},
		IsAvailable:     true,
		IsActive:        true,
		CreatedAt:       now,
	}
}

func (p *DoctorProfile) ProfileRole() Role { return RoleDoctor }

func (p *DoctorProfile) OwnerID() string { return p.UserID }

// Lookup rebuilds the users record for this profile.
func (p *DoctorProfile) Lookup() *RoleLookup {
	return &RoleLookup{
		Email:       p.Email,
		Role:        RoleDoctor,
		CreatedAt:   p.CreatedAt,
		IsActive:    p.IsActive,
		LastLoginAt: p.LastLoginAt,
	}
}

func (p *DoctorProfile) ToDocument() (map[string]any, error) {
	return toDocument(p)
}

func DecodeDoctorProfile(doc map[string]any) (*DoctorProfile, error) {
	// Records created before these flags existed default to active.
	p := &DoctorProfile{IsActive: true, IsAvailable: true}
	if err := fromDocument(doc, p); err != nil {
		return nil, err
	}
	p.LanguagesSpoken = nonNil(p.LanguagesSpoken)
	if p.Role == "" {
		p.Role = RoleDoctor
	}
	return p, nil
}

func (p *DoctorProfile) requiredValues() []requiredValue {
	return []requiredValue{
		{"fullName", hasString(p.FullName)},
		{"email", hasString(p.Email)},
		{"phone", hasString(p.Phone)},
		{"specialization", hasText(p.Specialization)},
		{"gender", hasText(p.Gender)},
		{"experience", hasInt(p.Experience)},
		{"education", hasText(p.Education)},
		{"licenseNumber", hasText(p.LicenseNumber)},
		{"consultationFee", hasDecimal(p.ConsultationFee)},
	}
}
