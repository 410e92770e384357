package entity

import "time"

type EmergencyContact struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Phone        *string `json:"phone"`
}

// PatientProfile is the record stored in the patients collection, keyed by the account ID.
type PatientProfile struct {
	PatientID string `json:"patientId"`
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`

	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Gender   *string `json:"gender"`
	Address  *string `json:"address"`

	Age               *int     `json:"age"`
	Height            *string  `json:"height"`
	Weight            *string  `json:"weight"`
	BloodGroup        *string  `json:"bloodGroup"`
	ChronicDiseases   []string `json:"chronicDiseases"`
	Medications       []string `json:"medications"`
	Allergies         []string `json:"allergies"`
	MedicalHistory    *string  `json:"medicalHistory"`
	InsuranceProvider *string  `json:"insuranceProvider"`

	EmergencyContact EmergencyContact `json:"emergencyContact"`
	ProfileImage     *string          `json:"profileImage"`

	IsActive        bool       `json:"isActive"`
	ProfileComplete bool       `json:"profileComplete"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastUpdated     *time.Time `json:"lastUpdated,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
}

// NewPatientProfile builds the default record written at sign-up.
func NewPatientProfile(userID, patientID, email, fullName, phone string, now time.Time) *PatientProfile {
	return &PatientProfile{
		PatientID:       patientID,
		UserID:          userID,
		Role:            RolePatient,
		FullName:        fullName,
		Email:           email,
		Phone:           phone,
		ChronicDiseases: []string{},
		Medications:     []string{},
		Allergies:       []string{},
		IsActive:        true,
		CreatedAt:       now,
	}
}

func (p *PatientProfile) ProfileRole() Role { return RolePatient }

func (p *PatientProfile) OwnerID() string { return p.UserID }

// Lookup rebuilds the users record for this profile.
func (p *PatientProfile) Lookup() *RoleLookup {
	return &RoleLookup{
		Email:       p.Email,
		Role:        RolePatient,
		CreatedAt:   p.CreatedAt,
		IsActive:    p.IsActive,
		LastLoginAt: p.LastLoginAt,
	}
}

func (p *PatientProfile) ToDocument() (map[string]any, error) {
	return toDocument(p)
}

func DecodePatientProfile(doc map[string]any) (*PatientProfile, error) {
	p := &PatientProfile{IsActive: true}
	if err := fromDocument(doc, p); err != nil {
		return nil, err
	}
	p.ChronicDiseases = nonNil(p.ChronicDiseases)
	p.Medications = nonNil(p.Medications)
	p.Allergies = nonNil(p.Allergies)
	if p.Role == "" {
		p.Role = RolePatient
	}
	return p, nil
}

func (p *PatientProfile) requiredValues() []requiredValue {
	return []requiredValue{
		{"fullName", hasString(p.FullName)},
		{"email", hasString(p.Email)},
		{"phone", hasString(p.Phone)},
		{"gender", hasText(p.Gender)},
		{"age", hasInt(p.Age)},
		{"height", hasText(p.Height)},
		{"weight", hasText(p.Weight)},
		{"bloodGroup", hasText(p.BloodGroup)},
		{"address", hasText(p.Address)},
	}
}
