package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownFieldPath = errors.New("unknown field path")
	ErrFieldNotAllowed  = errors.New("field is not editable for this role")
	ErrInvalidFieldType = errors.New("invalid value for field")
)

// FieldKind is the value type a field path accepts.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindDecimal
	KindBool
	KindStringList
)

// FieldPath names an editable profile field, either top-level ("phone") or
// one level into a group ("availability.saturday").
type FieldPath string

const (
	FieldFullName          FieldPath = "fullName"
	FieldPhone             FieldPath = "phone"
	FieldGender            FieldPath = "gender"
	FieldAddress           FieldPath = "address"
	FieldProfileImage      FieldPath = "profileImage"
	FieldSpecialization    FieldPath = "specialization"
	FieldExperience        FieldPath = "experience"
	FieldEducation         FieldPath = "education"
	FieldLicenseNumber     FieldPath = "licenseNumber"
	FieldLanguagesSpoken   FieldPath = "languagesSpoken"
	FieldConsultationFee   FieldPath = "consultationFee"
	FieldAbout             FieldPath = "about"
	FieldIsAvailable       FieldPath = "isAvailable"
	FieldWeekdays          FieldPath = "availability.weekdays"
	FieldSaturday          FieldPath = "availability.saturday"
	FieldSunday            FieldPath = "availability.sunday"
	FieldAge               FieldPath = "age"
	FieldHeight            FieldPath = "height"
	FieldWeight            FieldPath = "weight"
	FieldBloodGroup        FieldPath = "bloodGroup"
	FieldChronicDiseases   FieldPath = "chronicDiseases"
	FieldMedications       FieldPath = "medications"
	FieldAllergies         FieldPath = "allergies"
	FieldMedicalHistory    FieldPath = "medicalHistory"
	FieldInsuranceProvider FieldPath = "insuranceProvider"
	FieldEmergencyName     FieldPath = "emergencyContact.name"
	FieldEmergencyRelation FieldPath = "emergencyContact.relationship"
	FieldEmergencyPhone    FieldPath = "emergencyContact.phone"
)

type fieldRule struct {
	kind     FieldKind
	nullable bool
	doctor   bool
	patient  bool
}

var (
	both        = fieldRule{kind: KindText, nullable: true, doctor: true, patient: true}
	doctorText  = fieldRule{kind: KindText, nullable: true, doctor: true}
	patientText = fieldRule{kind: KindText, nullable: true, patient: true}
)

var fieldRules = map[FieldPath]fieldRule{
	FieldFullName:     {kind: KindText, doctor: true, patient: true},
	FieldPhone:        {kind: KindText, doctor: true, patient: true},
	FieldGender:       both,
	FieldAddress:      both,
	FieldProfileImage: both,

	FieldSpecialization:  doctorText,
	FieldExperience:      {kind: KindInt, nullable: true, doctor: true},
	FieldEducation:       doctorText,
	FieldLicenseNumber:   doctorText,
	FieldLanguagesSpoken: {kind: KindStringList, doctor: true},
	FieldConsultationFee: {kind: KindDecimal, nullable: true, doctor: true},
	FieldAbout:           doctorText,
	FieldIsAvailable:     {kind: KindBool, doctor: true},
	FieldWeekdays:        doctorText,
	FieldSaturday:        doctorText,
	FieldSunday:          doctorText,

	FieldAge:               {kind: KindInt, nullable: true, patient: true},
	FieldHeight:            patientText,
	FieldWeight:            patientText,
	FieldBloodGroup:        patientText,
	FieldChronicDiseases:   {kind: KindStringList, patient: true},
	FieldMedications:       {kind: KindStringList, patient: true},
	FieldAllergies:         {kind: KindStringList, patient: true},
	FieldMedicalHistory:    patientText,
	FieldInsuranceProvider: patientText,
	FieldEmergencyName:     patientText,
	FieldEmergencyRelation: patientText,
	FieldEmergencyPhone:    patientText,
}

// ParseFieldPath resolves s to a field path editable by role.
func ParseFieldPath(role Role, s string) (FieldPath, error) {
	path := FieldPath(s)
	rule, ok := fieldRules[path]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldPath, s)
	}
	if !rule.allows(role) {
		return "", fmt.Errorf("%w: %q for %s", ErrFieldNotAllowed, s, role)
	}
	return path, nil
}

func (s fieldRule) allows(role Role) bool {
	return (role == RoleDoctor && s.doctor) || (role == RolePatient && s.patient)
}

func (p FieldPath) AllowedFor(role Role) bool {
	rule, ok := fieldRules[p]
	return ok && rule.allows(role)
}

func (p FieldPath) Kind() FieldKind {
	return fieldRules[p].kind
}

// IsGrouped reports whether the path addresses a key inside a nested group.
func (p FieldPath) IsGrouped() bool {
	return strings.Contains(string(p), ".")
}

// Group returns the top-level key ("availability" for "availability.sunday").
func (p FieldPath) Group() string {
	group, _, _ := strings.Cut(string(p), ".")
	return group
}

// Key returns the innermost key ("sunday" for "availability.sunday").
func (p FieldPath) Key() string {
	if _, key, ok := strings.Cut(string(p), "."); ok {
		return key
	}
	return string(p)
}

func (p FieldPath) String() string {
	return string(p)
}

// Coerce converts v into the stored representation for this path.
func (p FieldPath) Coerce(v any) (any, error) {
	rule, ok := fieldRules[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldPath, p)
	}

	if v == nil {
		switch {
		case rule.kind == KindStringList:
			return []string{}, nil
		case rule.nullable:
			return nil, nil
		default:
			return nil, fmt.Errorf("%w %s: value is required", ErrInvalidFieldType, p)
		}
	}

	var (
		out any
		err error
	)
	switch rule.kind {
	case KindText:
		out, err = coerceText(v)
	case KindInt:
		out, err = coerceInt(v)
	case KindDecimal:
		out, err = coerceDecimal(v)
	case KindBool:
		out, err = coerceBool(v)
	case KindStringList:
		out, err = coerceStringList(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidFieldType, p, err)
	}
	return out, nil
}

func coerceText(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case *string:
		if t == nil {
			return nil, nil
		}
		return *t, nil
	default:
		return nil, fmt.Errorf("expected text, got %T", v)
	}
}

// maxWholeNumber bounds integer fields such as age and experience.
const maxWholeNumber = math.MaxInt32

func coerceInt(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return wholeNumber(int64(t))
	case int32:
		return wholeNumber(int64(t))
	case int64:
		return wholeNumber(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("expected whole number, got %v", t)
		}
		if t < 0 || t > maxWholeNumber {
			return nil, fmt.Errorf("%v is out of range", t)
		}
		return int(t), nil
	case json.Number:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected whole number, got %q", t.String())
		}
		return wholeNumber(n)
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected whole number, got %q", t)
		}
		return wholeNumber(n)
	default:
		return nil, fmt.Errorf("expected number, got %T", v)
	}
}

func wholeNumber(n int64) (any, error) {
	if n < 0 || n > maxWholeNumber {
		return nil, fmt.Errorf("%d is out of range", n)
	}
	return int(n), nil
}

func coerceDecimal(v any) (any, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("expected amount, got %q", t)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("expected amount, got %T", v)
	}
}

func coerceBool(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(t))
	default:
		return nil, fmt.Errorf("expected boolean, got %T", v)
	}
}

func coerceStringList(v any) (any, error) {
	switch t := v.(type) {
	case []string:
		return cleanList(t), nil
	case string:
		return SplitCSV(t), nil
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of text, got %T item", item)
			}
			list = append(list, s)
		}
		return cleanList(list), nil
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
}

// SplitCSV splits a comma-separated list, trimming items and dropping empty ones.
func SplitCSV(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
