package entity

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Profile is implemented by DoctorProfile and PatientProfile.
type Profile interface {
	ProfileRole() Role
	OwnerID() string
	Lookup() *RoleLookup
	ToDocument() (map[string]any, error)
	requiredValues() []requiredValue
}

type requiredValue struct {
	field   string
	present bool
}

// Completion reports how much of the required profile data is filled in.
type Completion struct {
	IsComplete     bool     `json:"isComplete"`
	Percentage     int      `json:"percentage"`
	MissingFields  []string `json:"missingFields"`
	RequiredFields []string `json:"requiredFields"`
}

// ComputeCompletion is pure: it only inspects the record it is given.
func ComputeCompletion(p Profile) Completion {
	values := p.requiredValues()

	required := make([]string, 0, len(values))
	missing := []string{}
	for _, v := range values {
		required = append(required, v.field)
		if !v.present {
			missing = append(missing, v.field)
		}
	}

	total := float64(len(values))
	percentage := int(math.Round((total - float64(len(missing))) / total * 100))

	return Completion{
		IsComplete:     len(missing) == 0,
		Percentage:     percentage,
		MissingFields:  missing,
		RequiredFields: required,
	}
}

func hasString(s string) bool {
	return strings.TrimSpace(s) != ""
}

func hasText(s *string) bool {
	return s != nil && hasString(*s)
}

func hasInt(n *int) bool {
	return n != nil && *n != 0
}

func hasDecimal(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}
