package domain

import "strings"

// UserProfile is the backend profile bound to the active user id.
type UserProfile struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	City              string `json:"city"`
	DietaryPreference string `json:"dietary_preference"`
	MedicalConditions string `json:"medical_conditions"`
}

// Name returns the display name, "first last".
func (p UserProfile) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// GivenName returns the first word of the display name, or "" when the profile has no name.
func (p UserProfile) GivenName() string {
	fields := strings.Fields(p.Name())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
