package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultSpecialty is used when a directory record carries no specialty at all.
const DefaultSpecialty = "General Medicine"

// Doctor is an entry of the remote doctor directory.
type Doctor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Specialty  string `json:"specialty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	ApprovedAt string `json:"approved_at,omitempty"`
}

// IsApproved reports whether the doctor may be shown to end users.
func (d Doctor) IsApproved() bool {
	return d.ApprovedAt != ""
}

// MatchesSpecialty compares specialties exactly after trimming and lowercasing.
func (d Doctor) MatchesSpecialty(specialty string) bool {
	return NormalizeSpecialtyKey(d.Specialty) == NormalizeSpecialtyKey(specialty)
}

// ResolveSpecialty picks the first non-blank of specialization and specialty,
// falling back to DefaultSpecialty.
func ResolveSpecialty(specialization, specialty string) string {
	if s := strings.TrimSpace(specialization); s != "" {
		return s
	}
	if s := strings.TrimSpace(specialty); s != "" {
		return s
	}
	return DefaultSpecialty
}

// NormalizeSpecialtyKey is the comparison form of a specialty name.
func NormalizeSpecialtyKey(specialty string) string {
	return strings.ToLower(strings.TrimSpace(specialty))
}

// ApprovalStamp turns a raw approvedAt value into its textual form.
// Strings, numbers and non-empty objects are accepted; anything else,
// including null and a missing field, yields "".
func ApprovalStamp(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
			return ""
		}
		return string(raw)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		// null, booleans and arrays
		return ""
	}
}

// ApprovedOnly returns the approved subset, keeping order.
func ApprovedOnly(doctors []Doctor) []Doctor {
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.IsApproved() {
			out = append(out, d)
		}
	}
	return out
}
