package repository

import "strings"

// Role es el rol de un perfil. Se fija al crear el perfil y no cambia.
type Role string

const (
	RoleUnknown   Role = ""
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
)

// ParseRole normaliza un string; cualquier valor fuera del enum es RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient
	case RoleCaregiver:
		return RoleCaregiver
	default:
		return RoleUnknown
	}
}

func (r Role) Valid() bool { return r == RolePatient || r == RoleCaregiver }

func (r Role) String() string { return string(r) }
