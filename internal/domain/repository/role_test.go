package repository

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"patient":     RolePatient,
		" Caregiver ": RoleCaregiver,
		"admin":       RoleUnknown,
		"":            RoleUnknown,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q)=%q want %q", in, got, want)
		}
	}
	if RoleUnknown.Valid() {
		t.Fatal("unknown role must not be valid")
	}
}
