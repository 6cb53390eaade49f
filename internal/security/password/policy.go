package password

import (
	"strings"
	"unicode"
)

// Policy es la política de passwords elegidos por el usuario (sign-up).
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// Validate retorna ok y los motivos de rechazo (too_short, missing_upper, ...).
func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	for _, c := range []struct {
		need, has bool
		reason    string
	}{
		{p.RequireUpper, hasU, "missing_upper"},
		{p.RequireLower, hasL, "missing_lower"},
		{p.RequireDigit, hasD, "missing_digit"},
		{p.RequireSymbol, hasS, "missing_symbol"},
	} {
		if c.need && !c.has {
			reasons = append(reasons, c.reason)
		}
	}
	return len(reasons) == 0, reasons
}

// Describe arma un mensaje legible a partir de los motivos.
func Describe(reasons []string) string {
	return "password does not meet policy: " + strings.Join(reasons, ", ")
}
