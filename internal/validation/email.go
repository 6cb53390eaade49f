package validation

import (
	"net/mail"
	"strings"
)

// Email reglas:
//   - Una sola dirección, sin display name ("Ana <a@b.com>" no vale).
//   - Dominio con al menos un punto y sin puntos en los extremos.
//   - Se espera el valor ya normalizado (trim + lowercase).
func Email(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	dom := s[at+1:]
	return strings.Contains(dom, ".") && !strings.HasPrefix(dom, ".") && !strings.HasSuffix(dom, ".")
}
