package util

import "strings"

// MaskEmail oculta el email para logs: "maria@example.com" → "m…@e….com".
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		switch {
		case s == "":
			return ""
		case len(s) <= 3:
			return "***"
		}
		return s[:1] + "…"
	}
	local, dom := s[:at], s[at+1:]
	if len(local) > 1 {
		local = local[:1] + "…"
	}
	if dot := strings.LastIndexByte(dom, '.'); dot > 1 {
		dom = dom[:1] + "…" + dom[dot:]
	}
	return local + "@" + dom
}
