package middlewares

import (
	"net/http"
	"strings"
)

// DefaultCORSHeaders son los headers que manda el cliente web.
var DefaultCORSHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// CORSConfig configura WithCORS. Origins vacío equivale a "*".
type CORSConfig struct {
	AllowedOrigins []string
	AllowedHeaders []string
}

// WithCORS agrega los headers CORS a toda respuesta y contesta el preflight
// OPTIONS con 200 sin body. Con "*" en la lista se responde el literal "*".
func WithCORS(cfg CORSConfig) Middleware {
	trim := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }

	wildcard := len(cfg.AllowedOrigins) == 0
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = trim(o)
		if o == "*" {
			wildcard = true
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = DefaultCORSHeaders
	}
	allowHeaders := strings.Join(headers, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			allowed := ""
			if wildcard {
				allowed = "*"
			} else {
				origin := trim(r.Header.Get("Origin"))
				for _, o := range origins {
					if origin != "" && strings.EqualFold(origin, o) {
						allowed = origin
						break
					}
				}
				h.Add("Vary", "Origin")
			}

			if allowed != "" {
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
