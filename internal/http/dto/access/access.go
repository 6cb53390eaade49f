// Package access contiene el DTO del chequeo de acceso por rol.
package access

// AccessResponse indica si la vista pedida se permite o a dónde redirigir.
type AccessResponse struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Role       string `json:"role,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}
