package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

// print muestra el body; en modo text aplana el primer nivel del JSON.
func (c *client) print(status int, body []byte) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil || len(body) == 0 {
		if len(body) > 0 {
			fmt.Println(string(body))
		} else {
			fmt.Printf("status=%d\n", status)
		}
		return
	}
	if c.OutFormat == "json" {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	m, ok := v.(map[string]any)
	if !ok {
		fmt.Println(string(body))
		return
	}
	for k, val := range m {
		switch val.(type) {
		case map[string]any, []any:
			b, _ := json.Marshal(val)
			fmt.Printf("%s=%s\n", k, b)
		default:
			fmt.Printf("%s=%v\n", k, val)
		}
	}
}

// call ejecuta y falla ante status no-2xx.
func (c *client) call(method, path string, payload any) error {
	status, body, err := c.do(method, path, payload)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("%s %s: status=%d body=%s", method, path, status, strings.TrimSpace(string(body)))
	}
	c.print(status, body)
	return nil
}

func main() {
	var (
		baseURL = envOr("ELDERWATCH_URL", "http://localhost:8080")
		token   = envOr("ELDERWATCH_TOKEN", "")
		out     = envOr("ELDERWATCH_OUT", "text")
		timeout = 30 * time.Second
	)

	cl := &client{HTTP: &http.Client{Timeout: timeout}}

	root := &cobra.Command{
		Use:           "elderwatch",
		Short:         "CLI para la API de Elder Watch",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if out != "json" && out != "text" {
				return fmt.Errorf("--out inválido: %q (json|text)", out)
			}
			cl.BaseURL, cl.Token, cl.OutFormat = baseURL, token, out
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env ELDERWATCH_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token (env ELDERWATCH_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	requireToken := func(cmd *cobra.Command, args []string) error {
		if cl.Token == "" {
			return fmt.Errorf("falta token (flag --token o env ELDERWATCH_TOKEN)")
		}
		return nil
	}

	// ---- auth ----
	var email, pass, displayName string
	signUpCmd := &cobra.Command{
		Use:   "signup",
		Short: "Registrar un cuidador",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || pass == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			return cl.call(http.MethodPost, "/v1/auth/signup", map[string]string{
				"email": email, "password": pass, "display_name": displayName,
			})
		},
	}
	signUpCmd.Flags().StringVar(&email, "email", "", "Email")
	signUpCmd.Flags().StringVar(&pass, "password", "", "Password")
	signUpCmd.Flags().StringVar(&displayName, "name", "", "Nombre visible")

	signInCmd := &cobra.Command{
		Use:   "signin",
		Short: "Iniciar sesión e imprimir el access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || pass == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			return cl.call(http.MethodPost, "/v1/auth/signin", map[string]string{"email": email, "password": pass})
		},
	}
	signInCmd.Flags().StringVar(&email, "email", "", "Email")
	signInCmd.Flags().StringVar(&pass, "password", "", "Password")

	meCmd := &cobra.Command{
		Use:     "me",
		Short:   "Identidad y perfil de la sesión",
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodGet, "/v1/auth/me", nil)
		},
	}

	// ---- patients ----
	patientsCmd := &cobra.Command{
		Use:   "patients",
		Short: "Pacientes del cuidador",
	}

	var pName, pEmail, pPhone, pEmergency string
	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Aprovisionar un paciente (imprime el password temporal una sola vez)",
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{"name": pName, "email": pEmail}
			if pPhone != "" {
				payload["phone"] = pPhone
			}
			if pEmergency != "" {
				payload["emergencyContact"] = pEmergency
			}
			return cl.call(http.MethodPost, "/v1/patients", payload)
		},
	}
	addCmd.Flags().StringVar(&pName, "name", "", "Nombre completo")
	addCmd.Flags().StringVar(&pEmail, "email", "", "Email del paciente")
	addCmd.Flags().StringVar(&pPhone, "phone", "", "Teléfono (opcional)")
	addCmd.Flags().StringVar(&pEmergency, "emergency-contact", "", "Contacto de emergencia (opcional)")

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "Listar pacientes vinculados",
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodGet, "/v1/patients", nil)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:     "reconcile",
		Short:   "Recrear links faltantes de pacientes creados por el cuidador",
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodPost, "/v1/patients/links/reconcile", nil)
		},
	}

	healthCmd := &cobra.Command{
		Use:     "health <patient-id|me>",
		Short:   "Muestras y alertas de un paciente",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodGet, "/v1/patients/"+url.PathEscape(args[0])+"/health", nil)
		},
	}

	overviewCmd := &cobra.Command{
		Use:     "overview",
		Short:   "Resumen de todos los pacientes vinculados",
		PreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodGet, "/v1/dashboard/overview", nil)
		},
	}

	// ---- access ----
	var role string
	accessCmd := &cobra.Command{
		Use:   "access",
		Short: "Chequear acceso a un dashboard por rol (caregiver|patient)",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if role != "" {
				q = "?role=" + url.QueryEscape(role)
			}
			return cl.call(http.MethodGet, "/v1/access"+q, nil)
		},
	}
	accessCmd.Flags().StringVar(&role, "role", "", "Rol requerido")

	readyCmd := &cobra.Command{
		Use:   "ready",
		Short: "Readiness del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call(http.MethodGet, "/readyz", nil)
		},
	}

	patientsCmd.AddCommand(addCmd, listCmd, reconcileCmd, healthCmd)
	root.AddCommand(signUpCmd, signInCmd, meCmd, patientsCmd, overviewCmd, accessCmd, readyCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
