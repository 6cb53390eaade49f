package logger

import (
	"go.uber.org/zap"
)

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// ---- Dominio ----

// UserID identifica al usuario autenticado que origina la operación.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// CaregiverID identifica al cuidador en operaciones de aprovisionamiento.
func CaregiverID(v string) zap.Field { return zap.String("caregiver_id", v) }

// PatientID identifica al paciente afectado.
func PatientID(v string) zap.Field { return zap.String("patient_id", v) }

// Role del perfil involucrado.
func Role(v string) zap.Field { return zap.String("role", v) }

// Step nombra el paso de un saga.
func Step(v string) zap.Field { return zap.String("step", v) }

// Email usar con cuidado en prod.
func Email(v string) zap.Field { return zap.String("email", v) }

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Count(v int) zap.Field { return zap.Int("count", v) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }

func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }
