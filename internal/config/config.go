package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr               string        `yaml:"addr"`
		ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		IdleTimeout        time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		CORSAllowedHeaders []string      `yaml:"cors_allowed_headers"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Migrate  bool   `yaml:"migrate"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		DefaultTTL time.Duration `yaml:"default_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string        `yaml:"secret"`
		Issuer    string        `yaml:"issuer"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		// local (x/time/rate) | redis (ventana fija compartida)
		Backend   string     `yaml:"backend"`
		SignIn    RateBucket `yaml:"signin"`
		SignUp    RateBucket `yaml:"signup"`
		Provision RateBucket `yaml:"provision"`
	} `yaml:"rate"`

	Security struct {
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
	} `yaml:"security"`

	// Rutas de dashboard usadas por el chequeo de acceso por rol.
	Routes struct {
		SignIn    string `yaml:"signin"`
		Caregiver string `yaml:"caregiver"`
		Patient   string `yaml:"patient"`
	} `yaml:"routes"`

	Dashboard struct {
		OverviewTTL time.Duration `yaml:"overview_ttl"`
		Window      time.Duration `yaml:"window"`
		MaxSamples  int           `yaml:"max_samples"`
	} `yaml:"dashboard"`
}

// RateBucket es un límite por endpoint: Limit requests cada Window.
type RateBucket struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// Load lee el YAML (si path no es vacío), aplica defaults, overrides por env y valida.
// Un path inexistente no es error: se arranca sólo con defaults + env.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "elderwatch"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if len(c.Server.CORSAllowedHeaders) == 0 {
		c.Server.CORSAllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}
	}

	if c.Storage.Driver == "" {
		if c.Storage.DSN != "" {
			c.Storage.Driver = "postgres"
		} else {
			c.Storage.Driver = "memory"
		}
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}

	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = 2 * time.Minute
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "elderwatch:"
	}

	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "elderwatch"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = time.Hour
	}

	if c.Rate.Backend == "" {
		c.Rate.Backend = "local"
	}
	c.Rate.SignIn.orDefault(10, time.Minute)
	c.Rate.SignUp.orDefault(5, 10*time.Minute)
	c.Rate.Provision.orDefault(20, time.Minute)

	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 8
	}

	if c.Routes.SignIn == "" {
		c.Routes.SignIn = "/auth"
	}
	if c.Routes.Caregiver == "" {
		c.Routes.Caregiver = "/caregiver"
	}
	if c.Routes.Patient == "" {
		c.Routes.Patient = "/patient"
	}

	if c.Dashboard.OverviewTTL == 0 {
		c.Dashboard.OverviewTTL = 30 * time.Second
	}
	if c.Dashboard.Window == 0 {
		c.Dashboard.Window = 7 * 24 * time.Hour
	}
	if c.Dashboard.MaxSamples == 0 {
		c.Dashboard.MaxSamples = 200
	}
}

func (b *RateBucket) orDefault(limit int, window time.Duration) {
	if b.Limit == 0 {
		b.Limit = limit
	}
	if b.Window == 0 {
		b.Window = window
	}
}

// Validate chequea valores críticos. En prod el secreto JWT es obligatorio.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("config: storage.dsn is required for postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unsupported storage.driver %q", c.Storage.Driver)
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return errors.New("config: cache.redis.addr is required for redis cache")
		}
	default:
		return fmt.Errorf("config: unsupported cache.kind %q", c.Cache.Kind)
	}

	switch c.Rate.Backend {
	case "local":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return errors.New("config: rate.backend=redis requires cache.redis.addr")
		}
	default:
		return fmt.Errorf("config: unsupported rate.backend %q", c.Rate.Backend)
	}

	if strings.EqualFold(c.App.Env, "prod") && len(c.JWT.Secret) < 32 {
		return errors.New("config: jwt.secret must be at least 32 bytes in prod")
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("APP_VERSION"); ok {
		c.App.Version = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvDur("SERVER_WRITE_TIMEOUT"); ok {
		c.Server.WriteTimeout = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvBool("STORAGE_MIGRATE"); ok {
		c.Storage.Migrate = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvDur("CACHE_DEFAULT_TTL"); ok {
		c.Cache.DefaultTTL = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvDur("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvInt("RATE_SIGNIN_LIMIT"); ok {
		c.Rate.SignIn.Limit = v
	}
	if v, ok := getEnvDur("RATE_SIGNIN_WINDOW"); ok {
		c.Rate.SignIn.Window = v
	}
	if v, ok := getEnvInt("RATE_SIGNUP_LIMIT"); ok {
		c.Rate.SignUp.Limit = v
	}
	if v, ok := getEnvDur("RATE_SIGNUP_WINDOW"); ok {
		c.Rate.SignUp.Window = v
	}
	if v, ok := getEnvInt("RATE_PROVISION_LIMIT"); ok {
		c.Rate.Provision.Limit = v
	}
	if v, ok := getEnvDur("RATE_PROVISION_WINDOW"); ok {
		c.Rate.Provision.Window = v
	}

	// SECURITY
	if v, ok := getEnvInt("SECURITY_PASSWORD_POLICY_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_UPPER"); ok {
		c.Security.PasswordPolicy.RequireUpper = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_LOWER"); ok {
		c.Security.PasswordPolicy.RequireLower = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_DIGIT"); ok {
		c.Security.PasswordPolicy.RequireDigit = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_SYMBOL"); ok {
		c.Security.PasswordPolicy.RequireSymbol = v
	}

	// ROUTES
	if v, ok := getEnvStr("ROUTE_SIGNIN"); ok {
		c.Routes.SignIn = v
	}
	if v, ok := getEnvStr("ROUTE_CAREGIVER"); ok {
		c.Routes.Caregiver = v
	}
	if v, ok := getEnvStr("ROUTE_PATIENT"); ok {
		c.Routes.Patient = v
	}

	// DASHBOARD
	if v, ok := getEnvDur("DASHBOARD_OVERVIEW_TTL"); ok {
		c.Dashboard.OverviewTTL = v
	}
	if v, ok := getEnvDur("DASHBOARD_WINDOW"); ok {
		c.Dashboard.Window = v
	}
	if v, ok := getEnvInt("DASHBOARD_MAX_SAMPLES"); ok {
		c.Dashboard.MaxSamples = v
	}
}
