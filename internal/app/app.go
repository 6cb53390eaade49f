// Package app arma el servicio completo a partir de la configuración:
// store, cache, limiters, identidad, services, controllers y router.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/elderwatch/internal/cache"
	"github.com/dropDatabas3/elderwatch/internal/config"
	"github.com/dropDatabas3/elderwatch/internal/http/controllers"
	"github.com/dropDatabas3/elderwatch/internal/http/metrics"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/router"
	"github.com/dropDatabas3/elderwatch/internal/http/services"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/http/services/dashboard"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/jwt"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
	"github.com/dropDatabas3/elderwatch/internal/rate"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/store"
	"github.com/dropDatabas3/elderwatch/internal/store/pg"
	migrations "github.com/dropDatabas3/elderwatch/migrations/postgres"

	// Adapters registrados vía init()
	_ "github.com/dropDatabas3/elderwatch/internal/store/memory"
)

// App es el servicio armado.
type App struct {
	Handler  http.Handler
	Store    store.AdapterConnection
	Services *services.Services

	// sweepers corre la limpieza de limiters locales; ver Run.
	sweepers []*rate.LocalLimiter
	closers  []func() error
}

// Options permite reemplazar piezas en tests.
type Options struct {
	// Store ya abierto; si es nil se abre con cfg.Storage.
	Store store.AdapterConnection
	// Metrics reemplaza registry/gatherer de Prometheus; nil = default.
	Metrics *metrics.Config
	// PasswordParams de argon2id; zero value = password.Default.
	PasswordParams password.Params
}

// Build construye la App. Ante error libera lo ya abierto.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	log := logger.L().With(logger.Component("app"))
	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// ─── Store ───
	st := opts.Store
	if st == nil {
		st, err = store.OpenAdapter(ctx, store.AdapterConfig{
			Name:         cfg.Storage.Driver,
			DSN:          cfg.Storage.DSN,
			MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		a.closers = append(a.closers, st.Close)
	}
	a.Store = st

	if cfg.Storage.Migrate {
		if mc, ok := st.(store.MigratableConnection); ok {
			res, err := mc.Migrate(ctx, store.NewMigrator(migrations.PostgresFS, migrations.PostgresDir))
			if err != nil {
				return nil, fmt.Errorf("app: migrate: %w", err)
			}
			log.Info("migrations applied", logger.Count(len(res.Applied)), logger.Int("skipped", len(res.Skipped)))
		}
	}

	// ─── Redis (cache y/o rate) ───
	var redisClient *rdb.Client
	if cfg.Cache.Kind == "redis" || (cfg.Rate.Enabled && cfg.Rate.Backend == "redis") {
		redisClient = rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("app: redis ping: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
	}

	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		DefaultTTL: cfg.Cache.DefaultTTL,
		Prefix:     cfg.Cache.Redis.Prefix,
		Redis:      redisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("app: cache: %w", err)
	}
	a.closers = append(a.closers, cacheClient.Close)

	// ─── Identidad ───
	secret := cfg.JWT.Secret
	if strings.TrimSpace(secret) == "" {
		secret, err = ephemeralSecret()
		if err != nil {
			return nil, err
		}
		log.Warn("jwt.secret not set; using an ephemeral secret (sessions will not survive restarts)")
	}
	issuer, err := jwt.NewIssuer(cfg.JWT.Issuer, secret, cfg.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("app: issuer: %w", err)
	}
	params := opts.PasswordParams
	if params == (password.Params{}) {
		params = password.Default
	}
	provider := identity.NewProvider(st.Identities(), issuer, params)

	// ─── Services / Controllers ───
	pp := cfg.Security.PasswordPolicy
	svcs := services.New(services.Deps{
		Store:    st,
		Provider: provider,
		Cache:    cacheClient,
		Routes: access.Routes{
			SignIn:    cfg.Routes.SignIn,
			Caregiver: cfg.Routes.Caregiver,
			Patient:   cfg.Routes.Patient,
		},
		Policy: password.Policy{
			MinLength:     pp.MinLength,
			RequireUpper:  pp.RequireUpper,
			RequireLower:  pp.RequireLower,
			RequireDigit:  pp.RequireDigit,
			RequireSymbol: pp.RequireSymbol,
		},
		OverviewTTL: cfg.Dashboard.OverviewTTL,
		Window:      dashboard.Window{Period: cfg.Dashboard.Window, MaxSamples: cfg.Dashboard.MaxSamples},
		Version:     cfg.App.Version,
	})
	a.Services = svcs

	// ─── Métricas ───
	mcfg := metrics.Config{}
	if opts.Metrics != nil {
		mcfg = *opts.Metrics
	}
	if conn, ok := st.(*pg.Connection); ok {
		mcfg.Pool = func() *pgxpool.Pool { return conn.Pool() }
	}
	metricsHandler, err := metrics.Register(mcfg)
	if err != nil {
		return nil, fmt.Errorf("app: metrics: %w", err)
	}

	// ─── Router ───
	a.Handler = router.New(router.Deps{
		Controllers: controllers.New(svcs),
		Sessions:    provider,
		Roles:       svcs.Access.Access,
		CORS: mw.CORSConfig{
			AllowedOrigins: cfg.Server.CORSAllowedOrigins,
			AllowedHeaders: cfg.Server.CORSAllowedHeaders,
		},
		Limiters: a.limiters(cfg, redisClient),
		Metrics:  metricsHandler,
	})

	log.Info("app built",
		logger.String("store", st.Name()),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_enabled", cfg.Rate.Enabled),
	)
	return a, nil
}

// limiters arma un limiter por bucket según cfg.Rate.Backend.
func (a *App) limiters(cfg *config.Config, redisClient *rdb.Client) router.Limiters {
	if !cfg.Rate.Enabled {
		return router.Limiters{}
	}
	mk := func(name string, b config.RateBucket) rate.Limiter {
		if cfg.Rate.Backend == "redis" && redisClient != nil {
			return rate.NewRedisLimiter(redisClient, cfg.Cache.Redis.Prefix+"rl:"+name+":", b.Limit, b.Window)
		}
		l := rate.NewLocalLimiter(b.Limit, b.Window)
		a.sweepers = append(a.sweepers, l)
		return l
	}
	return router.Limiters{
		SignIn:    mk("signin", cfg.Rate.SignIn),
		SignUp:    mk("signup", cfg.Rate.SignUp),
		Provision: mk("provision", cfg.Rate.Provision),
	}
}

// RunBackground arranca las tareas de fondo hasta que ctx se cancele.
func (a *App) RunBackground(ctx context.Context) {
	for _, l := range a.sweepers {
		go l.RunSweeper(ctx)
	}
}

// Server crea el http.Server con los timeouts configurados.
func (a *App) Server(cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// Close libera recursos en orden inverso de apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("app: generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
