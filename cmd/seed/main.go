// Command seed carga datos demo en PostgreSQL: un cuidador, pacientes
// vinculados y una semana de muestras de salud. Es idempotente por email.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/jwt"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/store"
	"github.com/dropDatabas3/elderwatch/internal/store/pg"
	migrations "github.com/dropDatabas3/elderwatch/migrations/postgres"
)

func strEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

type demoPatient struct {
	name, email string
	// perfil de las muestras generadas
	baseHR    int
	fallEvery int // 0 = nunca
}

func main() {
	_ = godotenv.Load()

	dsn := strEnv("STORAGE_DSN", "")
	if dsn == "" {
		log.Fatal("STORAGE_DSN es requerido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("pg pool: %v", err)
	}
	defer pool.Close()
	conn := pg.NewConnection(pool)

	res, err := conn.Migrate(ctx, store.NewMigrator(migrations.PostgresFS, migrations.PostgresDir))
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrations: applied=%v skipped=%d", res.Applied, len(res.Skipped))

	// El secreto sólo firma tokens que el seed descarta.
	iss, err := jwt.NewIssuer("elderwatch-seed", strEnv("JWT_SECRET", "seed-only-secret-not-for-sessions"), time.Minute)
	if err != nil {
		log.Fatalf("issuer: %v", err)
	}
	idp := identity.NewProvider(conn.Identities(), iss, password.Default)

	cgEmail := strEnv("SEED_CAREGIVER_EMAIL", "caregiver@elderwatch.local")
	cgPass := strEnv("SEED_CAREGIVER_PASSWORD", "Caregiver1!")
	cg, err := ensureUser(ctx, conn, idp, cgEmail, cgPass, "Demo Caregiver", repository.RoleCaregiver, nil)
	if err != nil {
		log.Fatalf("caregiver: %v", err)
	}
	log.Printf("caregiver: %s (%s)", cgEmail, cg.ID)

	patients := []demoPatient{
		{name: "Maria Santos", email: "maria@elderwatch.local", baseHR: 72},
		{name: "John Miller", email: "john@elderwatch.local", baseHR: 88, fallEvery: 9},
	}
	for _, p := range patients {
		tmp, err := password.GenerateTemporary()
		if err != nil {
			log.Fatalf("temp password: %v", err)
		}
		pt, err := ensureUser(ctx, conn, idp, p.email, tmp, p.name, repository.RolePatient, &cg.ID)
		if err != nil {
			log.Fatalf("patient %s: %v", p.email, err)
		}
		if _, err := conn.CareLinks().Insert(ctx, cg.ID, pt.ID); err != nil && !repository.IsConflict(err) {
			log.Fatalf("link %s: %v", p.email, err)
		}
		n, err := seedSamples(ctx, conn.HealthSamples(), pt.ID, p)
		if err != nil {
			log.Fatalf("samples %s: %v", p.email, err)
		}
		log.Printf("patient: %s (%s) samples=%d", p.email, pt.ID, n)
	}
	log.Println("seed ok")
}

// ensureUser crea identidad + perfil si el email no existe.
func ensureUser(ctx context.Context, conn *pg.Connection, idp *identity.Provider, email, pass, name string, role repository.Role, createdBy *string) (*repository.Identity, error) {
	ident, err := conn.Identities().GetByEmail(ctx, identity.NormalizeEmail(email))
	switch {
	case err == nil:
		return ident, nil
	case !repository.IsNotFound(err):
		return nil, err
	}

	meta := repository.IdentityMetadata{Role: role, DisplayName: name}
	if createdBy != nil {
		meta.CreatedBy = *createdBy
	}
	ident, err = idp.CreateIdentity(ctx, identity.CreateInput{
		Email: email, Password: pass, EmailConfirmed: true, Metadata: meta,
	})
	if err != nil {
		return nil, err
	}
	if _, err := conn.Profiles().Insert(ctx, repository.InsertProfileInput{
		UserID:      ident.ID,
		DisplayName: &name,
		Role:        role,
		CreatedBy:   createdBy,
	}); err != nil {
		if derr := idp.DeleteIdentity(ctx, ident.ID); derr != nil {
			err = errors.Join(err, fmt.Errorf("rollback identity: %w", derr))
		}
		return nil, err
	}
	return ident, nil
}

// seedSamples genera 4 muestras por día durante 7 días.
func seedSamples(ctx context.Context, repo repository.HealthRepository, userID string, p demoPatient) (int, error) {
	existing, err := repo.ListByUser(ctx, userID, repository.HealthFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	n := 0
	for i := 0; i < 28; i++ {
		hr := p.baseHR + rand.Intn(15) - 5
		steps := 500 + rand.Intn(2500)
		sleep := 5 + rand.Float64()*3
		s := repository.HealthSample{
			UserID:        userID,
			HeartRate:     &hr,
			Steps:         &steps,
			SleepDuration: &sleep,
			FallDetected:  p.fallEvery > 0 && i%p.fallEvery == 0,
			CreatedAt:     now.Add(-time.Duration(i) * 6 * time.Hour),
		}
		if _, err := repo.Insert(ctx, s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
