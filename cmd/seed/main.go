package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/VishSinh/vsc-be/internal/config"
	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/VishSinh/vsc-be/internal/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// CLI flags
	phone := flag.String("phone", "", "Admin phone number")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	migrateFirst := flag.Bool("migrate", false, "Apply schema migrations before seeding")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, true)

	// Fall back to environment variables, then defaults
	*phone = firstNonEmpty(*phone, os.Getenv("SEED_PHONE"), "9999999999")
	*name = firstNonEmpty(*name, os.Getenv("SEED_NAME"), "Admin")
	*password = firstNonEmpty(*password, os.Getenv("SEED_PASSWORD"))
	if *password == "" {
		*password = "password123"
		log.Warn().Msg("using default password 'password123'; change immediately in production")
	}

	if *migrateFirst {
		if err := database.Migrate(cfg.DatabaseURL, false); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	// Seed in one transaction: everything or nothing.
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)

	adminID, err := seedAdmin(ctx, q, *phone, *password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	if err := seedProviders(ctx, q); err != nil {
		log.Fatal().Err(err).Msg("seed providers")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("commit")
	}

	log.Info().Str("admin_id", adminID.String()).Msg("seed completed")
}

// seedAdmin creates the ADMIN staff account unless the phone is taken.
func seedAdmin(ctx context.Context, q *database.Queries, phone, password, name string) (uuid.UUID, error) {
	existing, err := q.GetStaffByPhone(ctx, phone)
	if err == nil {
		log.Info().Str("phone", phone).Str("id", existing.ID.String()).Msg("admin already exists, skipping")
		return existing.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("check staff: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	staff, err := q.CreateStaff(ctx, database.CreateStaffParams{
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         enum.StaffRoleAdmin,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert staff: %w", err)
	}

	log.Info().Str("phone", phone).Str("id", staff.ID.String()).Msg("created admin")
	return staff.ID, nil
}

// seedProviders creates one house vendor and one provider of each production
// kind when that kind has none yet.
func seedProviders(ctx context.Context, q *database.Queries) error {
	kinds := []struct {
		label  string
		name   string
		list   func(context.Context) ([]database.Provider, error)
		create func(context.Context, database.CreateProviderParams) (database.Provider, error)
	}{
		{"vendor", "House Stock", q.ListVendors, q.CreateVendor},
		{"printer", "In-house Press", q.ListPrinters, q.CreatePrinter},
		{"tracing studio", "In-house Tracing", q.ListTracingStudios, q.CreateTracingStudio},
		{"box maker", "In-house Boxes", q.ListBoxMakers, q.CreateBoxMaker},
	}

	for _, k := range kinds {
		existing, err := k.list(ctx)
		if err != nil {
			return fmt.Errorf("list %s: %w", k.label, err)
		}
		if len(existing) > 0 {
			log.Info().Str("kind", k.label).Int("count", len(existing)).Msg("providers exist, skipping")
			continue
		}
		p, err := k.create(ctx, database.CreateProviderParams{Name: k.name})
		if err != nil {
			return fmt.Errorf("insert %s: %w", k.label, err)
		}
		log.Info().Str("kind", k.label).Str("id", p.ID.String()).Msg("created provider")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
