package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fretvault/api/config"
	"github.com/fretvault/api/internal/application"
	pginfra "github.com/fretvault/api/internal/infrastructure/postgres"
	"github.com/fretvault/api/pkg/helpers"
)

type options struct {
	fixture string
	migrate bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load the demo user, tabs and practice plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.fixture, "fixture", "f", "", "path to a YAML fixture (defaults to the embedded demo fixture)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply migrations before seeding")
	return cmd
}

func run(ctx context.Context, opts *options, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	raw := defaultFixture
	if opts.fixture != "" {
		b, err := os.ReadFile(opts.fixture)
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		raw = b
	}
	fx, err := ParseFixture(raw)
	if err != nil {
		return err
	}

	if opts.migrate {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptionsFrom(cfg))
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	tabs := pginfra.NewTabRepository(pool)
	s := &Seeder{
		Auth:     application.NewAuthService(pginfra.NewUserRepository(pool), pginfra.NewWorkspaceRepository(pool), jwt, rdb, nil, cfg, logger),
		Tabs:     application.NewTabService(tabs, nil, cfg.ESTabsIndex, logger),
		Practice: application.NewPracticeService(pginfra.NewPracticePlanRepository(pool), pginfra.NewPracticeItemRepository(pool), tabs, logger),
		Logger:   logger,
	}
	res, err := s.Apply(ctx, fx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded user: id=%s email=%s password=%s (new=%t) tabs=%d plans=%d items=%d\n",
		res.UserID, fx.User.Email, fx.User.Password, res.CreatedUser, res.TabsCreated, res.PlansCreated, res.ItemsCreated)
	return nil
}
