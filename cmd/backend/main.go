package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/scholarlink/internal/app"
	"github.com/yungbote/scholarlink/internal/data/db"
	"github.com/yungbote/scholarlink/internal/data/repos"
	"github.com/yungbote/scholarlink/internal/data/seed"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "backend",
		Short:         "Reference backend for the scholarlink engagement API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*logger.Logger, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := app.LoadConfig(log)
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			a, err := app.New(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func openDB(log *logger.Logger) (*db.Service, error) {
	cfg := app.LoadConfig(log)
	svc, err := db.Open(log, db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, err
	}
	if err := svc.AutoMigrateAll(); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return svc, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			svc, err := openDB(log)
			if err != nil {
				return err
			}
			defer svc.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", svc.Driver())
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load opportunities, profiles and gap suggestions from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			fixture, err := seed.Load(file)
			if err != nil {
				return err
			}
			svc, err := openDB(log)
			if err != nil {
				return err
			}
			defer svc.Close()
			res, err := seed.Apply(cmd.Context(), log, repos.NewSet(svc.DB(), log), fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d opportunities, %d profiles, %d gap suggestions\n",
				res.Opportunities, res.Profiles, res.GapSuggestions)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/seed.example.yaml", "fixture path")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local use",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.New()
			if strings.TrimSpace(userID) != "" {
				parsed, err := uuid.Parse(strings.TrimSpace(userID))
				if err != nil {
					return fmt.Errorf("--user: %w", err)
				}
				id = parsed
			}
			cfg := app.LoadConfig(nil)
			tok, err := services.NewTokenService(nil, cfg.JWTSecretKey).Issue(id, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", "student", "student, mentor or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
