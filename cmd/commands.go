package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/nurture-backend/internal/app"
	"github.com/yungbote/nurture-backend/internal/platform/envutil"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the resync worker when Temporal is configured)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Start(); err != nil {
				return err
			}
			a.Log.Info("Server listening", "port", a.Cfg.Port)
			return a.Run(ctx)
		},
	}
}

func newSeedCatalogCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-catalog",
		Short: "Load courses and personality picks from a YAML catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := services.LoadCatalogFile(file)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Services.CatalogSeed.Seed(ctx, catalog)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBackfillUnitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-units",
		Short: "Assign missing or duplicate unit identifiers across all courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Services.CourseUnits.BackfillUnitUUIDs(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func newResyncCommand() *cobra.Command {
	var userArg, resultArg string
	cmd := &cobra.Command{
		Use:   "resync",
		Short: "Rebuild a user's personality recommendations synchronously",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userArg)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			resultID, err := uuid.Parse(resultArg)
			if err != nil {
				return fmt.Errorf("--result: %w", err)
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Services.Recommendation.ResyncForPersonalityChange(ctx, userID, resultID)
			})
		},
	}
	cmd.Flags().StringVar(&userArg, "user", "", "user id")
	cmd.Flags().StringVar(&resultArg, "result", "", "personality result id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var userArg string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userArg)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			log, err := logger.New("test")
			if err != nil {
				return err
			}
			secret := envutil.String("JWT_SECRET_KEY", "defaultsecret")
			token, err := services.NewAuthService(log, secret).IssueToken(userID, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userArg, "user", "", "user id")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// withApp runs fn against a fully wired app without starting the HTTP server
// or background workers.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
