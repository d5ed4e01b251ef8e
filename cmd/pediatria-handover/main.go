package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/common/database"
	"github.com/astro-cL99/pediatria-sub001/internal/common/logger"
	"github.com/astro-cL99/pediatria-sub001/internal/config"
	"github.com/astro-cL99/pediatria-sub001/internal/handover"
	httpapi "github.com/astro-cL99/pediatria-sub001/internal/http"
	"github.com/astro-cL99/pediatria-sub001/internal/metrics"
	"github.com/astro-cL99/pediatria-sub001/internal/repository"
	"github.com/astro-cL99/pediatria-sub001/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "pediatria-handover"

func main() {
	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Pediatric ward handover import and clinical rule engine",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(templateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runServer(cfg, log)
		},
	}
}

func runServer(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	router := httpapi.NewRouter(log)
	router.RegisterHandoverRoutes(
		httpapi.NewHandoverHandler(a.handover, cfg.Import.MaxUploadMB, log),
		httpapi.RateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst),
	)
	router.RegisterBedRoutes(httpapi.NewBedHandler(a.beds, log))
	router.RegisterClinicalRoutes(httpapi.NewClinicalHandler(a.clinical, log))
	router.RegisterOpsRoutes(metrics.Handler())

	srv := service.NewServer(cfg.HTTP.Addr, metrics.Middleware(router), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigCh:
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	return serveErr
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import a bed handover workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			sheet, _ := cmd.Flags().GetString("sheet")

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			var out any
			if dryRun {
				out, err = a.handover.Preview(ctx, f, sheet)
			} else {
				out, err = a.handover.ImportWorkbook(ctx, f, service.ImportRequest{
					FileName: filepath.Base(args[0]),
					Sheet:    sheet,
				})
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Parse and report without writing to the store")
	cmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.NewPostgresDB(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := repository.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info("Migrations applied", zap.Strings("versions", applied))
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
}

func templateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <out.xlsx>",
		Short: "Write a blank handover workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := handover.GenerateTemplate()
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	}
}
