package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/export"
	v1 "github.com/dmehra2102/prod-golang-projects/medstock/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/tracer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:           "medstock",
		Short:         "Clinic pharmacy inventory and patient records service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), exportCmd(), summaryCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(opts ...logger.Option) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log, cfg.App, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
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
			defer func() { _ = log.Sync() }()
			return runServer(cfg, log)
		},
	}
}

func runServer(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if a.seeder != nil {
		a.seeder.Schedule(cfg.Seed.LoadDelay)
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := v1.NewHandler(v1.Deps{
		Inventory: a.inventory,
		Activity:  a.activity,
		Patients:  a.patientsV,
		Metrics:   a.metrics,
		Log:       log,
		Location:  cfg.App.Location(),
	})
	router := v1.NewRouter(h, v1.RouterConfig{
		CORS:      cfg.CORS,
		RateLimit: cfg.RateLimit,
		Tokens:    auth.NewJWTManager(cfg.JWT),
		Version:   cfg.App.Version,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

type exportFlags struct {
	view     string
	format   string
	out      string
	search   string
	status   string
	category string
	action   string
	rng      string
	sort     string
	reverse  bool
}

func exportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a medicines, logs or patients report",
		Example: "  medstock export --view logs --format csv --range week\n" +
			"  medstock export --view medicines --format xlsx --status \"Low Stock\" --out low.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []logger.Option
			if f.out == "-" {
				opts = append(opts, logger.ToStderr())
			}
			cfg, log, err := setup(opts...)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runExport(cmd.Context(), cfg, log, f, cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.view, "view", "medicines", "report to build: medicines, logs or patients")
	fl.StringVar(&f.format, "format", "csv", "csv or xlsx")
	fl.StringVar(&f.out, "out", "", "output file; defaults to the dated report name, - for stdout (logs then go to stderr)")
	fl.StringVar(&f.search, "search", "", "case-insensitive text filter")
	fl.StringVar(&f.status, "status", "", "medicine or patient status")
	fl.StringVar(&f.category, "category", "", "medicine category")
	fl.StringVar(&f.action, "action", "", "log action")
	fl.StringVar(&f.rng, "range", "", "log window: today, yesterday, week, month or all")
	fl.StringVar(&f.sort, "sort", "", "sort key for the chosen view")
	fl.BoolVar(&f.reverse, "reverse", false, "reverse the sort order")
	return cmd
}

func runExport(ctx context.Context, cfg *config.Config, log *zap.Logger, f exportFlags, stdout io.Writer) error {
	kind, err := export.ParseKind(f.view)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.seedNow(); err != nil {
		return err
	}

	var table export.Table
	switch kind {
	case export.KindLogs:
		v, err := a.activity.View(ctx, view.LogParams{Search: f.search, Action: f.action, Range: f.rng, Sort: f.sort, Reverse: f.reverse})
		if err != nil {
			return err
		}
		table = export.Logs(v.Items, cfg.App.Location())
	case export.KindPatients:
		v, err := a.patientsV.Browse(ctx, view.PatientParams{Search: f.search, Status: f.status, Sort: f.sort, Reverse: f.reverse})
		if err != nil {
			return err
		}
		table = export.Patients(v.Items)
	default:
		v, err := a.inventory.View(ctx, view.MedicineParams{Search: f.search, Category: f.category, Status: f.status, Sort: f.sort, Reverse: f.reverse})
		if err != nil {
			return err
		}
		table = export.Medicines(v.Items)
	}

	if f.out == "-" {
		return export.Write(stdout, format, table)
	}

	path := f.out
	if path == "" {
		path = table.Filename(format, time.Now().In(cfg.App.Location()))
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(file, format, table); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	a.metrics.ExportsTotal.WithLabelValues(string(kind), string(format)).Inc()
	fmt.Fprintf(stdout, "wrote %d rows to %s\n", len(table.Rows), path)
	return nil
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print dashboard counts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(logger.ToStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := buildApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.seedNow(); err != nil {
				return err
			}

			ctx := cmd.Context()
			inv, err := a.inventory.View(ctx, view.MedicineParams{})
			if err != nil {
				return err
			}
			logs, err := a.activity.View(ctx, view.LogParams{})
			if err != nil {
				return err
			}
			patients, err := a.patientsV.Browse(ctx, view.PatientParams{})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"medicines": inv.Summary,
				"logs":      logs.Summary,
				"patients":  patients.Summary,
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var name, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.App.Environment == "production" {
				return errors.New("token minting is disabled in production")
			}
			if name == "" {
				return errors.New("--name is required")
			}

			tok, err := auth.NewJWTManager(cfg.JWT).Issue(&domain.Claims{
				UserID: uuid.New(),
				Name:   name,
				Role:   domain.Role(role),
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tok)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "staff member name recorded on stock log entries")
	cmd.Flags().StringVar(&role, "role", string(domain.RolePharmacist), "admin, pharmacist, doctor, nurse or receptionist")
	return cmd
}
