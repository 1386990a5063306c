package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/alert"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/seed"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds everything the commands share. close releases it in reverse
// order of construction.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Collector

	medicines medicine.Repository
	logs      stocklog.Repository
	patients  patient.Repository

	alerts    *service.AlertService
	inventory *service.InventoryService
	activity  *service.ActivityService
	patientsV *service.PatientService

	// atomic runs a seed load in one transaction; nil for the memory store.
	atomic func(ctx context.Context, fn func(seed.Store) error) error

	seeder  *seed.Loader
	closers []func()
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires the store, alerting and services. The seed load is only
// scheduled; callers decide whether to wait for it.
func buildApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{cfg: cfg, log: log, metrics: metrics.NewCollector(cfg.App.Name, reg)}

	if err := a.openStore(); err != nil {
		a.close()
		return nil, err
	}

	a.alerts = service.NewAlertService(a.alertPublisher(), cfg.Alerts, a.metrics, log)
	a.onClose(a.alerts.Shutdown)

	opts := []service.Option{service.WithLocation(cfg.App.Location())}
	a.inventory = service.NewInventoryService(a.medicines, a.alerts, a.metrics, log, opts...)
	a.activity = service.NewActivityService(a.logs, a.medicines, a.metrics, log, opts...)
	a.patientsV = service.NewPatientService(a.patients, a.metrics, log, opts...)

	if cfg.Seed.Enabled {
		ds, err := loadDataset(cfg)
		if err != nil {
			a.close()
			return nil, err
		}
		store := seed.Store{Medicines: a.medicines, Logs: a.logs, Patients: a.patients, Atomic: a.atomic}
		a.seeder = seed.NewLoader(ds, store, time.Now, log)
		a.onClose(a.seeder.Close)
	}

	return a, nil
}

func (a *app) openStore() error {
	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.Connect(a.cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.onClose(func() { _ = sqlDB.Close() })
		}
		if err := database.Migrate(db, a.log); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		a.medicines = postgres.NewMedicineRepository(db, a.metrics)
		a.logs = postgres.NewStockLogRepository(db, a.metrics)
		a.patients = postgres.NewPatientRepository(db, a.metrics)
		a.atomic = func(ctx context.Context, fn func(seed.Store) error) error {
			return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return fn(seed.Store{
					Medicines: postgres.NewMedicineRepository(tx, a.metrics),
					Logs:      postgres.NewStockLogRepository(tx, a.metrics),
					Patients:  postgres.NewPatientRepository(tx, a.metrics),
				})
			})
		}
		a.log.Info("using postgres store", zap.String("host", a.cfg.Database.Host), zap.String("db", a.cfg.Database.Name))
	default:
		logs := memory.NewStockLogRepository()
		a.logs = logs
		a.medicines = memory.NewMedicineRepository(logs)
		a.patients = memory.NewPatientRepository()
		a.log.Info("using in-memory store")
	}
	return nil
}

func (a *app) alertPublisher() alert.Publisher {
	rc := a.cfg.Redis
	if !rc.Enabled {
		return alert.LogPublisher{Log: a.log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	a.onClose(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// The breaker absorbs the failures until Redis comes back.
		a.log.Warn("redis unreachable at startup", zap.String("addr", rc.Addr), zap.Error(err))
	}

	return alert.NewBreakerPublisher(
		alert.NewStreamPublisher(client, rc.Stream, rc.MaxLen),
		rc.BreakerFailures, rc.BreakerTimeout, a.log,
	)
}

func loadDataset(cfg *config.Config) (*seed.Dataset, error) {
	if cfg.Seed.File == "" {
		return seed.Sample(cfg.App.Location())
	}
	f, err := os.Open(cfg.Seed.File)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return seed.Parse(f, cfg.App.Location())
}

// seedNow runs the load synchronously, for one-shot commands.
func (a *app) seedNow() error {
	if a.seeder == nil {
		return nil
	}
	a.seeder.Schedule(0)
	<-a.seeder.Done()
	return a.seeder.Err()
}
