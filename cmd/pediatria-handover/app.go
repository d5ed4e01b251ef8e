package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/common/database"
	mqttclient "github.com/astro-cL99/pediatria-sub001/internal/common/mqtt"
	rediscommon "github.com/astro-cL99/pediatria-sub001/internal/common/redis"
	"github.com/astro-cL99/pediatria-sub001/internal/config"
	"github.com/astro-cL99/pediatria-sub001/internal/lock"
	"github.com/astro-cL99/pediatria-sub001/internal/notify"
	"github.com/astro-cL99/pediatria-sub001/internal/repository"
	"github.com/astro-cL99/pediatria-sub001/internal/scoring"
	"github.com/astro-cL99/pediatria-sub001/internal/service"
	"github.com/astro-cL99/pediatria-sub001/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// app wired services plus the connections to close on exit
type app struct {
	handover *service.HandoverService
	beds     *service.BedService
	clinical *service.ClinicalService

	db    *sql.DB
	redis *redis.Client
	mqtt  *mqttclient.Client
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	var tx repository.Transactor
	if cfg.DBEnabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		tx = repository.NewPostgresTransactor(db)
		logger.Info("DB enabled for pediatria-handover", zap.String("host", cfg.Database.Host))
	} else {
		tx = repository.NewMemoryStore()
		logger.Warn("DB disabled, using the in-memory store")
	}

	if cfg.RedisEnabled {
		a.redis = rediscommon.NewRedisClient(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rediscommon.Ping(pingCtx, a.redis)
		cancel()
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Lock.Backend == "redis" {
		if a.redis == nil {
			logger.Warn("LOCK_BACKEND=redis but Redis is disabled, using in-process locks")
		} else {
			locker = lock.NewRedisLocker(a.redis, cfg.Lock.Prefix, cfg.Lock.TTL, logger)
		}
	}

	var kv store.KV = store.NewMemoryKV()
	if a.redis != nil {
		kv = store.NewRedisKV(a.redis)
	}

	var notifiers []notify.Notifier
	if a.redis != nil {
		notifiers = append(notifiers, notify.NewStreamNotifier(a.redis, cfg.Import.ReportStream))
	}
	if cfg.MQTTEnabled {
		c, err := mqttclient.NewClient(&cfg.MQTT)
		if err != nil {
			// bed events are best effort; the service still runs without the broker
			logger.Warn("MQTT connection failed, bed events disabled", zap.Error(err))
		} else {
			a.mqtt = c
			notifiers = append(notifiers, notify.NewMQTTNotifier(c, cfg.MQTTTopic, c.QoS()))
		}
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookDeadline, logger))
	}
	notifier := notify.NewMulti(logger, notifiers...)

	engine, err := scoring.NewEngine(cfg.Scoring.RuleSet)
	if err != nil {
		a.close()
		return nil, err
	}

	a.handover = service.NewHandoverService(tx, locker, kv, notifier, service.HandoverOptions{
		Workers:        cfg.Import.Workers,
		Timeout:        cfg.Import.Timeout,
		HeaderScanRows: cfg.Import.HeaderScanRows,
		ReportTTL:      cfg.Import.ReportTTL,
	}, logger)
	a.beds = service.NewBedService(tx, locker, notifier, logger)
	a.clinical = service.NewClinicalService(engine, logger)

	logger.Info("pediatria-handover wired",
		zap.String("lock_backend", fmt.Sprintf("%T", locker)),
		zap.Int("notifiers", notifier.Len()),
		zap.String("rule_set", engine.RuleSet()),
	)
	return a, nil
}

func (a *app) close() {
	if a.mqtt != nil {
		a.mqtt.Disconnect()
	}
	_ = rediscommon.Close(a.redis)
	_ = database.Close(a.db)
}
