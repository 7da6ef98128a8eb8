package main

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
	"github.com/Luni-4/volunteers-shifts/pkg/database"
	"github.com/Luni-4/volunteers-shifts/pkg/redis"
)

// openDB connects to Postgres and returns both handles
func (a *App) openDB() (*gorm.DB, *sql.DB, error) {
	db, err := database.NewDB(&a.cfg.Database, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connessione al database fallita: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("sql.DB non disponibile: %w", err)
	}
	return db, sqlDB, nil
}

// openRedis optional Redis client; nil when disabled or unreachable
func (a *App) openRedis() *redis.Client {
	if !a.cfg.Redis.Enabled() {
		a.logger.Info("Redis non configurato, stato mantenuto in memoria")
		return nil
	}
	rdb, err := redis.NewClient(&a.cfg.Redis, a.logger)
	if err != nil {
		a.logger.Warn("connessione a Redis fallita, stato mantenuto in memoria", zap.Error(err))
		return nil
	}
	return rdb
}

// builder shift builder for the configured catalog and timezone
func (a *App) builder() (*scheduling.Builder, error) {
	mode, err := scheduling.ParseTaskMode(a.cfg.Shifts.TaskMode)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(a.cfg.Shifts.Timezone)
	if err != nil {
		return nil, err
	}
	cal := scheduling.NewCalendar(scheduling.SystemClock, loc)
	return scheduling.NewBuilder(cal, scheduling.NewCatalog(mode), a.logger), nil
}
