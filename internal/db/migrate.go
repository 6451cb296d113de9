package db

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"household-app-go/pkg/logger"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in filename order. It returns the applied names.
func Migrate(db *gorm.DB, log logger.Logger) ([]string, error) {
	if err := ensureSchemaMigrations(db); err != nil {
		return nil, err
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var applied []string
	for _, path := range files {
		name := strings.TrimPrefix(path, "migrations/")
		done, err := isMigrationApplied(db, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		contents, err := migrations.ReadFile(path)
		if err != nil {
			return applied, err
		}
		sql := strings.TrimSpace(string(contents))
		if sql == "" {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(sql).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			return recordMigration(tx, name)
		})
		if err != nil {
			return applied, err
		}

		log.Info("db: migration applied", "name", name)
		applied = append(applied, name)
	}

	return applied, nil
}

func ensureSchemaMigrations(db *gorm.DB) error {
	return db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`).Error
}

func isMigrationApplied(db *gorm.DB, name string) (bool, error) {
	var count int64
	if err := db.Raw("SELECT COUNT(1) FROM schema_migrations WHERE filename = ?", name).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func recordMigration(db *gorm.DB, name string) error {
	return db.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", name, time.Now().UTC()).Error
}
