// Package storage provides storage implementations for the scheduler.
package storage

import (
	"context"
	"errors"
	"iter"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// GormStorage implements core.Store using GORM.
type GormStorage struct {
	db *gorm.DB

	closeOnce sync.Once
	closeErr  error
}

var _ core.Store = (*GormStorage)(nil)

// NewGormStorage creates a new GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// DB returns the underlying GORM handle.
func (s *GormStorage) DB() *gorm.DB {
	return s.db
}

// Migrate creates the task table if it does not exist.
func (s *GormStorage) Migrate(ctx context.Context) error {
	return core.Persist("migrate", "", s.db.WithContext(ctx).AutoMigrate(&core.TaskRecord{}))
}

// Create inserts a new record, failing if the name is already taken.
func (s *GormStorage) Create(ctx context.Context, rec *core.TaskRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&core.TaskRecord{}).Where("name = ?", rec.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &core.DuplicateNameError{Name: rec.Name}
		}
		return tx.Create(rec).Error
	})
	if errors.Is(err, core.ErrDuplicateName) {
		return err
	}
	return core.Persist("create", rec.Name, err)
}

// Upsert inserts rec or replaces the locator and interval of the existing row.
func (s *GormStorage) Upsert(ctx context.Context, rec *core.TaskRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"module_locator", "symbol_locator", "interval_seconds", "updated_at"}),
		}).
		Create(rec).Error
	return core.Persist("upsert", rec.Name, err)
}

// Get retrieves a record by name.
func (s *GormStorage) Get(ctx context.Context, name string) (*core.TaskRecord, error) {
	var rec core.TaskRecord
	err := s.db.WithContext(ctx).First(&rec, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.Persist("get", name, err)
	}
	return &rec, nil
}

// UpdateInterval changes the interval of an existing record.
func (s *GormStorage) UpdateInterval(ctx context.Context, name string, seconds int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&core.TaskRecord{}).
		Where("name = ?", name).
		Update("interval_seconds", seconds)
	if result.Error != nil {
		return false, core.Persist("update", name, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a record by name.
func (s *GormStorage) Delete(ctx context.Context, name string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&core.TaskRecord{})
	if result.Error != nil {
		return false, core.Persist("delete", name, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List streams every record ordered by name.
// The query holds a connection until the range ends, so callers must not issue
// other store calls from inside the loop on single-connection SQLite pools.
func (s *GormStorage) List(ctx context.Context) iter.Seq2[core.TaskRecord, error] {
	return func(yield func(core.TaskRecord, error) bool) {
		rows, err := s.db.WithContext(ctx).
			Model(&core.TaskRecord{}).
			Order("name ASC").
			Rows()
		if err != nil {
			yield(core.TaskRecord{}, core.Persist("list", "", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var rec core.TaskRecord
			if err := s.db.ScanRows(rows, &rec); err != nil {
				yield(core.TaskRecord{}, core.Persist("list", "", err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(core.TaskRecord{}, core.Persist("list", "", err))
		}
	}
}

// Close releases the database handle. Later calls return the first result.
func (s *GormStorage) Close() error {
	s.closeOnce.Do(func() {
		sqlDB, err := s.db.DB()
		if err != nil {
			s.closeErr = core.Persist("close", "", err)
			return
		}
		s.closeErr = core.Persist("close", "", sqlDB.Close())
	})
	return s.closeErr
}
