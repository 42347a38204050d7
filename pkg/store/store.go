// Package store keeps the final tables of past runs in a SQLite database.
// Each run gets a ULID, so runs sort by creation time.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gardar/tariffscan/pkg/table"
)

// ErrRunNotFound is returned for an unknown run ID
var ErrRunNotFound = errors.New("run not found")

// Run represents the schema of the runs table
type Run struct {
	ID        string     `gorm:"primaryKey;size:26"` // ULID
	Source    string     `gorm:"size:1024;not null"` // input file the run read
	RowCount  int        `gorm:"not null"`           // number of final rows
	CreatedAt time.Time  `gorm:"not null"`           // set by gorm
	Rows      []TableRow `gorm:"constraint:OnDelete:CASCADE"`
}

// TableRow represents one final schedule row of a run
type TableRow struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           string `gorm:"size:26;index;not null"`
	Position        int    `gorm:"not null"` // row order within the run
	CommodityNumber string `gorm:"size:32"`
	Description     string `gorm:"size:4096"`
	Unit            string `gorm:"size:32"`
	Rate1930        string `gorm:"size:255"`
	RateTrade       string `gorm:"size:255"`
	TariffParagraph string `gorm:"size:32"`
}

// Store wraps the database handle and the ULID source
type Store struct {
	db      *gorm.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open connects to the SQLite database at path and migrates the schema
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Migrate the schema (create the tables if they don't exist)
	if err := db.AutoMigrate(&Run{}, &TableRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

// SaveRun stores rows as a new run of source
func (s *Store) SaveRun(source string, rows []table.FinalRow) (Run, error) {
	run := Run{ID: s.newID(), Source: source, RowCount: len(rows)}
	for i, r := range rows {
		run.Rows = append(run.Rows, TableRow{
			RunID:           run.ID,
			Position:        i,
			CommodityNumber: r.CommodityNumber,
			Description:     r.Description,
			Unit:            r.Unit,
			Rate1930:        r.Rate1930,
			RateTrade:       r.RateTrade,
			TariffParagraph: r.TariffParagraph,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return Run{}, fmt.Errorf("failed to save run: %w", err)
	}
	return run, nil
}

// Runs lists every run, oldest first, without their rows
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	result := s.db.Order("id").Find(&runs)
	return runs, result.Error
}

// Rows returns the final table of a run in its original order
func (s *Store) Rows(runID string) ([]table.FinalRow, error) {
	var run Run
	err := s.db.Preload("Rows", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&run, "id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]table.FinalRow, 0, len(run.Rows))
	for _, r := range run.Rows {
		out = append(out, table.FinalRow{
			CommodityNumber: r.CommodityNumber,
			Description:     r.Description,
			Unit:            r.Unit,
			Rate1930:        r.Rate1930,
			RateTrade:       r.RateTrade,
			TariffParagraph: r.TariffParagraph,
		})
	}
	return out, nil
}
