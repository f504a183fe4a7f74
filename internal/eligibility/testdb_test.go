package eligibility

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unionhall/sirius-backend/internal/types"
)

// newTestDB opens an in-memory sqlite database with the dispatch schema laid
// out by hand. Postgres-only column defaults keep AutoMigrate off the table
// here; tests always set ids explicitly.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := []string{
		`CREATE TABLE contact (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			email TEXT,
			phone TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE worker (
			id TEXT PRIMARY KEY,
			sirius_id INTEGER NOT NULL,
			contact_id TEXT NOT NULL,
			work_status_id TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE employer (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE work_status (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE job_type (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			eligibility TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE job (
			id TEXT PRIMARY KEY,
			employer_id TEXT NOT NULL,
			job_type_id TEXT,
			description TEXT,
			start_at DATETIME NOT NULL,
			workers_needed INTEGER NOT NULL DEFAULT 1,
			required_skills TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE dispatch (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			job_id TEXT NOT NULL,
			accepted INTEGER NOT NULL DEFAULT 0,
			accepted_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE worker_dnc (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			employer_id TEXT NOT NULL,
			reason TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE worker_hfe (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			employer_id TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE worker_dispatch_status (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE worker_skill (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE worker_availability (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			available_on DATETIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE eligibility_fact (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			category TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE component (
			id TEXT PRIMARY KEY,
			parent_id TEXT,
			enabled INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedWorker(t *testing.T, db *gorm.DB, siriusID int64, displayName string) uuid.UUID {
	t.Helper()
	contact := &types.Contact{ID: uuid.New(), DisplayName: displayName}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	worker := &types.Worker{ID: uuid.New(), SiriusID: siriusID, ContactID: contact.ID}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	return worker.ID
}

func seedFact(t *testing.T, db *gorm.DB, workerID uuid.UUID, category, value string) {
	t.Helper()
	fact := &types.EligibilityFact{ID: uuid.New(), WorkerID: workerID, Category: category, Value: value}
	if err := db.Create(fact).Error; err != nil {
		t.Fatalf("seed fact: %v", err)
	}
}

func seedJob(t *testing.T, db *gorm.DB, jobTypeID *uuid.UUID, start time.Time) (uuid.UUID, uuid.UUID) {
	t.Helper()
	employer := &types.Employer{ID: uuid.New(), Name: "Acme Rigging"}
	if err := db.Create(employer).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	job := &types.Job{ID: uuid.New(), EmployerID: employer.ID, JobTypeID: jobTypeID, StartAt: start, WorkersNeeded: 1}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job.ID, employer.ID
}
