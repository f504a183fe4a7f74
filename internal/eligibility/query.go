package eligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
	"github.com/unionhall/sirius-backend/internal/types"
)

// Filters are the extra narrowing knobs the dispatch board offers on top of
// the plugin conditions.
type Filters struct {
	SiriusID              *int64
	Name                  string
	ExcludeWithDispatches bool
}

type EligibleWorker struct {
	ID          uuid.UUID `json:"id"`
	SiriusID    int64     `json:"sirius_id"`
	DisplayName string    `json:"display_name"`
}

type EligibleWorkersResult struct {
	Workers           []EligibleWorker   `json:"workers"`
	Total             int64              `json:"total"`
	AppliedConditions []AppliedCondition `json:"appliedConditions"`
}

// EligibleWorkersSQL is the explain-path result: the query that would run,
// not its rows.
type EligibleWorkersSQL struct {
	SQL               string             `json:"sql"`
	Params            []any              `json:"params"`
	AppliedConditions []AppliedCondition `json:"appliedConditions"`
}

type WorkerEligibilityResult struct {
	WorkerID          uuid.UUID          `json:"worker_id"`
	JobID             uuid.UUID          `json:"job_id"`
	Eligible          bool               `json:"eligible"`
	AppliedConditions []AppliedCondition `json:"appliedConditions"`
}

type QueryService interface {
	// EligibleWorkersForJob returns the page of workers currently eligible
	// for the job. A job id that no longer exists yields an empty result,
	// never an error.
	EligibleWorkersForJob(ctx context.Context, jobID uuid.UUID, limit, offset int, filters Filters) (*EligibleWorkersResult, error)
	// EligibleWorkersForJobSQL compiles the identical query and returns its
	// text and params instead of executing. Nil when the job is gone.
	EligibleWorkersForJobSQL(ctx context.Context, jobID uuid.UUID, limit, offset int, filters Filters) (*EligibleWorkersSQL, error)
	// CheckWorkerEligibility evaluates the same condition set for a single
	// worker. Nil result when the job is gone.
	CheckWorkerEligibility(ctx context.Context, jobID, workerID uuid.UUID) (*WorkerEligibilityResult, error)
}

type queryService struct {
	db       *gorm.DB
	log      *logger.Logger
	registry *Registry
	flags    *components.Cache
	jobs     repos.JobRepo
	jobTypes repos.JobTypeRepo
}

func NewQueryService(
	db *gorm.DB,
	log *logger.Logger,
	registry *Registry,
	flags *components.Cache,
	jobs repos.JobRepo,
	jobTypes repos.JobTypeRepo,
) QueryService {
	return &queryService{
		db:       db,
		log:      log.With("service", "EligibilityQueryService"),
		registry: registry,
		flags:    flags,
		jobs:     jobs,
		jobTypes: jobTypes,
	}
}

func (s *queryService) EligibleWorkersForJob(ctx context.Context, jobID uuid.UUID, limit, offset int, filters Filters) (*EligibleWorkersResult, error) {
	job, err := s.jobs.GetWithRelations(ctx, nil, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		// The job may have been deleted between the board loading and this
		// request; an empty page keeps the endpoint calm.
		return &EligibleWorkersResult{Workers: []EligibleWorker{}, Total: 0, AppliedConditions: []AppliedCondition{}}, nil
	}

	applied, err := s.conditionsForJob(ctx, job)
	if err != nil {
		return nil, err
	}
	clauses, params := s.compileAll(applied)
	filterClauses, filterParams := s.filterPredicates(job.ID, filters)
	clauses = append(clauses, filterClauses...)
	params = append(params, filterParams...)

	var total int64
	if err := s.baseQuery(ctx, clauses, params).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count eligible workers: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var workers []EligibleWorker
	err = s.baseQuery(ctx, clauses, params).
		Select("worker.id AS id, worker.sirius_id AS sirius_id, contact.display_name AS display_name").
		Order("contact.display_name, worker.id").
		Limit(limit).
		Offset(offset).
		Scan(&workers).Error
	if err != nil {
		return nil, fmt.Errorf("fetch eligible workers: %w", err)
	}
	if workers == nil {
		workers = []EligibleWorker{}
	}

	return &EligibleWorkersResult{Workers: workers, Total: total, AppliedConditions: applied}, nil
}

func (s *queryService) EligibleWorkersForJobSQL(ctx context.Context, jobID uuid.UUID, limit, offset int, filters Filters) (*EligibleWorkersSQL, error) {
	job, err := s.jobs.GetWithRelations(ctx, nil, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, nil
	}

	applied, err := s.conditionsForJob(ctx, job)
	if err != nil {
		return nil, err
	}
	clauses, params := s.compileAll(applied)
	filterClauses, filterParams := s.filterPredicates(job.ID, filters)
	clauses = append(clauses, filterClauses...)
	params = append(params, filterParams...)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	sql := "SELECT worker.id, worker.sirius_id, contact.display_name" +
		" FROM worker JOIN contact ON contact.id = worker.contact_id" +
		" WHERE " + strings.Join(append(basePredicates(), clauses...), " AND ") +
		" ORDER BY contact.display_name, worker.id LIMIT ? OFFSET ?"
	params = append(params, limit, offset)

	return &EligibleWorkersSQL{SQL: sql, Params: params, AppliedConditions: applied}, nil
}

func (s *queryService) CheckWorkerEligibility(ctx context.Context, jobID, workerID uuid.UUID) (*WorkerEligibilityResult, error) {
	job, err := s.jobs.GetWithRelations(ctx, nil, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, nil
	}

	applied, err := s.conditionsForJob(ctx, job)
	if err != nil {
		return nil, err
	}
	clauses, params := s.compileAll(applied)
	clauses = append(clauses, "worker.id = ?")
	params = append(params, workerID)

	var count int64
	if err := s.baseQuery(ctx, clauses, params).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check worker eligibility: %w", err)
	}

	return &WorkerEligibilityResult{
		WorkerID:          workerID,
		JobID:             jobID,
		Eligible:          count > 0,
		AppliedConditions: applied,
	}, nil
}

// conditionsForJob loads the job type's plugin configuration and collects a
// condition from each enabled, registered, component-on plugin. A stale
// plugin id or a failing condition fetch costs only that plugin's
// contribution.
func (s *queryService) conditionsForJob(ctx context.Context, job *types.Job) ([]AppliedCondition, error) {
	applied := []AppliedCondition{}
	if job.JobTypeID == nil {
		return applied, nil
	}

	jobType, err := s.jobTypes.GetByID(ctx, nil, *job.JobTypeID)
	if err != nil {
		return nil, fmt.Errorf("load job type: %w", err)
	}
	if jobType == nil || len(jobType.Eligibility) == 0 {
		return applied, nil
	}

	var configs []PluginConfig
	if err := json.Unmarshal(jobType.Eligibility, &configs); err != nil {
		s.log.Warn("Job type has malformed eligibility config, applying no conditions", "job_type_id", jobType.ID, "error", err)
		return applied, nil
	}

	qc := QueryContext{JobID: job.ID, EmployerID: job.EmployerID, JobTypeID: job.JobTypeID}
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		plugin, ok := s.registry.Get(cfg.PluginID)
		if !ok {
			s.log.Warn("Job type references unknown eligibility plugin", "plugin", cfg.PluginID, "job_type_id", jobType.ID)
			continue
		}
		if !s.flags.Initialized() || !s.flags.IsEnabled(plugin.ComponentID()) {
			continue
		}
		cond, err := plugin.Condition(ctx, qc, cfg.Config)
		if err != nil {
			s.log.Warn("Eligibility plugin condition fetch failed, skipping", "plugin", cfg.PluginID, "job_id", job.ID, "error", err)
			continue
		}
		if cond == nil {
			continue
		}
		applied = append(applied, AppliedCondition{PluginID: cfg.PluginID, Condition: *cond})
	}
	return applied, nil
}

func (s *queryService) compileAll(applied []AppliedCondition) ([]string, []any) {
	clauses := make([]string, 0, len(applied))
	var params []any
	for _, ac := range applied {
		frag, args, ok := compileCondition(ac.Condition)
		if !ok {
			s.log.Warn("Unrecognized eligibility condition type, compiling as always-true", "plugin", ac.PluginID, "type", ac.Condition.Type)
			frag, args = "1 = 1", nil
		}
		clauses = append(clauses, frag)
		params = append(params, args...)
	}
	return clauses, params
}

func (s *queryService) filterPredicates(jobID uuid.UUID, filters Filters) ([]string, []any) {
	var clauses []string
	var params []any
	if filters.SiriusID != nil {
		clauses = append(clauses, "worker.sirius_id = ?")
		params = append(params, *filters.SiriusID)
	}
	if name := strings.TrimSpace(filters.Name); name != "" {
		clauses = append(clauses, "LOWER(contact.display_name) LIKE ?")
		params = append(params, "%"+strings.ToLower(name)+"%")
	}
	if filters.ExcludeWithDispatches {
		clauses = append(clauses, "NOT EXISTS (SELECT 1 FROM dispatch d WHERE d.worker_id = worker.id AND d.job_id = ? AND d.deleted_at IS NULL)")
		params = append(params, jobID)
	}
	return clauses, params
}

func basePredicates() []string {
	return []string{"worker.deleted_at IS NULL", "contact.deleted_at IS NULL"}
}

func (s *queryService) baseQuery(ctx context.Context, clauses []string, params []any) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("worker").
		Joins("JOIN contact ON contact.id = worker.contact_id").
		Where(strings.Join(basePredicates(), " AND "))
	if len(clauses) > 0 {
		q = q.Where(strings.Join(clauses, " AND "), params...)
	}
	return q
}
