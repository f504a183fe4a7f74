package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
	"github.com/unionhall/sirius-backend/internal/types"
)

type fixture struct {
	db    *gorm.DB
	deps  Deps
	flags *components.Cache
	facts repos.EligibilityFactRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := []string{
		`CREATE TABLE contact (id TEXT PRIMARY KEY, first_name TEXT DEFAULT '', last_name TEXT DEFAULT '', display_name TEXT DEFAULT '', email TEXT, phone TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker (id TEXT PRIMARY KEY, sirius_id INTEGER NOT NULL, contact_id TEXT NOT NULL, work_status_id TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE employer (id TEXT PRIMARY KEY, name TEXT DEFAULT '', created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE work_status (id TEXT PRIMARY KEY, name TEXT DEFAULT '', created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE job_type (id TEXT PRIMARY KEY, name TEXT DEFAULT '', eligibility TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE job (id TEXT PRIMARY KEY, employer_id TEXT NOT NULL, job_type_id TEXT, description TEXT, start_at DATETIME NOT NULL, workers_needed INTEGER DEFAULT 1, required_skills TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE dispatch (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, job_id TEXT NOT NULL, accepted INTEGER DEFAULT 0, accepted_at DATETIME, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker_dnc (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, employer_id TEXT NOT NULL, reason TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker_hfe (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, employer_id TEXT NOT NULL, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker_dispatch_status (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL UNIQUE, status TEXT NOT NULL, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker_skill (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, skill_id TEXT NOT NULL, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE worker_availability (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, available_on DATETIME NOT NULL, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
		`CREATE TABLE eligibility_fact (id TEXT PRIMARY KEY, worker_id TEXT NOT NULL, category TEXT NOT NULL, value TEXT NOT NULL, created_at DATETIME)`,
		`CREATE TABLE component (id TEXT PRIMARY KEY, parent_id TEXT, enabled INTEGER NOT NULL DEFAULT 0, created_at DATETIME, updated_at DATETIME)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	componentRepo := repos.NewComponentRepo(db, log)
	flags := components.NewCache(componentRepo, log)
	facts := repos.NewEligibilityFactRepo(db, log)

	deps := Deps{
		DB:           db,
		Log:          log,
		Flags:        flags,
		Facts:        facts,
		Workers:      repos.NewWorkerRepo(db, log),
		Jobs:         repos.NewJobRepo(db, log),
		Dispatches:   repos.NewDispatchRepo(db, log),
		DNC:          repos.NewWorkerDNCRepo(db, log),
		HFE:          repos.NewWorkerHFERepo(db, log),
		Status:       repos.NewWorkerDispatchStatusRepo(db, log),
		Skills:       repos.NewWorkerSkillRepo(db, log),
		Availability: repos.NewWorkerAvailabilityRepo(db, log),
	}
	return &fixture{db: db, deps: deps, flags: flags, facts: facts}
}

// enableComponents upserts the flag tree and loads the cache. Call again
// after flipping a row to simulate an operator toggle.
func (f *fixture) enableComponents(t *testing.T, enabled map[string]bool) {
	t.Helper()
	rows := []*types.Component{
		{ID: ComponentDispatch, Enabled: true},
		{ID: ComponentEligibility, ParentID: strPtr(ComponentDispatch), Enabled: true},
	}
	for id, on := range enabled {
		rows = append(rows, &types.Component{ID: id, ParentID: strPtr(ComponentEligibility), Enabled: on})
	}
	ctx := context.Background()
	componentRepo := repos.NewComponentRepo(f.db, f.deps.Log)
	if err := componentRepo.Upsert(ctx, nil, rows); err != nil {
		t.Fatalf("seed components: %v", err)
	}
	for _, row := range rows {
		if err := componentRepo.SetEnabled(ctx, nil, row.ID, row.Enabled); err != nil {
			t.Fatalf("set component %s: %v", row.ID, err)
		}
	}
	if err := f.flags.Load(ctx); err != nil {
		t.Fatalf("load flags: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) seedWorker(t *testing.T, siriusID int64) uuid.UUID {
	t.Helper()
	contact := &types.Contact{ID: uuid.New(), DisplayName: "Test Worker"}
	if err := f.db.Create(contact).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	worker := &types.Worker{ID: uuid.New(), SiriusID: siriusID, ContactID: contact.ID}
	if err := f.db.Create(worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	return worker.ID
}

func (f *fixture) factValues(t *testing.T, workerID uuid.UUID, category string) []string {
	t.Helper()
	rows, err := f.facts.GetByWorkerAndCategory(context.Background(), nil, workerID, category)
	if err != nil {
		t.Fatalf("load facts: %v", err)
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Value)
	}
	return values
}

func TestDNCRecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{ComponentDNC: true})
	plugin := NewDNC(f.deps)

	workerID := f.seedWorker(t, 100)
	employerA := uuid.New()
	employerB := uuid.New()
	for _, eid := range []uuid.UUID{employerA, employerB} {
		entry := &types.WorkerDNC{ID: uuid.New(), WorkerID: workerID, EmployerID: eid}
		if err := f.db.Create(entry).Error; err != nil {
			t.Fatalf("seed dnc: %v", err)
		}
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := plugin.RecomputeWorker(ctx, workerID); err != nil {
			t.Fatalf("recompute #%d: %v", i, err)
		}
	}

	values := f.factValues(t, workerID, CategoryDNC)
	if len(values) != 2 {
		t.Fatalf("fact count=%d after repeated recomputes, want 2", len(values))
	}
	seen := map[string]bool{}
	for _, v := range values {
		seen[v] = true
	}
	if !seen[employerA.String()] || !seen[employerB.String()] {
		t.Fatalf("facts=%v, want both employer ids", values)
	}
}

func TestRecomputeClearsFactsWhenComponentDisabled(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{ComponentDNC: true})
	plugin := NewDNC(f.deps)

	workerID := f.seedWorker(t, 101)
	entry := &types.WorkerDNC{ID: uuid.New(), WorkerID: workerID, EmployerID: uuid.New()}
	if err := f.db.Create(entry).Error; err != nil {
		t.Fatalf("seed dnc: %v", err)
	}

	ctx := context.Background()
	if err := plugin.RecomputeWorker(ctx, workerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := f.factValues(t, workerID, CategoryDNC); len(got) != 1 {
		t.Fatalf("facts=%v, want 1 before the toggle", got)
	}

	// Operator turns the component off; the next recompute must clear, even
	// though the source row is still there.
	f.enableComponents(t, map[string]bool{ComponentDNC: false})
	if err := plugin.RecomputeWorker(ctx, workerID); err != nil {
		t.Fatalf("recompute while disabled: %v", err)
	}
	if got := f.factValues(t, workerID, CategoryDNC); len(got) != 0 {
		t.Fatalf("facts=%v after disable, want none", got)
	}
}

func TestSingleShiftRecomputeDedupesStartDates(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{ComponentSingleShift: true})
	plugin := NewSingleShift(f.deps)

	workerID := f.seedWorker(t, 102)
	employerID := uuid.New()
	if err := f.db.Create(&types.Employer{ID: employerID, Name: "Acme"}).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	day := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	mkJob := func(start time.Time) uuid.UUID {
		job := &types.Job{ID: uuid.New(), EmployerID: employerID, StartAt: start}
		if err := f.db.Create(job).Error; err != nil {
			t.Fatalf("seed job: %v", err)
		}
		return job.ID
	}
	mkDispatch := func(jobID uuid.UUID, accepted bool) {
		d := &types.Dispatch{ID: uuid.New(), WorkerID: workerID, JobID: jobID, Accepted: accepted}
		if err := f.db.Create(d).Error; err != nil {
			t.Fatalf("seed dispatch: %v", err)
		}
	}

	mkDispatch(mkJob(day), true)
	mkDispatch(mkJob(day.Add(4*time.Hour)), true)      // same calendar day
	mkDispatch(mkJob(day.AddDate(0, 0, 1)), true)      // next day
	mkDispatch(mkJob(day.AddDate(0, 0, 2)), false)     // not accepted

	if err := plugin.RecomputeWorker(context.Background(), workerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	values := f.factValues(t, workerID, CategorySingleShift)
	if len(values) != 2 {
		t.Fatalf("facts=%v, want the two distinct accepted dates", values)
	}
	seen := map[string]bool{}
	for _, v := range values {
		seen[v] = true
	}
	if !seen["2026-09-01"] || !seen["2026-09-02"] {
		t.Fatalf("facts=%v, want 2026-09-01 and 2026-09-02", values)
	}
}

func TestAcceptedRecomputeTracksJobIDs(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{ComponentAccepted: true})
	plugin := NewAccepted(f.deps)

	workerID := f.seedWorker(t, 103)
	employerID := uuid.New()
	if err := f.db.Create(&types.Employer{ID: employerID, Name: "Acme"}).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	job := &types.Job{ID: uuid.New(), EmployerID: employerID, StartAt: time.Now()}
	if err := f.db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	d := &types.Dispatch{ID: uuid.New(), WorkerID: workerID, JobID: job.ID, Accepted: true}
	if err := f.db.Create(d).Error; err != nil {
		t.Fatalf("seed dispatch: %v", err)
	}

	if err := plugin.RecomputeWorker(context.Background(), workerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	values := f.factValues(t, workerID, CategoryAccepted)
	if len(values) != 1 || values[0] != job.ID.String() {
		t.Fatalf("facts=%v, want [%s]", values, job.ID)
	}
}

func TestDispatchStatusRecompute(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{ComponentDispatchStatus: true})
	plugin := NewDispatchStatus(f.deps)

	workerID := f.seedWorker(t, 104)
	ctx := context.Background()

	// No status row yet: no facts.
	if err := plugin.RecomputeWorker(ctx, workerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := f.factValues(t, workerID, CategoryDispatchStatus); len(got) != 0 {
		t.Fatalf("facts=%v with no status row, want none", got)
	}

	if _, err := f.deps.Status.Upsert(ctx, nil, workerID, types.DispatchStatusAvailable); err != nil {
		t.Fatalf("upsert status: %v", err)
	}
	if err := plugin.RecomputeWorker(ctx, workerID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := f.factValues(t, workerID, CategoryDispatchStatus); len(got) != 1 || got[0] != types.DispatchStatusAvailable {
		t.Fatalf("facts=%v, want [Available]", got)
	}
}

func TestWorkStatusConditionConfigShapes(t *testing.T) {
	f := newFixture(t)
	plugin := NewWorkStatus(f.deps)
	ctx := context.Background()
	qc := eligibility.QueryContext{JobID: uuid.New()}

	cases := []struct {
		name   string
		config map[string]any
		want   []string
	}{
		{name: "nil_config", config: nil, want: nil},
		{name: "empty_list", config: map[string]any{"eligibleWorkStatuses": []any{}}, want: nil},
		{name: "json_decoded_list", config: map[string]any{"eligibleWorkStatuses": []any{"a", "b"}}, want: []string{"a", "b"}},
		{name: "string_slice", config: map[string]any{"eligibleWorkStatuses": []string{"c"}}, want: []string{"c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := plugin.Condition(ctx, qc, tc.config)
			if err != nil {
				t.Fatalf("condition: %v", err)
			}
			if tc.want == nil {
				if cond != nil {
					t.Fatalf("cond=%+v, want nil (no restriction)", cond)
				}
				return
			}
			if cond == nil || cond.Type != eligibility.ConditionExists {
				t.Fatalf("cond=%+v, want exists condition", cond)
			}
			if len(cond.Values) != len(tc.want) {
				t.Fatalf("values=%v, want %v", cond.Values, tc.want)
			}
		})
	}
}

func TestSkillConditionFollowsJobRequirements(t *testing.T) {
	f := newFixture(t)
	plugin := NewSkill(f.deps)
	ctx := context.Background()

	employerID := uuid.New()
	if err := f.db.Create(&types.Employer{ID: employerID, Name: "Acme"}).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	plain := &types.Job{ID: uuid.New(), EmployerID: employerID, StartAt: time.Now()}
	skilled := &types.Job{ID: uuid.New(), EmployerID: employerID, StartAt: time.Now(),
		RequiredSkills: datatypes.JSON(`["rigging","forklift"]`)}
	for _, job := range []*types.Job{plain, skilled} {
		if err := f.db.Create(job).Error; err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}

	cond, err := plugin.Condition(ctx, eligibility.QueryContext{JobID: plain.ID, EmployerID: employerID}, nil)
	if err != nil {
		t.Fatalf("condition plain: %v", err)
	}
	if cond != nil {
		t.Fatalf("job without required skills produced %+v, want nil", cond)
	}

	cond, err = plugin.Condition(ctx, eligibility.QueryContext{JobID: skilled.ID, EmployerID: employerID}, nil)
	if err != nil {
		t.Fatalf("condition skilled: %v", err)
	}
	if cond == nil || cond.Type != eligibility.ConditionExistsAll || len(cond.Values) != 2 {
		t.Fatalf("cond=%+v, want exists_all over two skills", cond)
	}
}

func TestEBAConditionUsesJobStartDate(t *testing.T) {
	f := newFixture(t)
	plugin := NewEBA(f.deps)
	ctx := context.Background()

	employerID := uuid.New()
	if err := f.db.Create(&types.Employer{ID: employerID, Name: "Acme"}).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	job := &types.Job{ID: uuid.New(), EmployerID: employerID,
		StartAt: time.Date(2026, 10, 15, 6, 30, 0, 0, time.UTC)}
	if err := f.db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}

	cond, err := plugin.Condition(ctx, eligibility.QueryContext{JobID: job.ID, EmployerID: employerID}, nil)
	if err != nil {
		t.Fatalf("condition: %v", err)
	}
	if cond == nil || cond.Type != eligibility.ConditionExists || cond.Value != "2026-10-15" {
		t.Fatalf("cond=%+v, want exists on 2026-10-15", cond)
	}

	gone, err := plugin.Condition(ctx, eligibility.QueryContext{JobID: uuid.New()}, nil)
	if err != nil {
		t.Fatalf("condition missing job: %v", err)
	}
	if gone != nil {
		t.Fatalf("missing job produced %+v, want nil", gone)
	}
}

func TestAcceptedPluginIsHiddenAndConditionless(t *testing.T) {
	f := newFixture(t)
	plugin := NewAccepted(f.deps)

	if !plugin.Metadata().Hidden {
		t.Fatal("accepted plugin must be hidden from the config UI")
	}
	cond, err := plugin.Condition(context.Background(), eligibility.QueryContext{JobID: uuid.New()}, nil)
	if err != nil || cond != nil {
		t.Fatalf("cond=%+v err=%v, want nil/nil", cond, err)
	}
}

// Every plugin owns exactly one fact category. Seed source rows for all of
// them, then run the plugins one at a time and check that each run adds only
// its own category.
func TestPluginsWriteOnlyTheirOwnCategory(t *testing.T) {
	f := newFixture(t)
	f.enableComponents(t, map[string]bool{
		ComponentDNC:            true,
		ComponentHFE:            true,
		ComponentDispatchStatus: true,
		ComponentSkill:          true,
		ComponentWorkStatus:     true,
		ComponentSingleShift:    true,
		ComponentEBA:            true,
		ComponentAccepted:       true,
	})

	ctx := context.Background()
	workerID := f.seedWorker(t, 200)
	employerID := uuid.New()

	status := &types.WorkStatus{ID: uuid.New(), Name: "Member"}
	if err := f.db.Create(status).Error; err != nil {
		t.Fatalf("seed work status: %v", err)
	}
	if err := f.db.Model(&types.Worker{}).Where("id = ?", workerID).
		Update("work_status_id", status.ID).Error; err != nil {
		t.Fatalf("assign work status: %v", err)
	}
	seeds := []any{
		&types.WorkerDNC{ID: uuid.New(), WorkerID: workerID, EmployerID: employerID},
		&types.WorkerHFE{ID: uuid.New(), WorkerID: workerID, EmployerID: employerID},
		&types.WorkerDispatchStatus{ID: uuid.New(), WorkerID: workerID, Status: types.DispatchStatusAvailable},
		&types.WorkerSkill{ID: uuid.New(), WorkerID: workerID, SkillID: uuid.New()},
		&types.WorkerAvailability{ID: uuid.New(), WorkerID: workerID, AvailableOn: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)},
	}
	job := &types.Job{ID: uuid.New(), EmployerID: employerID, StartAt: time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC)}
	seeds = append(seeds, job,
		&types.Dispatch{ID: uuid.New(), WorkerID: workerID, JobID: job.ID, Accepted: true})
	for _, row := range seeds {
		if err := f.db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}

	runs := []struct {
		plugin   eligibility.Plugin
		category string
	}{
		{NewDNC(f.deps), CategoryDNC},
		{NewHFE(f.deps), CategoryHFE},
		{NewDispatchStatus(f.deps), CategoryDispatchStatus},
		{NewSkill(f.deps), CategorySkill},
		{NewWorkStatus(f.deps), CategoryWorkStatus},
		{NewSingleShift(f.deps), CategorySingleShift},
		{NewEBA(f.deps), CategoryEBA},
		{NewAccepted(f.deps), CategoryAccepted},
	}

	written := map[string]bool{}
	for _, run := range runs {
		if err := run.plugin.RecomputeWorker(ctx, workerID); err != nil {
			t.Fatalf("recompute %s: %v", run.plugin.ID(), err)
		}
		if got := f.factValues(t, workerID, run.category); len(got) == 0 {
			t.Fatalf("plugin %s wrote no %q facts", run.plugin.ID(), run.category)
		}
		written[run.category] = true

		var categories []string
		if err := f.db.Model(&types.EligibilityFact{}).Distinct("category").
			Where("worker_id = ?", workerID).Pluck("category", &categories).Error; err != nil {
			t.Fatalf("list categories: %v", err)
		}
		if len(categories) != len(written) {
			t.Fatalf("after %s: categories=%v, want exactly %d", run.plugin.ID(), categories, len(written))
		}
		for _, c := range categories {
			if !written[c] {
				t.Fatalf("after %s: unexpected category %q", run.plugin.ID(), c)
			}
		}
	}
}
