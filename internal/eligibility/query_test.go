package eligibility

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
	"github.com/unionhall/sirius-backend/internal/types"
)

type queryFixture struct {
	db       *gorm.DB
	registry *Registry
	service  QueryService
}

// newQueryFixture seeds a job type configured with the given plugins and
// returns the service plus the job/employer ids the conditions can key on.
func newQueryFixture(t *testing.T, pluginsByID map[string]*stubPlugin, componentRows []*types.Component, configs []PluginConfig) (*queryFixture, uuid.UUID, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	registry, _, flags := testRegistry(t, componentRows)
	for _, p := range pluginsByID {
		registry.Register(p)
	}

	raw, err := json.Marshal(configs)
	if err != nil {
		t.Fatalf("marshal configs: %v", err)
	}
	jobType := &types.JobType{ID: uuid.New(), Name: "Stagehand", Eligibility: raw}
	if err := db.Create(jobType).Error; err != nil {
		t.Fatalf("seed job type: %v", err)
	}
	jobID, employerID := seedJob(t, db, &jobType.ID, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	service := NewQueryService(db, log, registry, flags, repos.NewJobRepo(db, log), repos.NewJobTypeRepo(db, log))
	return &queryFixture{db: db, registry: registry, service: service}, jobID, employerID
}

func workerIDs(result *EligibleWorkersResult) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(result.Workers))
	for _, w := range result.Workers {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestEligibleWorkersNotExistsExcludesListedWorker(t *testing.T) {
	dnc := &stubPlugin{id: "dnc", componentID: "c.dnc"}
	fx, jobID, employerID := newQueryFixture(t,
		map[string]*stubPlugin{"dnc": dnc},
		allOn("c.dnc"),
		[]PluginConfig{{PluginID: "dnc", Enabled: true}},
	)
	dnc.conditionFn = func(qc QueryContext, config map[string]any) (*Condition, error) {
		return &Condition{Category: "dnc", Type: ConditionNotExists, Value: qc.EmployerID.String()}, nil
	}

	blocked := seedWorker(t, fx.db, 1001, "Avery Block")
	clear := seedWorker(t, fx.db, 1002, "Casey Clear")
	seedFact(t, fx.db, blocked, "dnc", employerID.String())

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	ids := workerIDs(result)
	if len(ids) != 1 || ids[0] != clear {
		t.Fatalf("eligible=%v, want only %s", ids, clear)
	}
	if result.Total != 1 {
		t.Fatalf("total=%d, want 1", result.Total)
	}
	if len(result.AppliedConditions) != 1 || result.AppliedConditions[0].PluginID != "dnc" {
		t.Fatalf("applied conditions = %+v, want one dnc entry", result.AppliedConditions)
	}
}

func TestEligibleWorkersExistsOrNonePassesWorkersWithNoFacts(t *testing.T) {
	hfe := &stubPlugin{id: "hfe", componentID: "c.hfe"}
	fx, jobID, employerID := newQueryFixture(t,
		map[string]*stubPlugin{"hfe": hfe},
		allOn("c.hfe"),
		[]PluginConfig{{PluginID: "hfe", Enabled: true}},
	)
	hfe.conditionFn = func(qc QueryContext, config map[string]any) (*Condition, error) {
		return &Condition{Category: "hfe", Type: ConditionExistsOrNone, Value: qc.EmployerID.String()}, nil
	}

	heldForThis := seedWorker(t, fx.db, 2001, "Held Here")
	heldElsewhere := seedWorker(t, fx.db, 2002, "Held Away")
	unheld := seedWorker(t, fx.db, 2003, "Not Held")
	seedFact(t, fx.db, heldForThis, "hfe", employerID.String())
	seedFact(t, fx.db, heldElsewhere, "hfe", uuid.NewString())

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, id := range workerIDs(result) {
		got[id] = true
	}
	if !got[heldForThis] || !got[unheld] || got[heldElsewhere] {
		t.Fatalf("eligible=%v; want held-for-this and unheld but not held-elsewhere", workerIDs(result))
	}
}

func TestEligibleWorkersExistsAllRequiresEveryValue(t *testing.T) {
	skill := &stubPlugin{id: "skill", componentID: "c.skill"}
	fx, jobID, _ := newQueryFixture(t,
		map[string]*stubPlugin{"skill": skill},
		allOn("c.skill"),
		[]PluginConfig{{PluginID: "skill", Enabled: true}},
	)
	skill.condition = &Condition{Category: "skill", Type: ConditionExistsAll, Values: []string{"rigging", "forklift"}}

	full := seedWorker(t, fx.db, 3001, "Fully Skilled")
	partial := seedWorker(t, fx.db, 3002, "Half Skilled")
	seedFact(t, fx.db, full, "skill", "rigging")
	seedFact(t, fx.db, full, "skill", "forklift")
	seedFact(t, fx.db, partial, "skill", "rigging")

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	ids := workerIDs(result)
	if len(ids) != 1 || ids[0] != full {
		t.Fatalf("eligible=%v, want only %s", ids, full)
	}
}

func TestEligibleWorkersSameDayBlockWithAcceptedExemption(t *testing.T) {
	single := &stubPlugin{id: "singleshift", componentID: "c.singleshift"}
	fx, jobID, _ := newQueryFixture(t,
		map[string]*stubPlugin{"singleshift": single},
		allOn("c.singleshift"),
		[]PluginConfig{{PluginID: "singleshift", Enabled: true}},
	)
	single.conditionFn = func(qc QueryContext, config map[string]any) (*Condition, error) {
		return &Condition{
			Category:       "singleshift",
			Type:           ConditionNotExistsUnlessExists,
			Value:          "2026-09-01",
			UnlessCategory: "accepted",
			UnlessValue:    qc.JobID.String(),
		}, nil
	}

	free := seedWorker(t, fx.db, 4001, "Free That Day")
	busyElsewhere := seedWorker(t, fx.db, 4002, "Busy Elsewhere")
	busyOnThisJob := seedWorker(t, fx.db, 4003, "Already On This Job")
	seedFact(t, fx.db, busyElsewhere, "singleshift", "2026-09-01")
	seedFact(t, fx.db, busyOnThisJob, "singleshift", "2026-09-01")
	seedFact(t, fx.db, busyOnThisJob, "accepted", jobID.String())

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, id := range workerIDs(result) {
		got[id] = true
	}
	if !got[free] {
		t.Fatal("unbooked worker should be eligible")
	}
	if got[busyElsewhere] {
		t.Fatal("worker booked on another same-day job should be excluded")
	}
	if !got[busyOnThisJob] {
		t.Fatal("worker already accepted onto this very job should stay eligible")
	}
}

func TestEligibleWorkersMissingJobYieldsEmptyResult(t *testing.T) {
	fx, _, _ := newQueryFixture(t, nil, nil, nil)

	result, err := fx.service.EligibleWorkersForJob(context.Background(), uuid.New(), 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Workers) != 0 || result.Total != 0 {
		t.Fatalf("missing job returned %d workers (total %d), want empty", len(result.Workers), result.Total)
	}
}

func TestEligibleWorkersSkipsDisabledAndUnknownConfigEntries(t *testing.T) {
	active := &stubPlugin{id: "active", componentID: "c.active",
		condition: &Condition{Category: "dispstatus", Type: ConditionExists, Value: "Available"}}
	off := &stubPlugin{id: "off", componentID: "c.off",
		condition: &Condition{Category: "dnc", Type: ConditionNotExistsCategory}}
	fx, jobID, _ := newQueryFixture(t,
		map[string]*stubPlugin{"active": active, "off": off},
		[]*types.Component{
			{ID: "c.active", Enabled: true},
			{ID: "c.off", Enabled: false},
		},
		[]PluginConfig{
			{PluginID: "active", Enabled: true},
			{PluginID: "off", Enabled: true},      // component flag off
			{PluginID: "active2", Enabled: false}, // disabled in config
			{PluginID: "ghost", Enabled: true},    // not registered
		},
	)

	available := seedWorker(t, fx.db, 5001, "Ready Worker")
	listed := seedWorker(t, fx.db, 5002, "Listed But Ready")
	seedFact(t, fx.db, available, "dispstatus", "Available")
	seedFact(t, fx.db, listed, "dispstatus", "Available")
	seedFact(t, fx.db, listed, "dnc", "anyone")

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.AppliedConditions) != 1 || result.AppliedConditions[0].PluginID != "active" {
		t.Fatalf("applied=%+v, want only the active plugin", result.AppliedConditions)
	}
	// The off plugin's dnc condition must not have run: the listed worker
	// stays eligible.
	got := map[uuid.UUID]bool{}
	for _, id := range workerIDs(result) {
		got[id] = true
	}
	if !got[available] || !got[listed] {
		t.Fatalf("eligible=%v, want both workers", workerIDs(result))
	}
}

func TestEligibleWorkersFilters(t *testing.T) {
	fx, jobID, _ := newQueryFixture(t, nil, nil, nil)

	alice := seedWorker(t, fx.db, 6001, "Alice Anchor")
	seedWorker(t, fx.db, 6002, "Bob Bridge")
	dispatched := seedWorker(t, fx.db, 6003, "Already Dispatched")
	if err := fx.db.Create(&types.Dispatch{ID: uuid.New(), WorkerID: dispatched, JobID: jobID}).Error; err != nil {
		t.Fatalf("seed dispatch: %v", err)
	}

	byID, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{SiriusID: int64Ptr(6001)})
	if err != nil {
		t.Fatalf("sirius_id filter: %v", err)
	}
	if ids := workerIDs(byID); len(ids) != 1 || ids[0] != alice {
		t.Fatalf("sirius_id filter returned %v, want only %s", ids, alice)
	}

	byName, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{Name: "aLiCe"})
	if err != nil {
		t.Fatalf("name filter: %v", err)
	}
	if ids := workerIDs(byName); len(ids) != 1 || ids[0] != alice {
		t.Fatalf("name filter returned %v, want only %s", ids, alice)
	}

	noDispatched, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{ExcludeWithDispatches: true})
	if err != nil {
		t.Fatalf("dispatch filter: %v", err)
	}
	for _, id := range workerIDs(noDispatched) {
		if id == dispatched {
			t.Fatal("worker already dispatched to the job should be filtered out")
		}
	}
	if noDispatched.Total != 2 {
		t.Fatalf("total=%d, want 2", noDispatched.Total)
	}
}

func TestEligibleWorkersOrderingAndPaging(t *testing.T) {
	fx, jobID, _ := newQueryFixture(t, nil, nil, nil)

	seedWorker(t, fx.db, 7002, "Bravo")
	seedWorker(t, fx.db, 7001, "Alpha")
	seedWorker(t, fx.db, 7003, "Charlie")

	page, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 2, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total=%d, want 3", page.Total)
	}
	if len(page.Workers) != 2 || page.Workers[0].DisplayName != "Alpha" || page.Workers[1].DisplayName != "Bravo" {
		t.Fatalf("first page = %+v, want Alpha then Bravo", page.Workers)
	}

	rest, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 2, 2, Filters{})
	if err != nil {
		t.Fatalf("query offset: %v", err)
	}
	if len(rest.Workers) != 1 || rest.Workers[0].DisplayName != "Charlie" {
		t.Fatalf("second page = %+v, want Charlie", rest.Workers)
	}
}

func TestEligibleWorkersSQLMatchesExecutedConditions(t *testing.T) {
	dnc := &stubPlugin{id: "dnc", componentID: "c.dnc"}
	fx, jobID, employerID := newQueryFixture(t,
		map[string]*stubPlugin{"dnc": dnc},
		allOn("c.dnc"),
		[]PluginConfig{{PluginID: "dnc", Enabled: true}},
	)
	dnc.conditionFn = func(qc QueryContext, config map[string]any) (*Condition, error) {
		return &Condition{Category: "dnc", Type: ConditionNotExists, Value: qc.EmployerID.String()}, nil
	}

	explain, err := fx.service.EligibleWorkersForJobSQL(context.Background(), jobID, 10, 5, Filters{})
	if err != nil {
		t.Fatalf("sql view: %v", err)
	}
	if explain == nil {
		t.Fatal("sql view returned nil for an existing job")
	}
	if !strings.Contains(explain.SQL, "NOT EXISTS (SELECT 1 FROM eligibility_fact ef") {
		t.Fatalf("sql missing compiled condition: %s", explain.SQL)
	}
	if !strings.Contains(explain.SQL, "ORDER BY contact.display_name, worker.id LIMIT ? OFFSET ?") {
		t.Fatalf("sql missing ordering/paging: %s", explain.SQL)
	}
	if len(explain.AppliedConditions) != 1 || explain.AppliedConditions[0].PluginID != "dnc" {
		t.Fatalf("applied=%+v, want one dnc entry", explain.AppliedConditions)
	}

	found := false
	for _, p := range explain.Params {
		if s, ok := p.(string); ok && s == employerID.String() {
			found = true
		}
	}
	if !found {
		t.Fatalf("params %v missing employer id %s", explain.Params, employerID)
	}

	missing, err := fx.service.EligibleWorkersForJobSQL(context.Background(), uuid.New(), 0, 0, Filters{})
	if err != nil {
		t.Fatalf("sql view missing job: %v", err)
	}
	if missing != nil {
		t.Fatal("sql view should be nil for a missing job")
	}
}

func TestCheckWorkerEligibility(t *testing.T) {
	dnc := &stubPlugin{id: "dnc", componentID: "c.dnc"}
	fx, jobID, employerID := newQueryFixture(t,
		map[string]*stubPlugin{"dnc": dnc},
		allOn("c.dnc"),
		[]PluginConfig{{PluginID: "dnc", Enabled: true}},
	)
	dnc.conditionFn = func(qc QueryContext, config map[string]any) (*Condition, error) {
		return &Condition{Category: "dnc", Type: ConditionNotExists, Value: qc.EmployerID.String()}, nil
	}

	blocked := seedWorker(t, fx.db, 8001, "Blocked")
	clear := seedWorker(t, fx.db, 8002, "Clear")
	seedFact(t, fx.db, blocked, "dnc", employerID.String())

	gotBlocked, err := fx.service.CheckWorkerEligibility(context.Background(), jobID, blocked)
	if err != nil {
		t.Fatalf("check blocked: %v", err)
	}
	if gotBlocked.Eligible {
		t.Fatal("blocked worker reported eligible")
	}

	gotClear, err := fx.service.CheckWorkerEligibility(context.Background(), jobID, clear)
	if err != nil {
		t.Fatalf("check clear: %v", err)
	}
	if !gotClear.Eligible {
		t.Fatal("clear worker reported ineligible")
	}

	gone, err := fx.service.CheckWorkerEligibility(context.Background(), uuid.New(), clear)
	if err != nil {
		t.Fatalf("check missing job: %v", err)
	}
	if gone != nil {
		t.Fatal("missing job should yield a nil result")
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestEligibleWorkersNoConfigsImposeNoRestriction(t *testing.T) {
	fx, jobID, _ := newQueryFixture(t, nil, allOn(), nil)

	a := seedWorker(t, fx.db, 6001, "Open Alpha")
	b := seedWorker(t, fx.db, 6002, "Open Bravo")
	seedFact(t, fx.db, a, "dnc", uuid.NewString())

	result, err := fx.service.EligibleWorkersForJob(context.Background(), jobID, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, id := range workerIDs(result) {
		got[id] = true
	}
	if result.Total != 2 || !got[a] || !got[b] {
		t.Fatalf("total=%d eligible=%v, want every worker with no plugins configured", result.Total, workerIDs(result))
	}
	if len(result.AppliedConditions) != 0 {
		t.Fatalf("applied conditions = %+v, want none", result.AppliedConditions)
	}
}
