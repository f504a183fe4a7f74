// Package plugins holds the concrete eligibility rules the dispatch board
// runs with. Each plugin owns its fact category outright; nothing else in
// the codebase writes those rows.
package plugins

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// Fact categories. One owner per category, enforced by convention and by
// the registry tests.
const (
	CategoryDNC            = "dnc"
	CategoryHFE            = "hfe"
	CategoryDispatchStatus = "dispstatus"
	CategorySkill          = "skill"
	CategoryWorkStatus     = "ws"
	CategorySingleShift    = "singleshift"
	CategoryEBA            = "eba"
	CategoryAccepted       = "accepted"
)

// Component flag ids. Children inherit from dispatch.eligibility, so
// flipping the parent off silences every plugin at once.
const (
	ComponentDispatch       = "dispatch"
	ComponentEligibility    = "dispatch.eligibility"
	ComponentDNC            = "dispatch.eligibility.dnc"
	ComponentHFE            = "dispatch.eligibility.hfe"
	ComponentDispatchStatus = "dispatch.eligibility.dispstatus"
	ComponentSkill          = "dispatch.eligibility.skill"
	ComponentWorkStatus     = "dispatch.eligibility.ws"
	ComponentSingleShift    = "dispatch.eligibility.singleshift"
	ComponentEBA            = "dispatch.eligibility.eba"
	ComponentAccepted       = "dispatch.eligibility.accepted"
	ComponentDebugSQL       = "dispatch.eligibility.debugsql"
)

// workerIDFromPayload is the extractor every plugin shares: payloads on this
// bus carry the affected worker id or they are not eligibility events.
func workerIDFromPayload(payload any) (uuid.UUID, bool) {
	wp, ok := payload.(events.WorkerPayload)
	if !ok {
		return uuid.Nil, false
	}
	return wp.EventWorkerID(), true
}

// Deps bundles everything the stock plugins need.
type Deps struct {
	DB           *gorm.DB
	Log          *logger.Logger
	Flags        *components.Cache
	Facts        repos.EligibilityFactRepo
	Workers      repos.WorkerRepo
	Jobs         repos.JobRepo
	Dispatches   repos.DispatchRepo
	DNC          repos.WorkerDNCRepo
	HFE          repos.WorkerHFERepo
	Status       repos.WorkerDispatchStatusRepo
	Skills       repos.WorkerSkillRepo
	Availability repos.WorkerAvailabilityRepo
}

// RegisterAll wires the stock plugin set into the registry.
func RegisterAll(registry *eligibility.Registry, deps Deps) {
	registry.Register(NewDNC(deps))
	registry.Register(NewHFE(deps))
	registry.Register(NewDispatchStatus(deps))
	registry.Register(NewSkill(deps))
	registry.Register(NewWorkStatus(deps))
	registry.Register(NewSingleShift(deps))
	registry.Register(NewEBA(deps))
	registry.Register(NewAccepted(deps))
}
