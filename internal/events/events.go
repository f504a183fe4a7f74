package events

import (
  "github.com/google/uuid"
)

type Type string

const (
  TypeDispatchSaved           Type = "DispatchSaved"
  TypeDNCSaved                Type = "DNCSaved"
  TypeHFESaved                Type = "HFESaved"
  TypeDispatchStatusSaved     Type = "DispatchStatusSaved"
  TypeWorkerSkillSaved        Type = "WorkerSkillSaved"
  TypeWorkerWorkStatusChanged Type = "WorkerWorkStatusChanged"
  TypeEBASaved                Type = "EBASaved"
)

// WorkerPayload is the contract every eligibility-relevant event payload must
// satisfy: it names the worker whose facts need recomputing. The bus itself
// carries payloads as plain any, so subscribers re-check this at runtime
// rather than trusting the emitter.
type WorkerPayload interface {
  EventWorkerID() uuid.UUID
}

type DispatchSaved struct {
  WorkerID uuid.UUID `json:"worker_id"`
  JobID    uuid.UUID `json:"job_id"`
  Accepted bool      `json:"accepted"`
}

func (p DispatchSaved) EventWorkerID() uuid.UUID { return p.WorkerID }

type DNCSaved struct {
  WorkerID   uuid.UUID `json:"worker_id"`
  EmployerID uuid.UUID `json:"employer_id"`
  Removed    bool      `json:"removed"`
}

func (p DNCSaved) EventWorkerID() uuid.UUID { return p.WorkerID }

type HFESaved struct {
  WorkerID   uuid.UUID `json:"worker_id"`
  EmployerID uuid.UUID `json:"employer_id"`
  Removed    bool      `json:"removed"`
}

func (p HFESaved) EventWorkerID() uuid.UUID { return p.WorkerID }

type DispatchStatusSaved struct {
  WorkerID uuid.UUID `json:"worker_id"`
  Status   string    `json:"status"`
}

func (p DispatchStatusSaved) EventWorkerID() uuid.UUID { return p.WorkerID }

type WorkerSkillSaved struct {
  WorkerID uuid.UUID `json:"worker_id"`
  SkillID  uuid.UUID `json:"skill_id"`
  Removed  bool      `json:"removed"`
}

func (p WorkerSkillSaved) EventWorkerID() uuid.UUID { return p.WorkerID }

type WorkerWorkStatusChanged struct {
  WorkerID     uuid.UUID  `json:"worker_id"`
  WorkStatusID *uuid.UUID `json:"work_status_id,omitempty"`
}

func (p WorkerWorkStatusChanged) EventWorkerID() uuid.UUID { return p.WorkerID }

type EBASaved struct {
  WorkerID    uuid.UUID `json:"worker_id"`
  AvailableOn string    `json:"available_on"`
}

func (p EBASaved) EventWorkerID() uuid.UUID { return p.WorkerID }
