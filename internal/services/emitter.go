package services

import (
  "context"

  "github.com/unionhall/sirius-backend/internal/events"
  "github.com/unionhall/sirius-backend/internal/logger"
)

// Emitter delivers a domain event locally and, when a redis mirror is
// configured, to the other API instances. Local delivery always happens
// first so this instance's facts never lag its own writes.
type Emitter struct {
  log    *logger.Logger
  bus    *events.Bus
  mirror *events.RedisMirror
}

func NewEmitter(log *logger.Logger, bus *events.Bus, mirror *events.RedisMirror) *Emitter {
  return &Emitter{log: log.With("component", "emitter"), bus: bus, mirror: mirror}
}

func (e *Emitter) Emit(ctx context.Context, eventType events.Type, payload any) {
  e.bus.Emit(ctx, eventType, payload)
  if e.mirror == nil {
    return
  }
  if err := e.mirror.Publish(ctx, eventType, payload); err != nil {
    e.log.Warn("failed to mirror event", "event", string(eventType), "error", err)
  }
}
