package events

import (
  "context"
  "fmt"
  "sync"
  "github.com/google/uuid"
  "github.com/unionhall/sirius-backend/internal/logger"
)

type Handler func(ctx context.Context, payload any) error

// Bus is the in-process pub/sub channel domain storage emits into. Fan-out
// is sequential; a handler's error or panic is logged and never reaches the
// emitter or the other handlers for the same event.
type Bus struct {
  mu       sync.RWMutex
  log      *logger.Logger
  handlers map[Type]map[uuid.UUID]Handler
  byID     map[uuid.UUID]Type
}

func NewBus(log *logger.Logger) *Bus {
  return &Bus{
    log:      log.With("component", "EventBus"),
    handlers: make(map[Type]map[uuid.UUID]Handler),
    byID:     make(map[uuid.UUID]Type),
  }
}

func (b *Bus) On(eventType Type, handler Handler) uuid.UUID {
  b.mu.Lock()
  defer b.mu.Unlock()

  id := uuid.New()
  subscribers, exists := b.handlers[eventType]
  if !exists {
    subscribers = make(map[uuid.UUID]Handler)
    b.handlers[eventType] = subscribers
  }
  subscribers[id] = handler
  b.byID[id] = eventType

  b.log.Debug("Handler subscribed", "event", eventType, "handlerID", id)
  return id
}

func (b *Bus) Off(handlerID uuid.UUID) {
  b.mu.Lock()
  defer b.mu.Unlock()

  eventType, ok := b.byID[handlerID]
  if !ok {
    return
  }
  delete(b.byID, handlerID)
  if subscribers, exists := b.handlers[eventType]; exists {
    delete(subscribers, handlerID)
    if len(subscribers) == 0 {
      delete(b.handlers, eventType)
    }
  }
  b.log.Debug("Handler unsubscribed", "event", eventType, "handlerID", handlerID)
}

func (b *Bus) Emit(ctx context.Context, eventType Type, payload any) {
  b.mu.RLock()
  subscribers := make([]Handler, 0, len(b.handlers[eventType]))
  for _, h := range b.handlers[eventType] {
    subscribers = append(subscribers, h)
  }
  b.mu.RUnlock()

  for _, handler := range subscribers {
    b.invoke(ctx, eventType, handler, payload)
  }
}

func (b *Bus) invoke(ctx context.Context, eventType Type, handler Handler, payload any) {
  defer func() {
    if rec := recover(); rec != nil {
      b.log.Error("Event handler panicked", "event", eventType, "panic", fmt.Sprint(rec))
    }
  }()
  if err := handler(ctx, payload); err != nil {
    b.log.Error("Event handler failed", "event", eventType, "error", err)
  }
}
