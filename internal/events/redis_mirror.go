package events

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "github.com/redis/go-redis/v9"

  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/utils"
)

// RedisMirror fans domain events out across API instances. Each instance
// publishes its local emissions to a shared channel and re-emits what the
// others publish, so fact maintenance keeps up no matter which instance took
// the write.
type RedisMirror struct {
  log     *logger.Logger
  bus     *Bus
  rdb     *redis.Client
  channel string
  origin  uuid.UUID
}

type envelope struct {
  Origin  uuid.UUID       `json:"origin"`
  Type    Type            `json:"type"`
  Payload json.RawMessage `json:"payload"`
}

func NewRedisMirror(log *logger.Logger, bus *Bus) (*RedisMirror, error) {
  addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }
  channel := utils.GetEnv("REDIS_EVENT_CHANNEL", "dispatch-events", log)

  rdb := redis.NewClient(&redis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &RedisMirror{
    log:     log.With("component", "RedisMirror"),
    bus:     bus,
    rdb:     rdb,
    channel: channel,
    origin:  uuid.New(),
  }, nil
}

// Publish sends a locally-emitted event to the shared channel. Callers emit
// on the local bus first; mirroring is best-effort.
func (m *RedisMirror) Publish(ctx context.Context, eventType Type, payload any) error {
  raw, err := json.Marshal(payload)
  if err != nil {
    return err
  }
  env := envelope{Origin: m.origin, Type: eventType, Payload: raw}
  data, err := json.Marshal(env)
  if err != nil {
    return err
  }
  return m.rdb.Publish(ctx, m.channel, data).Err()
}

func (m *RedisMirror) StartForwarder(ctx context.Context) error {
  sub := m.rdb.Subscribe(ctx, m.channel)

  // ensures subscription actually started
  if _, err := sub.Receive(ctx); err != nil {
    _ = sub.Close()
    return fmt.Errorf("redis subscribe: %w", err)
  }

  go func() {
    ch := sub.Channel()
    for {
      select {
      case <-ctx.Done():
        _ = sub.Close()
        return
      case msg, ok := <-ch:
        if !ok || msg == nil {
          return
        }
        var env envelope
        if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
          m.log.Warn("bad mirrored event payload", "error", err)
          continue
        }
        if env.Origin == m.origin {
          continue
        }
        payload, err := decodePayload(env.Type, env.Payload)
        if err != nil {
          m.log.Warn("unknown mirrored event type", "event", env.Type, "error", err)
          continue
        }
        m.bus.Emit(ctx, env.Type, payload)
      }
    }
  }()

  return nil
}

func (m *RedisMirror) Close() error {
  if m == nil || m.rdb == nil {
    return nil
  }
  return m.rdb.Close()
}

func decodePayload(eventType Type, raw json.RawMessage) (any, error) {
  var payload any
  switch eventType {
  case TypeDispatchSaved:
    payload = &DispatchSaved{}
  case TypeDNCSaved:
    payload = &DNCSaved{}
  case TypeHFESaved:
    payload = &HFESaved{}
  case TypeDispatchStatusSaved:
    payload = &DispatchStatusSaved{}
  case TypeWorkerSkillSaved:
    payload = &WorkerSkillSaved{}
  case TypeWorkerWorkStatusChanged:
    payload = &WorkerWorkStatusChanged{}
  case TypeEBASaved:
    payload = &EBASaved{}
  default:
    return nil, fmt.Errorf("no decoder for event type %q", eventType)
  }
  if err := json.Unmarshal(raw, payload); err != nil {
    return nil, err
  }
  return payload, nil
}
