package repos

import (
  "context"
  "errors"

  "github.com/jackc/pgx/v5/pgconn"
  "gorm.io/gorm"
)

var (
  // ErrNotFound indicates the requested row does not exist.
  ErrNotFound = errors.New("repo: not found")
  // ErrConflict indicates a unique constraint was violated.
  ErrConflict = errors.New("repo: conflict")
  // ErrPrecondition indicates a referenced row is missing.
  ErrPrecondition = errors.New("repo: precondition failed")
  // ErrRetryable indicates a transient failure the caller may retry.
  ErrRetryable = errors.New("repo: retryable")
)

// classify maps driver-level failures onto the repo error set so services
// never branch on Postgres error codes.
func classify(err error) error {
  if err == nil {
    return nil
  }
  switch {
  case errors.Is(err, gorm.ErrRecordNotFound):
    return errors.Join(ErrNotFound, err)
  case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
    return errors.Join(ErrRetryable, err)
  }

  var pgErr *pgconn.PgError
  if errors.As(err, &pgErr) {
    switch pgErr.Code {
    case "23505": // unique_violation
      return errors.Join(ErrConflict, err)
    case "23503": // foreign_key_violation
      return errors.Join(ErrPrecondition, err)
    case "40001", "40P01", "55P03": // serialization / deadlock / lock_not_available
      return errors.Join(ErrRetryable, err)
    }
  }
  return err
}
