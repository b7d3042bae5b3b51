package store

import (
	"fmt"
	"strings"
)

// ErrConflict is returned when a unique constraint is violated.
var ErrConflict = fmt.Errorf("conflict")

// ErrAPIClientNotFound is returned when no API client has the given key.
var ErrAPIClientNotFound = fmt.Errorf("api client not found")

// ErrMessageNotFound is returned when a message lookup must succeed but finds nothing.
var ErrMessageNotFound = fmt.Errorf("message not found")

// ErrTaskNotFound is returned when a task id or frontend message id is unknown.
var ErrTaskNotFound = fmt.Errorf("task not found")

// ErrTaskNotAcknowledged is returned when a reply is stored for a task that
// has no frontend message id bound yet.
var ErrTaskNotAcknowledged = fmt.Errorf("task not acknowledged")

// ErrTaskAlreadyDone is returned when a reply is stored twice for one task.
var ErrTaskAlreadyDone = fmt.Errorf("task already done")

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
