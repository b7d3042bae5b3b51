package seed

import (
	"fmt"
	"log/slog"
)

// ReplayErrorPolicy decides what FillMessages does when replaying the fixture
// fails part way through.
type ReplayErrorPolicy int

const (
	// LogAndContinue logs the failure and reports success, so the remaining
	// steps of a run still execute.
	LogAndContinue ReplayErrorPolicy = iota
	// Propagate logs the failure and returns it.
	Propagate
)

// ParseReplayErrorPolicy maps "log" and "fail" to a policy.
func ParseReplayErrorPolicy(s string) (ReplayErrorPolicy, error) {
	switch s {
	case "", "log":
		return LogAndContinue, nil
	case "fail":
		return Propagate, nil
	default:
		return 0, fmt.Errorf("unknown replay error policy %q (want log or fail)", s)
	}
}

func (p ReplayErrorPolicy) String() string {
	switch p {
	case LogAndContinue:
		return "log"
	case Propagate:
		return "fail"
	default:
		return fmt.Sprintf("ReplayErrorPolicy(%d)", int(p))
	}
}

// handle applies the policy to a replay error.
func (p ReplayErrorPolicy) handle(logger *slog.Logger, err error) error {
	logger.Error("seed data insertion failed", "error", err, "policy", p.String())
	if p == Propagate {
		return fmt.Errorf("replay seed data: %w", err)
	}
	return nil
}
