package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusQuoted    Status = "quoted"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{StatusNew, StatusContacted, StatusQualified, StatusQuoted, StatusConverted, StatusLost}

// ErrTerminalStatus is returned when a converted lead would change status.
var ErrTerminalStatus = errors.New("lead is converted and its status can no longer change")

// ParseStatus validates a status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Statuses {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown lead status %q", raw)
}

// IsTerminal reports whether no further status change is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusConverted
}

// CheckTransition reports whether an operator may move a lead from one status to another.
// Staying on the same status is allowed so notes can be appended.
func CheckTransition(from, to Status) error {
	if from.IsTerminal() && from != to {
		return ErrTerminalStatus
	}
	return nil
}

// FormatNote renders an operator note as a timestamped line.
func FormatNote(at time.Time, status Status, text string) string {
	return fmt.Sprintf("[%s] (%s) %s", at.UTC().Format("2006-01-02 15:04 MST"), status, strings.TrimSpace(text))
}
