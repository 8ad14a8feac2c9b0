package model

import (
	"fmt"
	"strings"
)

// SyncStatus is the state of an asynchronous confirmation channel.
// The zero value means no challenge was ever issued.
type SyncStatus string

const (
	SyncAbsent  SyncStatus = ""
	SyncPending SyncStatus = "PENDING"
	SyncOK      SyncStatus = "OK"
	SyncFail    SyncStatus = "FAIL"
)

// IsTerminal reports whether the status is a completed result.
func (s SyncStatus) IsTerminal() bool {
	return s == SyncOK || s == SyncFail
}

// ParseResultStatus parses the status reported by an external agent.
// An empty value defaults to OK.
func ParseResultStatus(raw string) (SyncStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "OK":
		return SyncOK, nil
	case "FAIL":
		return SyncFail, nil
	}
	return SyncAbsent, fmt.Errorf("invalid result status %q", raw)
}
