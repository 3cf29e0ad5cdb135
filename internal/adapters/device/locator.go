// Package device adapts what a client device reports about itself (location
// permission, position fixes) and what the server hands back to it (share
// sheet texts) to the core ports.
package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// ErrNoFix means the device has not reported a position yet.
var ErrNoFix = errors.New("no position reported")

// Reported implements ports.DeviceLocator from the permission status and
// fix most recently reported by the client.
type Reported struct {
	mu     sync.RWMutex
	status domain.PermissionStatus
	fix    *domain.Coordinates
	at     time.Time
}

// NewReported creates a locator with an undetermined permission.
func NewReported() *Reported {
	return &Reported{status: domain.PermissionUndetermined}
}

// Report records the client's permission status and, when granted, its fix.
// A denial forgets any earlier fix.
func (r *Reported) Report(status domain.PermissionStatus, fix *domain.Coordinates, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.at = at
	if status != domain.PermissionGranted {
		r.fix = nil
		return
	}
	if fix != nil {
		c := *fix
		r.fix = &c
	}
}

// RequestPermission returns the last reported status.
func (r *Reported) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status, nil
}

// CurrentPosition returns the last reported fix.
func (r *Reported) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fix == nil {
		return domain.Coordinates{}, ErrNoFix
	}
	return *r.fix, nil
}

// ReportedAt is when the client last reported.
func (r *Reported) ReportedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.at
}
