// Package ratelimit implements the fixed-window request counter that guards
// the AI-backed endpoints.
//
// A window opens on the first request for an (identifier, action) pair and
// lasts for the configured duration. Requests inside the window are counted
// and rejected once the count reaches the maximum. The first request after
// the window expires starts a new window with a count of 1.
package ratelimit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Record is the per-key counter state.
type Record struct {
	Count     int       `json:"count"`
	ResetTime time.Time `json:"reset_time"`
}

// Result is the outcome of a check. ResetTime is the end of the current window.
type Result struct {
	Success   bool      `json:"success"`
	ResetTime time.Time `json:"resetTime"`
}

// Store applies one hit for key and reports whether it is allowed.
// Implementations must make the read-modify-write atomic for their topology.
type Store interface {
	Hit(ctx context.Context, key string, maxRequests int, window time.Duration, now time.Time) (Result, error)
}

// decide is the window transition shared by the stores.
func decide(rec Record, exists bool, now time.Time, maxRequests int, window time.Duration) (Record, bool) {
	if !exists || now.After(rec.ResetTime) {
		return Record{Count: 1, ResetTime: now.Add(window)}, true
	}
	if rec.Count >= maxRequests {
		return rec, false
	}
	rec.Count++
	return rec, true
}

// Key builds the store key for an identifier and action.
func Key(identifier, action string) string {
	return identifier + "_" + action
}

type Limiter struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func New(store Store, log logrus.FieldLogger) *Limiter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Limiter{store: store, log: log, now: time.Now}
}

// Check records a request for (identifier, key). It never fails: when the
// store is unavailable the request is allowed and the error is logged.
func (l *Limiter) Check(ctx context.Context, key, identifier string, maxRequests int, window time.Duration) Result {
	now := l.now()
	res, err := l.store.Hit(ctx, Key(identifier, key), maxRequests, window, now)
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"action":     key,
			"identifier": identifier,
		}).Warn("rate limit store unavailable, allowing request")
		return Result{Success: true, ResetTime: now.Add(window)}
	}
	return res
}
