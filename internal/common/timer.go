// Package common provides shared timing utilities for reporting how long
// the individual stages of a morph run take.
package common

import (
	"fmt"
	"strings"
	"time"
)

// Timer measures one named stage.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer starts a timer for the given stage name.
func NewTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the stage name.
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted representation of the timer.
func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}

// StageTimes accumulates the per-stage durations of one operation, in the
// order the stages ran. The zero value is ready to use.
type StageTimes struct {
	names     []string
	durations []time.Duration
}

// Record appends a finished stage.
func (s *StageTimes) Record(name string, d time.Duration) {
	s.names = append(s.names, name)
	s.durations = append(s.durations, d)
}

// Time runs fn and records its duration under name, passing through fn's error.
func (s *StageTimes) Time(name string, fn func() error) error {
	t := NewTimer(name)
	err := fn()
	s.Record(name, t.Stop())
	return err
}

// Total returns the sum of all recorded stages.
func (s *StageTimes) Total() time.Duration {
	var total time.Duration
	for _, d := range s.durations {
		total += d
	}
	return total
}

// String lists the stages in run order, e.g. "interpolate: 1ms, warp: 240ms".
func (s *StageTimes) String() string {
	parts := make([]string, len(s.names))
	for i, name := range s.names {
		parts[i] = fmt.Sprintf("%s: %v", name, s.durations[i])
	}
	return strings.Join(parts, ", ")
}
