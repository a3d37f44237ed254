// Package diag carries non-fatal findings out of extraction and
// rendering. Sinks are passed explicitly; nothing in this module logs
// through a global.
package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sink receives diagnostics. Extraction problems are warnings and never
// abort a run; informational entries trace progress.
type Sink interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// Entry is one buffered diagnostic.
type Entry struct {
	Level   logrus.Level
	Message string
}

// Collector buffers entries in order. Parallel project analysis uses one
// Collector per project so diagnostics never interleave.
type Collector struct {
	Entries []Entry
}

func (c *Collector) Warnf(format string, args ...any) {
	c.Entries = append(c.Entries, Entry{logrus.WarnLevel, fmt.Sprintf(format, args...)})
}

func (c *Collector) Infof(format string, args ...any) {
	c.Entries = append(c.Entries, Entry{logrus.InfoLevel, fmt.Sprintf(format, args...)})
}

// Drain replays the buffered entries into another sink and clears them.
func (c *Collector) Drain(next Sink) {
	for _, e := range c.Entries {
		if e.Level == logrus.WarnLevel {
			next.Warnf("%s", e.Message)
		} else {
			next.Infof("%s", e.Message)
		}
	}
	c.Entries = nil
}

// LogrusSink forwards diagnostics to a logrus logger.
type LogrusSink struct {
	Log logrus.FieldLogger
}

func (s *LogrusSink) Warnf(format string, args ...any) {
	s.Log.Warnf(format, args...)
}

func (s *LogrusSink) Infof(format string, args ...any) {
	s.Log.Infof(format, args...)
}
