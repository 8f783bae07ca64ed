// Package progress reports pipeline phase transitions to stderr with an
// elapsed-time prefix, the way a long-running batch tool would, tagging
// each line with the pipeline phase (parse/partition/group/ssa-build/
// const-prop/licm/recover) it was logged from.
package progress

import (
	"fmt"
	"os"
	"time"
)

// Progress reports pipeline progress to stderr with elapsed time and the
// currently active phase name.
type Progress struct {
	start      time.Time
	phaseStart time.Time
	phase      string
	verbose    bool
}

// New creates a progress reporter.
func New(verbose bool) *Progress {
	now := time.Now()
	return &Progress{start: now, phaseStart: now, verbose: verbose}
}

// Phase switches to a new named pipeline phase, first logging how long
// the previous phase (if any) took, then the new phase's start.
func (p *Progress) Phase(name string) {
	if p.verbose && p.phase != "" {
		p.log(fmt.Sprintf("%s done (%s)", p.phase, time.Since(p.phaseStart).Round(time.Millisecond)))
	}
	p.phase = name
	p.phaseStart = time.Now()
	p.Verbose("%s", name)
}

// Verbose prints a message tagged with the current phase, only when
// verbose mode is enabled.
func (p *Progress) Verbose(format string, args ...any) {
	if !p.verbose {
		return
	}
	p.log(fmt.Sprintf(format, args...))
}

func (p *Progress) log(msg string) {
	elapsed := time.Since(p.start)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	if p.phase == "" {
		fmt.Fprintf(os.Stderr, "[%02d:%02d] %s\n", mins, secs, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "[%02d:%02d] %s: %s\n", mins, secs, p.phase, msg)
}
