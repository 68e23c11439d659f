package main

import (
	"fmt"
	"io"
)

// failedPreview is how many failed paths the summary lists.
const failedPreview = 10

// reporter prints the console report: one line per file, then a summary.
// quiet drops the per-file lines; verbose adds response bodies to failures in every mode.
type reporter struct {
	w       io.Writer
	mode    Mode
	quiet   bool
	verbose bool
	dryRun  bool
}

func newReporter(w io.Writer, cfg *Config) *reporter {
	return &reporter{w: w, mode: cfg.Mode, quiet: cfg.Quiet, verbose: cfg.Verbose, dryRun: cfg.DryRun}
}

func (r *reporter) say(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *reporter) fileResult(res Result) {
	if r.quiet {
		return
	}
	switch {
	case res.OK() && r.dryRun:
		r.say("✅ Pretending to upload %s", res.Path)
	case res.OK():
		r.say("✅ %s", res.Path)
	default:
		r.say("❌ %s: %s", res.Path, res.Reason(r.verbose || r.mode == ModeFull))
	}
}

func (r *reporter) summary(s *Summary) {
	r.say("")
	if s.Mode == ModeEssentials {
		r.say("📊 Uploaded %d essential files", s.Succeeded.len())
		if s.Failed.len() > 0 {
			r.say("❌ Failed uploads: %d files", s.Failed.len())
		}
	} else {
		r.say("📊 Upload Summary:")
		r.say("✅ Successfully uploaded: %d files", s.Succeeded.len())
		r.say("❌ Failed uploads: %d files", s.Failed.len())
	}
	if s.Capped {
		r.say("Stopped after reaching the upload cap.")
	}

	if s.Failed.len() == 0 {
		return
	}
	r.say("")
	r.say("Failed files:")
	for _, p := range s.Failed.head(failedPreview) {
		r.say("  - %s", p)
	}
}
