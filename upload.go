package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Outcome tags a per-file Result.
type Outcome int

const (
	_ Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of uploading one file. Code and Body are set when the remote answered;
// Err is set for local failures and transport errors.
type Result struct {
	Outcome Outcome
	Path    string
	Code    int
	Body    string
	Err     error
	Bytes   int
}

func (r Result) OK() bool { return r.Outcome == Succeeded }

// Reason is the human readable cause of a failure, empty on success.
func (r Result) Reason(withBody bool) string {
	switch {
	case r.OK():
		return ""
	case r.Code != 0 && withBody && r.Body != "":
		return fmt.Sprintf("%d - %s", r.Code, r.Body)
	case r.Code != 0:
		return fmt.Sprintf("%d", r.Code)
	case r.Err != nil:
		return r.Err.Error()
	default:
		return "unknown error"
	}
}

func commitMessage(repoPath string) string {
	return "Add " + repoPath
}

// uploadFile reads c fully into memory and writes it to store. Every failure, local or remote,
// comes back as a Failed result; nothing here aborts the run.
func uploadFile(ctx context.Context, store ContentStore, c Candidate) Result {
	content, err := os.ReadFile(c.LocalPath)
	if err != nil {
		return Result{Outcome: Failed, Path: c.RepoPath, Err: err}
	}

	out, err := store.Put(ctx, &PutInput{
		Path:    c.RepoPath,
		Content: content,
		Message: commitMessage(c.RepoPath),
	})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return Result{Outcome: Failed, Path: c.RepoPath, Code: se.Code, Body: se.Body, Err: err}
		}
		return Result{Outcome: Failed, Path: c.RepoPath, Err: err}
	}
	if !isSuccessStatus(out.StatusCode) {
		return Result{Outcome: Failed, Path: c.RepoPath, Code: out.StatusCode}
	}

	return Result{Outcome: Succeeded, Path: c.RepoPath, Code: out.StatusCode, Bytes: len(content)}
}

// Summary is what a run reports at the end.
type Summary struct {
	Mode      Mode
	Succeeded pathList
	Failed    pathList
	// Capped is set when the run stopped because MaxUploads successes were reached.
	Capped bool
}

func (s *Summary) record(res Result) {
	if res.OK() {
		s.Succeeded.add(res.Path)
	} else {
		s.Failed.add(res.Path)
	}
}

// bulkUploader runs one sequential pass over the source tree.
type bulkUploader struct {
	cfg      *Config
	store    ContentStore
	policy   Policy
	ignore   *ignoreMatcher
	reporter *reporter
	metrics  *runMetrics
	log      *zap.Logger
}

// run walks the tree, uploads every eligible file and stops early once cfg.MaxUploads files were
// uploaded. The returned error is only set when the walk could not start or ctx was cancelled;
// the summary is valid either way.
func (u *bulkUploader) run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Mode: u.cfg.Mode}

	for c, err := range discover(u.cfg.Source) {
		if err != nil {
			if c.LocalPath == u.cfg.Source {
				return summary, fmt.Errorf("cannot walk %s: %w", u.cfg.Source, err)
			}
			u.log.Warn("skipping unreadable path", zap.String("path", c.LocalPath), zap.Error(err))
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		u.metrics.discovered.Inc()
		if !u.policy.Eligible(c.RepoPath) || u.ignore.Ignored(c.RepoPath) {
			u.log.Debug("filtered", zap.String("path", c.RepoPath), zap.String("policy", u.policy.Name()))
			continue
		}

		res := u.uploadOne(ctx, c)
		summary.record(res)
		u.reporter.fileResult(res)

		if u.cfg.MaxUploads > 0 && summary.Succeeded.len() >= u.cfg.MaxUploads {
			summary.Capped = true
			u.log.Info("upload cap reached", zap.Int("cap", u.cfg.MaxUploads))
			break
		}
	}

	return summary, nil
}

func (u *bulkUploader) uploadOne(ctx context.Context, c Candidate) Result {
	if u.cfg.DryRun {
		u.log.Debug("pretending to upload", zap.String("path", c.RepoPath))
		return Result{Outcome: Succeeded, Path: c.RepoPath}
	}

	start := time.Now()
	res := uploadFile(ctx, u.store, c)
	u.metrics.observe(res, time.Since(start))

	if res.OK() {
		u.log.Debug("uploaded", zap.String("path", res.Path), zap.Int("status", res.Code), zap.Int("bytes", res.Bytes))
	} else {
		u.log.Debug("upload failed",
			zap.String("path", res.Path),
			zap.Int("status", res.Code),
			zap.String("body", res.Body),
			zap.Error(res.Err))
	}
	return res
}
