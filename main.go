package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Exit codes
const (
	Success = iota
	SetupFailed
	ConfigError
	CmdLineOptionError
	MetricsFailure
	Interrupted
)

// newStore returns the ContentStore selected by cfg.Store.
func newStore(ctx context.Context, cfg *Config) (ContentStore, error) {
	if cfg.Store == storeS3 {
		return newS3Store(ctx, cfg)
	}
	return newGitHubStore(cfg, nil)
}

// run performs one upload pass and prints the report. Per-file failures never make it fail; the
// summary is printed whatever happened to the individual files.
func run(ctx context.Context, cfg *Config, stdout, stderr io.Writer) error {
	log := newLogger(logConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}, stderr)
	defer func() { _ = log.Sync() }()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return &exitError{code: SetupFailed, err: err}
	}

	var ignore *ignoreMatcher
	if cfg.UseGitignore {
		if ignore, err = loadIgnoreMatcher(cfg.Source); err != nil {
			return &exitError{code: SetupFailed, err: err}
		}
	}

	rep := newReporter(stdout, cfg)
	u := &bulkUploader{
		cfg:      cfg,
		store:    store,
		policy:   newPolicy(cfg.Mode, cfg.EssentialDirs, cfg.SkipPatterns),
		ignore:   ignore,
		reporter: rep,
		metrics:  newRunMetrics(),
		log:      log,
	}

	target := cfg.Owner + "/" + cfg.Repo + "@" + cfg.Branch
	if cfg.Store == storeS3 {
		target = "s3://" + cfg.Bucket
	}
	log.Info("starting upload",
		zap.String("mode", string(cfg.Mode)),
		zap.String("source", cfg.Source),
		zap.String("target", target),
		zap.Int("max_uploads", cfg.MaxUploads),
		zap.Bool("dry_run", cfg.DryRun))

	summary, runErr := u.run(ctx)
	rep.summary(summary)
	log.Info("upload finished",
		zap.Int("succeeded", summary.Succeeded.len()),
		zap.Int("failed", summary.Failed.len()),
		zap.Bool("capped", summary.Capped))

	if cfg.MetricsFile != "" {
		if err := u.metrics.writeTextfile(cfg.MetricsFile); err != nil {
			return &exitError{code: MetricsFailure, err: fmt.Errorf("failed to write metrics: %w", err)}
		}
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, context.Canceled):
		return &exitError{code: Interrupted, err: runErr}
	default:
		return &exitError{code: SetupFailed, err: runErr}
	}
}

// execute runs the root command with args and returns the process exit code.
func execute(ctx context.Context, args []string, lookup lookupFunc, stdout, stderr io.Writer) int {
	cmd := newRootCmd(lookup, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return Success
	}

	var ee *exitError
	if !errors.As(err, &ee) {
		ee = &exitError{code: CmdLineOptionError, err: err}
	}
	fmt.Fprintf(stderr, "Error: %v\n", ee.err)
	if ee.code == CmdLineOptionError {
		fmt.Fprintf(stderr, "\n%s", cmd.UsageString())
	}
	return ee.code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
