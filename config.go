package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	storeGitHub = "github"
	storeS3     = "s3"
)

const defaultTokenEnv = "GITHUB_TOKEN"

var (
	// ErrMissingToken means the token variable is set neither in the environment nor in the env file.
	ErrMissingToken = errors.New("authentication token is not set")
	// ErrMissingRepository means owner or repo could not be configured or detected.
	ErrMissingRepository = errors.New("target repository is not set")
	// ErrMissingBucket means --store s3 was requested without a bucket.
	ErrMissingBucket = errors.New("bucket name is not set")
)

// lookupFunc has the signature of os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// Config is the explicit, immutable configuration of one run. It is built once by newConfig and
// handed to everything that needs it.
type Config struct {
	Mode   Mode
	Source string

	Store      string
	Owner      string
	Repo       string
	Branch     string
	APIURL     string
	Token      string
	Bucket     string
	Region     string
	Profile    string
	S3Endpoint string

	// MaxUploads stops the run after that many successful uploads; 0 means no cap.
	MaxUploads    int
	EssentialDirs []string
	SkipPatterns  []string
	UseGitignore  bool
	Update        bool
	DryRun        bool

	Quiet       bool
	Verbose     bool
	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// newConfig validates o and resolves everything a run needs. Owner, repo and branch fall back to
// the git checkout around the source folder. Configuration errors wrap the Err* sentinels.
func newConfig(o *options, lookup lookupFunc) (*Config, error) {
	mode, err := parseMode(o.Mode)
	if err != nil {
		return nil, err
	}
	if err := validateCmdLineFlags(o); err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:          mode,
		Source:        o.Source,
		Store:         strings.ToLower(o.Store),
		Owner:         o.Owner,
		Repo:          o.Repo,
		Branch:        o.Branch,
		APIURL:        o.APIURL,
		Bucket:        o.BucketName,
		Region:        o.Region,
		Profile:       o.Profile,
		S3Endpoint:    o.S3Endpoint,
		MaxUploads:    o.MaxUploads,
		EssentialDirs: o.Include,
		SkipPatterns:  o.Skip,
		UseGitignore:  o.Gitignore,
		Update:        o.Update,
		DryRun:        o.dryRun,
		Quiet:         o.quiet,
		Verbose:       o.verbose,
		LogLevel:      o.LogLevel,
		LogFormat:     o.LogFormat,
		MetricsFile:   o.Metrics,
	}
	if cfg.Store == "" {
		cfg.Store = storeGitHub
	}
	if cfg.MaxUploads < 0 {
		cfg.MaxUploads = mode.defaultCap()
	}

	if cfg.Store == storeS3 {
		if cfg.Bucket == "" {
			return nil, ErrMissingBucket
		}
		return cfg, nil
	}

	token, err := lookupToken(o.TokenEnv, resolveEnvFile(o.EnvFile, cfg.Source), lookup)
	if err != nil {
		return nil, err
	}
	cfg.Token = token

	if cfg.Owner == "" || cfg.Repo == "" || cfg.Branch == "" {
		// Best effort: whatever detectRemote found before failing is still usable.
		info, _ := detectRemote(cfg.Source)
		if cfg.Owner == "" && cfg.Repo == "" {
			cfg.Owner, cfg.Repo = info.Owner, info.Repo
		}
		if cfg.Branch == "" {
			cfg.Branch = info.Branch
		}
	}
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: use --owner and --repo or run inside a checkout with an origin remote", ErrMissingRepository)
	}

	return cfg, nil
}

// resolveEnvFile makes a relative env file path relative to the source folder.
func resolveEnvFile(envFile, source string) string {
	if envFile == "" || filepath.IsAbs(envFile) {
		return envFile
	}
	return filepath.Join(source, envFile)
}

// lookupToken reads the token variable from the environment first and from envFile second.
// A missing envFile is not an error.
func lookupToken(name, envFile string, lookup lookupFunc) (string, error) {
	if name == "" {
		name = defaultTokenEnv
	}
	if v, ok := lookup(name); ok && v != "" {
		return v, nil
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !isNotExist(err) {
			return "", fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		if v := vars[name]; v != "" {
			return v, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrMissingToken, name)
}

// validateCmdLineFlags validates some of the flags, mostly paths. Defers actual validation to validateCmdLineFlag()
func validateCmdLineFlags(opts *options) error {
	flags := map[string]string{
		"Source": opts.Source,
		"Store":  opts.Store,
	}
	for label, val := range flags {
		if err := validateCmdLineFlag(label, val); err != nil {
			return err
		}
	}
	return nil
}

// validateCmdLineFlag handles the actual validation of flags.
func validateCmdLineFlag(label, val string) error {
	switch label {
	case "Store":
		switch strings.ToLower(val) {
		case "", storeGitHub, storeS3:
		default:
			return fmt.Errorf("%s must be %s or %s, got %q", label, storeGitHub, storeS3, val)
		}
	case "Source":
		if val == "" {
			return fmt.Errorf("%s is not set", label)
		}
		info, err := os.Stat(val)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s %s is not a directory", label, val)
		}
	}
	return nil
}

// isConfigError tells configuration problems (exit ConfigError) from bad flags.
func isConfigError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMissingRepository) ||
		errors.Is(err, ErrMissingBucket)
}
