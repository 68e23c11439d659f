package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "GHUP"
	defaultConfigFile = ".go-github-uploader.json"
)

// exitError carries the process exit code out of the command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// newRootCmd wires flags, the config file and the environment into a Config and hands it to run.
func newRootCmd(lookup lookupFunc, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go-github-uploader [SOURCE]",
		Short: "Upload a directory tree to a GitHub repository through the Contents API",
		Long: `go-github-uploader walks SOURCE (default: the current directory) and creates every
eligible file in the target repository with one Contents API request per file.

The token is read from $GITHUB_TOKEN (see --token-env), falling back to the --env-file.
Options can be saved to and loaded from a JSON config file; GHUP_* environment
variables override the file and flags override both.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := loadViper(v, cmd); err != nil {
				return &exitError{code: SetupFailed, err: err}
			}
			if len(args) == 1 {
				v.Set("source", args[0])
			}

			o := optionsFromViper(v)
			if o.saveCfg {
				if err := o.dump(o.cfgFile); err != nil {
					return &exitError{code: SetupFailed, err: err}
				}
			}

			cfg, err := newConfig(o, lookup)
			if err != nil {
				if isConfigError(err) {
					return &exitError{code: ConfigError, err: err}
				}
				return &exitError{code: CmdLineOptionError, err: err}
			}

			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(GetVersion() + "\n")

	processCmdLineFlags(cmd)
	return cmd
}

// processCmdLineFlags wraps the command line flags definition.
func processCmdLineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("mode", string(ModeEssentials), "Upload mode: essentials (allow-listed dirs, capped) or full (everything not skipped)")
	f.String("source", ".", "Source folder for files to be uploaded")
	f.String("owner", "", "Repository owner (default: from the origin remote)")
	f.String("repo", "", "Repository name (default: from the origin remote)")
	f.String("branch", "", "Target branch (default: current branch, or "+defaultBranch+")")
	f.String("api-url", defaultAPIURL, "GitHub API base URL")
	f.String("store", storeGitHub, "Remote store: github or s3")
	f.String("bucket", "", "Bucket to upload files to (s3 store)")
	f.String("region", "", "AWS region (s3 store)")
	f.String("profile", "", "AWS shared profile (s3 store)")
	f.String("s3-endpoint", "", "Custom S3 endpoint, e.g. LocalStack (s3 store)")
	f.Int("max-uploads", -1, "Stop after this many successful uploads (-1: 100 in essentials mode, unlimited in full mode; 0: unlimited)")
	f.StringSlice("include", nil, "Essential directories, comma separated (essentials mode, default: src,components,server,shared,archive,api,utils,system)")
	f.StringSlice("skip", nil, "Extra substrings that exclude a path, comma separated (full mode)")
	f.Bool("gitignore", false, "Also skip files matched by the source folder's .gitignore")
	f.Bool("update", false, "Fetch the current blob SHA first so existing files are overwritten")
	f.String("token-env", defaultTokenEnv, "Environment variable holding the GitHub token")
	f.String("env-file", ".env", "Env file consulted when the token variable is not set; relative paths are resolved against the source folder")
	f.String("log-level", "warn", "Diagnostic log level: debug, info, warn, error")
	f.String("log-format", "console", "Diagnostic log format: console or json")
	f.String("metrics-file", "", "Write run metrics to this file in Prometheus text format")
	f.String("cfgfile", defaultConfigFile, "Config file location")
	f.Bool("dry", false, "Dry run (do not upload)")
	f.Bool("verbose", false, "Include response bodies in failure lines")
	f.Bool("quiet", false, "Print only the summary")
	f.Bool("save", false, "Saves the current commandline options to a config file")
}

// loadViper layers defaults < config file < GHUP_* environment < flags.
func loadViper(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfgFile, err := cmd.Flags().GetString("cfgfile")
	if err != nil {
		return err
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
	return nil
}
