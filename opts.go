package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type options struct {
	Mode       string   `json:"mode,omitempty"`
	Source     string   `json:"source,omitempty"`
	Owner      string   `json:"owner,omitempty"`
	Repo       string   `json:"repo,omitempty"`
	Branch     string   `json:"branch,omitempty"`
	APIURL     string   `json:"api-url,omitempty"`
	Store      string   `json:"store,omitempty"`
	BucketName string   `json:"bucket,omitempty"`
	Region     string   `json:"region,omitempty"`
	Profile    string   `json:"profile,omitempty"`
	S3Endpoint string   `json:"s3-endpoint,omitempty"`
	Include    []string `json:"include,omitempty"`
	Skip       []string `json:"skip,omitempty"`
	TokenEnv   string   `json:"token-env,omitempty"`
	EnvFile    string   `json:"env-file,omitempty"`
	LogLevel   string   `json:"log-level,omitempty"`
	LogFormat  string   `json:"log-format,omitempty"`
	Metrics    string   `json:"metrics-file,omitempty"`
	cfgFile    string

	// -1 means the mode's default cap, 0 means unlimited.
	MaxUploads int  `json:"max-uploads"`
	Gitignore  bool `json:"gitignore,omitempty"`
	Update     bool `json:"update,omitempty"`

	dryRun, verbose, quiet, saveCfg bool
}

// optionsFromViper reads every option from v, which already layers flags over environment over
// the config file over defaults.
func optionsFromViper(v *viper.Viper) *options {
	return &options{
		Mode:       v.GetString("mode"),
		Source:     v.GetString("source"),
		Owner:      v.GetString("owner"),
		Repo:       v.GetString("repo"),
		Branch:     v.GetString("branch"),
		APIURL:     v.GetString("api-url"),
		Store:      v.GetString("store"),
		BucketName: v.GetString("bucket"),
		Region:     v.GetString("region"),
		Profile:    v.GetString("profile"),
		S3Endpoint: v.GetString("s3-endpoint"),
		Include:    splitList(v.GetStringSlice("include")),
		Skip:       splitList(v.GetStringSlice("skip")),
		TokenEnv:   v.GetString("token-env"),
		EnvFile:    v.GetString("env-file"),
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
		Metrics:    v.GetString("metrics-file"),
		cfgFile:    v.GetString("cfgfile"),
		MaxUploads: v.GetInt("max-uploads"),
		Gitignore:  v.GetBool("gitignore"),
		Update:     v.GetBool("update"),
		dryRun:     v.GetBool("dry"),
		verbose:    v.GetBool("verbose"),
		quiet:      v.GetBool("quiet"),
		saveCfg:    v.GetBool("save"),
	}
}

// splitList splits every item on commas. Flags arrive split already, but viper only splits
// GHUP_* environment values on whitespace.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// dump saves the options to fname. Unexported fields (one-off switches) and the token, which
// never lives in options, are not written.
func (o *options) dump(fname string) (err error) {
	f, err := os.Create(fname) // #nosec G304 - file path from user config is expected
	if err != nil {
		return err
	}
	defer func() {
		err2 := f.Close()
		if err == nil {
			err = err2
		} else if err2 != nil {
			err = fmt.Errorf("%w; %w", err, err2)
		}
	}()

	buf, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, "\n"[0])

	_, err = f.Write(buf)

	return err
}
