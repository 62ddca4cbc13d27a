package orchestrator

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"gopkg.in/yaml.v3"
)

const (
	defaultCreatorProgram  string  = "creator"
	defaultReporterProgram string  = "reporter"
	defaultMaxAttempts     int     = 3
	defaultMaxRecords      int     = 10000
	defaultMaxRate         float64 = 10000
)

// Config models the optional orchestrator yaml file, e.g.:
//
//	creator_path: /usr/local/bin/creator
//	reporter_path: /usr/local/bin/reporter
//	max_attempts: 3
//	max_records: 10000
//	max_rate: 10000
type Config struct {
	CreatorPath  string  `yaml:"creator_path"`
	ReporterPath string  `yaml:"reporter_path"`
	MaxAttempts  int     `yaml:"max_attempts"`
	MaxRecords   int     `yaml:"max_records"`
	MaxRate      float64 `yaml:"max_rate"`
}

func DefaultConfig() Config {
	return Config{
		CreatorPath:  defaultProgram(defaultCreatorProgram),
		ReporterPath: defaultProgram(defaultReporterProgram),
		MaxAttempts:  defaultMaxAttempts,
		MaxRecords:   defaultMaxRecords,
		MaxRate:      defaultMaxRate,
	}
}

// defaultProgram prefers an executable sitting next to the running binary
// and otherwise leaves the bare name to be found on $PATH.
func defaultProgram(name string) string {
	executable, err := os.Executable()
	if err != nil {
		return name
	}
	path := filepath.Join(filepath.Dir(executable), name)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return name
}

// LoadConfig reads the yaml file at path over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, data.Wrapf(data.ErrIO, err, "cannot read config file: %s", path)
	}
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, data.Wrapf(data.ErrUsage, err, "cannot parse config file: %s", path)
	}
	return config, nil
}

func (c *Config) fromEnvs(envs map[string]string) error {
	if creatorPath := envs["ORCHESTRATOR_CREATOR_PATH"]; creatorPath != "" {
		c.CreatorPath = creatorPath
	}
	if reporterPath := envs["ORCHESTRATOR_REPORTER_PATH"]; reporterPath != "" {
		c.ReporterPath = reporterPath
	}
	if s := envs["ORCHESTRATOR_MAX_ATTEMPTS"]; s != "" {
		i, err := strconv.Atoi(s)
		if err != nil {
			return data.Wrapf(data.ErrUsage, err, "invalid ORCHESTRATOR_MAX_ATTEMPTS")
		}
		c.MaxAttempts = i
	}
	if s := envs["ORCHESTRATOR_MAX_RECORDS"]; s != "" {
		i, err := strconv.Atoi(s)
		if err != nil {
			return data.Wrapf(data.ErrUsage, err, "invalid ORCHESTRATOR_MAX_RECORDS")
		}
		c.MaxRecords = i
	}
	if s := envs["ORCHESTRATOR_MAX_RATE"]; s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return data.Wrapf(data.ErrUsage, err, "invalid ORCHESTRATOR_MAX_RATE")
		}
		c.MaxRate = f
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.CreatorPath == "", c.ReporterPath == "":
		return data.Errorf(data.ErrUsage, "creator and reporter paths are required")
	case c.MaxAttempts <= 0:
		return data.Errorf(data.ErrUsage, "max attempts must be positive")
	case c.MaxRecords <= 0:
		return data.Errorf(data.ErrUsage, "max records must be positive")
	case !(c.MaxRate > 0):
		return data.Errorf(data.ErrUsage, "max rate must be positive")
	}
	return nil
}
