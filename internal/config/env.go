package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvDataDir       = "CLASSIFIER_DATA_DIR"
	EnvDBPath        = "CLASSIFIER_DB_PATH"
	EnvExportDir     = "CLASSIFIER_EXPORT_DIR"
	EnvLogLevel      = "CLASSIFIER_LOG_LEVEL"
	EnvLogFormat     = "CLASSIFIER_LOG_FORMAT"
	EnvTicksPerStage = "CLASSIFIER_TICKS_PER_STAGE"
)

// ApplyEnv overrides c with any CLASSIFIER_* variables that are set.
func (c *Config) ApplyEnv() error {
	for env, field := range map[string]*string{
		EnvDataDir:   &c.DataDir,
		EnvDBPath:    &c.DBPath,
		EnvExportDir: &c.ExportDir,
		EnvLogLevel:  &c.LogLevel,
		EnvLogFormat: &c.LogFormat,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	if v := os.Getenv(EnvTicksPerStage); v != "" {
		ticks, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvTicksPerStage, err)
		}
		c.TicksPerStage = ticks
	}
	return nil
}
