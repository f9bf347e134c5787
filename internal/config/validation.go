package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Validate checks the complete configuration structure.
func Validate(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateStorage(); err != nil {
		return err
	}
	if err := cv.validateIntervals(); err != nil {
		return err
	}
	return cv.validateServer()
}

func (cv *configurationValidator) validateStorage() error {
	if strings.TrimSpace(cv.config.Storage.Dir) == "" {
		return errors.New("storage.dir must not be empty")
	}
	for name, file := range map[string]string{
		"storage.session_file": cv.config.Storage.SessionFile,
		"storage.journal_file": cv.config.Storage.JournalFile,
	} {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if strings.ContainsAny(file, `/\`) {
			return fmt.Errorf("%s must be a bare file name, got %q", name, file)
		}
	}
	if cv.config.Storage.SessionFile == cv.config.Storage.JournalFile {
		return fmt.Errorf("session and journal must not share a file: %q", cv.config.Storage.SessionFile)
	}
	return nil
}

// validateIntervals validates the tick and autosave durations and their
// relationship.
func (cv *configurationValidator) validateIntervals() error {
	tick, err := time.ParseDuration(cv.config.Tick.Interval)
	if err != nil {
		return fmt.Errorf("invalid tick.interval: %s: %w", cv.config.Tick.Interval, err)
	}
	if tick < time.Millisecond || tick > time.Second {
		return fmt.Errorf("tick.interval (%s) must be between 1ms and 1s", cv.config.Tick.Interval)
	}

	autosave, err := time.ParseDuration(cv.config.Autosave.Interval)
	if err != nil {
		return fmt.Errorf("invalid autosave.interval: %s: %w", cv.config.Autosave.Interval, err)
	}
	if autosave < time.Second {
		return fmt.Errorf("autosave.interval (%s) must be at least 1s", cv.config.Autosave.Interval)
	}

	if autosave < tick {
		return fmt.Errorf("autosave.interval (%s) must be >= tick.interval (%s)",
			cv.config.Autosave.Interval, cv.config.Tick.Interval)
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	if !cv.config.ServerEnabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(cv.config.Server.Addr); err != nil {
		return fmt.Errorf("invalid server.addr %q: %w", cv.config.Server.Addr, err)
	}
	return nil
}
