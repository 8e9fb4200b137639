// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/itassets/identity-sync/internal/reconcile"
)

// EnvConfigJSON names the env variable holding a JSON document merged over the TOML file.
const EnvConfigJSON = "IDENTITY_SYNC_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(filepath.Join(path, "main.toml"), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config override from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks struct tags and fills in defaults for settings left empty.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if c.Webserver.Enabled && c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Sync.EmailDomain == "" {
		return errors.Wrap(ErrEmailDomainEmpty, invalidErrMessage)
	}

	for _, tz := range []string{c.Sync.TimeZone, c.Schedule.TimeZone} {
		if tz == "" {
			continue
		}

		if _, err := time.LoadLocation(tz); err != nil {
			return errors.Wrapf(ErrUnknownTimeZone, "%s: %s", invalidErrMessage, tz)
		}
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	if c.Sync.Workers < 1 {
		c.Sync.Workers = 1
	}

	if len(c.Sync.ExcludeCLevel1) == 0 {
		c.Sync.ExcludeCLevel1 = []string{"FPC"}
	}

	if len(c.Sync.Licences) == 0 {
		c.Sync.Licences = reconcile.DefaultLicences()
	}

	return nil
}
