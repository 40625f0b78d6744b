// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CLINICOPS_DB_HOST.
	EnvPrefix = "CLINICOPS"
	// EnvConfigJSON holds a JSON document merged over the file config.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	fileName = "main.toml"
)

// ReadConfig reads main.toml from the directory path, applies environment
// overrides and validates the result.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, fileName))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if raw := os.Getenv(EnvConfigJSON); raw != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, raw); err != nil {
			return c, err
		}
	}

	return c, validate(c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "clinicops.db")

	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.sqlLevel", "debug")
	v.SetDefault("log.appName", "clinicops")
	v.SetDefault("log.serviceName", "clinicops")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.console.format", "auto")

	v.SetDefault("rbac.omnipotentRole", "super_admin")
	v.SetDefault("rbac.audit", true)
	v.SetDefault("rbac.actor", "system")
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the application can not start without.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrEmptyDBPath, invalidErrMessage)
		}
	case DriverMySQL, DriverPostgres:
		if c.DB.Host == "" {
			return errors.Wrap(ErrEmptyDBHost, invalidErrMessage)
		}

		if c.DB.Name == "" {
			return errors.Wrap(ErrEmptyDBName, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownDriver, "%s: %q", invalidErrMessage, c.DB.Driver)
	}

	if c.RBAC.OmnipotentRole == "" {
		return errors.Wrap(ErrEmptyOmnipotentRole, invalidErrMessage)
	}

	for _, r := range c.RBAC.SeedRoles {
		if r.Name == "" {
			return errors.Wrap(ErrEmptySeedRoleName, invalidErrMessage)
		}
	}

	return nil
}
