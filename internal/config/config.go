// Package config loads the frozen Settings singleton (spec.md §6: "a
// key/value file loaded once at startup"). Loading is two steps: a plain
// key=value file parse (grounded on the original implementation's
// PropertiesLoader.java — no example repo in the retrieval pack parses a
// generic key/value settings file, only environment variables via
// caarlos0/env, so this step uses the standard library, justified in
// DESIGN.md), followed by an
// environment-variable override pass using caarlos0/env/v6, the same
// struct-tag binding kTowkA-shortener/internal/config uses for its own
// Config type.
package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

// requiredKeys are the settings file keys spec.md §6 lists as required.
// LogLevel is an addition of this module's ambient logging stack, not part
// of spec.md's required set, so it is optional with a default.
const (
	keyHTTPVersion     = "http.version"
	keyServerName      = "server.name"
	keyHost            = "server.host"
	keyPort            = "server.port"
	keyFileDirectory   = "file.directory"
	keyMetadataFile    = "metadata.file"
	keyTemplatesFile   = "templates.file"
	keyMetadataIDKey   = "metadata.idKey"
	keyMetadataDataKey = "metadata.dataKey"
	keyLogLevel        = "log.level"
)

var requiredKeys = []string{
	keyHTTPVersion, keyServerName, keyHost, keyPort,
	keyFileDirectory, keyMetadataFile, keyTemplatesFile,
	keyMetadataIDKey, keyMetadataDataKey,
}

// LogLevel is carried alongside model.Settings but is not part of the
// spec-required field set, so it is returned separately rather than added
// to model.Settings.
type Loaded struct {
	Settings model.Settings
	LogLevel string
}

// Load reads path as a key=value file, validates every required key is
// present, then applies environment-variable overrides keyed by the `env`
// tags on model.Settings. A missing required key or an unreadable file is
// a ConfigError, which callers treat as fatal.
func Load(path string) (*Loaded, error) {
	raw, err := parseKeyValueFile(path)
	if err != nil {
		return nil, err
	}
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			return nil, apperr.Config("missing required setting %q in %s", k, path)
		}
	}

	settings := model.Settings{
		HTTPVersion:     raw[keyHTTPVersion],
		ServerName:      raw[keyServerName],
		Host:            raw[keyHost],
		Port:            raw[keyPort],
		FileDirectory:   raw[keyFileDirectory],
		MetadataFile:    raw[keyMetadataFile],
		TemplatesFile:   raw[keyTemplatesFile],
		MetadataIDKey:   raw[keyMetadataIDKey],
		MetadataDataKey: raw[keyMetadataDataKey],
	}

	if err := env.Parse(&settings); err != nil {
		return nil, apperr.Config("apply environment overrides: %v", err)
	}

	logLevel := raw[keyLogLevel]
	if logLevel == "" {
		logLevel = "info"
	}

	return &Loaded{Settings: settings, LogLevel: logLevel}, nil
}

func parseKeyValueFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Config("open settings file %q: %v", path, err)
	}
	defer f.Close()

	out := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, apperr.Config("malformed settings line %q in %s", line, path)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.Config("read settings file %q: %v", path, err)
	}
	return out, nil
}
