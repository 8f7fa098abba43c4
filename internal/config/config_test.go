package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConf = `# comment
http.version=HTTP/1.1
server.name=filevault
server.host=0.0.0.0
server.port=8080
file.directory=data/files
metadata.file=data/metadata.json
templates.file=configs/templates.json
metadata.idKey=currentId
metadata.dataKey=data
log.level=debug
`

func TestLoadValid(t *testing.T) {
	path := writeConf(t, validConf)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1", loaded.Settings.HTTPVersion)
	assert.Equal(t, "filevault", loaded.Settings.ServerName)
	assert.Equal(t, "8080", loaded.Settings.Port)
	assert.Equal(t, "debug", loaded.LogLevel)
}

func TestLoadDefaultsLogLevel(t *testing.T) {
	body := `http.version=HTTP/1.1
server.name=filevault
server.host=0.0.0.0
server.port=8080
file.directory=data/files
metadata.file=data/metadata.json
templates.file=configs/templates.json
metadata.idKey=currentId
metadata.dataKey=data
`
	loaded, err := Load(writeConf(t, body))
	require.NoError(t, err)
	assert.Equal(t, "info", loaded.LogLevel)
}

func TestLoadMissingRequiredKey(t *testing.T) {
	body := `http.version=HTTP/1.1
server.name=filevault
`
	_, err := Load(writeConf(t, body))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConf(t, validConf)
	t.Setenv("FILE_SERVER_PORT", "9090")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", loaded.Settings.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	require.Error(t, err)
}
