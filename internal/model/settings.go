package model

// Settings is the frozen configuration singleton. It is built once by
// internal/config and passed down explicitly from the listener through the
// router and handlers instead of being read from a global, per the spec's
// design note on singletons-with-global-state (§9).
type Settings struct {
	HTTPVersion string `env:"FILE_SERVER_HTTP_VERSION"`
	ServerName  string `env:"FILE_SERVER_NAME"`
	Host        string `env:"FILE_SERVER_HOST"`
	Port        string `env:"FILE_SERVER_PORT"`

	FileDirectory string `env:"FILE_SERVER_FILE_DIR"`
	MetadataFile  string `env:"FILE_SERVER_METADATA_FILE"`
	TemplatesFile string `env:"FILE_SERVER_TEMPLATES_FILE"`

	MetadataIDKey   string `env:"FILE_SERVER_METADATA_ID_KEY"`
	MetadataDataKey string `env:"FILE_SERVER_METADATA_DATA_KEY"`
}
