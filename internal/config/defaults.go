package config

const (
	defaultConfigPath  = "~/.config/skymaya/config.toml"
	projectConfigName  = "skymaya.toml"
	defaultLogDir      = "~/.local/share/skymaya/logs"
	defaultHistoryDB   = "~/.local/share/skymaya/history.db"
	defaultCkcmdBinary = "ck-cmd"
	defaultLogFileName = "test.log"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultRetention   = 30

	// CkcmdEnv names the environment variable that overrides converter.binary.
	CkcmdEnv = "SKYMAYA_CKCMD"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Converter: Converter{
			Binary: defaultCkcmdBinary,
		},
		Conversion: Conversion{
			DLCs: defaultDLCs(),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetention,
		},
	}
}

// defaultDLCs is the vanilla group followed by the two DLC groups.
func defaultDLCs() []int {
	return []int{0, 1, 2}
}
