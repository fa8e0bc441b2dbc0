package config

const (
	defaultSessionsDir      = "./store"
	defaultOutputFile       = "./lid_data.json"
	defaultLogDir           = "~/.local/share/lidscan/logs"
	defaultLocalDB          = "./impossible.db"
	defaultLIDMinDigits     = 13
	defaultAlternateServer  = "lid"
	defaultUnknownPlatform  = "Unknown"
	defaultSSLMode          = "disable"
	defaultConnectTimeout   = 10
	defaultQueryTimeout     = 5
	defaultScannerWorkers   = 4
	defaultCredentialsFile  = "creds.json"
	defaultRunTimeout       = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SessionsDir: defaultSessionsDir,
			OutputFile:  defaultOutputFile,
			LogDir:      defaultLogDir,
			LocalDB:     defaultLocalDB,
		},
		Resolver: Resolver{
			LIDMinDigits:    defaultLIDMinDigits,
			AlternateServer: defaultAlternateServer,
			UnknownPlatform: defaultUnknownPlatform,
		},
		Store: Store{
			SSLMode:               defaultSSLMode,
			ConnectTimeoutSeconds: defaultConnectTimeout,
			QueryTimeoutSeconds:   defaultQueryTimeout,
		},
		Scanner: Scanner{
			Workers:         defaultScannerWorkers,
			CredentialsFile: defaultCredentialsFile,
		},
		Run: Run{
			TimeoutSeconds: defaultRunTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
