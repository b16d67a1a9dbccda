package config

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "conceptcard.toml"

const (
	defaultListen      = ":8080"
	defaultHistorySize = 5
	defaultKeyPrefix   = "conceptcard:"
	defaultLogLevel    = "info"
	defaultLogFormat   = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Mode:   ModeDirect,
		Server: Server{Listen: defaultListen},
		History: History{
			Size:      defaultHistorySize,
			KeyPrefix: defaultKeyPrefix,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

const sampleConfig = `# conceptcard configuration.
# Environment variables override every value in this file.

# "direct" calls providers with the keys below.
# "proxy" sends requests to [proxy].base_url instead.
mode = "direct"

# Preferred provider: gemini, openai, deepseek or glm45. Empty uses the
# default priority order.
provider = ""

[server]
listen = ":8080"

[proxy]
base_url = ""

[history]
# Leave empty to keep recent concepts in memory.
redis_url = ""
key_prefix = "conceptcard:"
size = 5
ttl_seconds = 0

[logging]
level = "info"
# auto, text or json. auto picks text on a terminal.
format = "auto"

# requests_per_minute paces calls to a provider; 0 leaves them unpaced.
[providers.gemini]
api_key = ""
base_url = ""
model = ""
requests_per_minute = 0

[providers.openai]
api_key = ""
base_url = ""
model = ""
requests_per_minute = 0

[providers.deepseek]
api_key = ""
base_url = ""
model = ""
requests_per_minute = 0

[providers.glm45]
api_key = ""
base_url = ""
model = ""
requests_per_minute = 0
`
