package config

const (
	// DefaultAPIURL is the Linear GraphQL endpoint.
	DefaultAPIURL = "https://api.linear.app/graphql"

	defaultProfile  = "default"
	defaultPageSize = 50
	defaultFormat   = "table"

	defaultMaxRetries     = 3
	defaultInitialDelayMS = 1000
	defaultMaxDelayMS     = 30000
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Profile: defaultProfile,
		API: APIConfig{
			URL: DefaultAPIURL,
		},
		Defaults: DefaultsConfig{
			PageSize: defaultPageSize,
		},
		Output: OutputConfig{
			Format: defaultFormat,
		},
		Retry: RetryConfig{
			MaxRetries:     defaultMaxRetries,
			InitialDelayMS: defaultInitialDelayMS,
			MaxDelayMS:     defaultMaxDelayMS,
		},
	}
}
