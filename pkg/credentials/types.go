package credentials

// Credentials represents the stored API credentials in credentials.toml.
type Credentials struct {
	Version  int                          `toml:"version"`
	Profiles map[string]ProfileCredential `toml:"profiles"`
}

// ProfileCredential holds the API key for a single profile.
type ProfileCredential struct {
	APIKey string `toml:"api_key"`
}
