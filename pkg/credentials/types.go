package credentials

import "time"

// Credentials is the content of credentials.toml.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is the stored key of one provider.
type ProviderCredential struct {
	APIKey    string    `toml:"api_key"`
	UpdatedAt time.Time `toml:"updated_at,omitzero"`
}

// Provider describes a service ragsql can hold a key for.
type Provider struct {
	Name string

	// EnvVar is read when no key is stored.
	EnvVar string

	// Used lists the config sections that consume the key.
	Used []string
}

var providers = []Provider{
	{Name: "openai", EnvVar: "OPENAI_API_KEY", Used: []string{"llm", "embedding"}},
	{Name: "anthropic", EnvVar: "ANTHROPIC_API_KEY", Used: []string{"llm"}},
	{Name: "qdrant", EnvVar: "QDRANT_API_KEY", Used: []string{"vector_store"}},
}
