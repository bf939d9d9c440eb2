package config

// PeopleConfig represents the configuration for people-signal processing
type PeopleConfig struct {
	Domains            []string
	DomainLabels       map[string]string
	ContractorPatterns []string
	LocationHints      []string
}

// CheckpointConfig represents the configuration for the checkpoint store
type CheckpointConfig struct {
	Type       string
	SQLitePath string
}

// GetPeople returns the people-processing configuration
func (c *Config) GetPeople() PeopleConfig {
	return PeopleConfig{
		Domains:            c.GetStringSlice("people.domains"),
		DomainLabels:       c.GetStringMapString("people.domain_labels"),
		ContractorPatterns: c.GetStringSlice("people.contractor_patterns"),
		LocationHints:      c.GetStringSlice("people.location_hints"),
	}
}

// GetCheckpoint returns the checkpoint store configuration
func (c *Config) GetCheckpoint() CheckpointConfig {
	return CheckpointConfig{
		Type:       c.GetString("checkpoint.type"),
		SQLitePath: c.GetString("checkpoint.sqlite_path"),
	}
}
