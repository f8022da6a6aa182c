package config

import (
	"fmt"
	"os"
)

// ResolveAPIKey returns the credential for a provider section. An empty or
// "env" source reads the named environment variable; "config" takes the
// api_key value from the config file as-is.
func ResolveAPIKey(source, configValue, envVar string) (string, error) {
	switch source {
	case "", "env":
		if envVar == "" {
			return "", fmt.Errorf("no environment variable name specified")
		}
		key := os.Getenv(envVar)
		if key == "" {
			return "", fmt.Errorf("environment variable %s is not set", envVar)
		}
		return key, nil
	case "config":
		if configValue == "" {
			return "", fmt.Errorf("api_key_source is 'config' but no api_key value provided")
		}
		return configValue, nil
	default:
		return "", fmt.Errorf("unknown api_key_source: %q", source)
	}
}
