package utils

import "os"

// GetEnvVariable returns the value of key, or defaultValue when unset or empty.
func GetEnvVariable(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
