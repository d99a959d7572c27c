package crypto

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvEncryptionKey is the environment variable for the encryption key
	EnvEncryptionKey = "TOKEN_ENCRYPTION_KEY"

	// DefaultKeyFileName is the key file created next to the profile database
	DefaultKeyFileName = ".mylib-token-key"
)

// ResolveKey picks the profile encryption key.
// Priority: explicit key > environment > key file > newly generated key (saved to the key file).
func ResolveKey(explicit, keyFilePath string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if envKey := os.Getenv(EnvEncryptionKey); envKey != "" {
		return envKey, nil
	}

	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, DefaultKeyFileName)
	}

	if data, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	newKey, err := GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(keyFilePath), 0700); err != nil {
		return "", fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newKey), 0600); err != nil {
		return "", fmt.Errorf("failed to save encryption key to %s: %w", keyFilePath, err)
	}

	log.Printf("Generated new token encryption key at %s", keyFilePath)
	return newKey, nil
}
