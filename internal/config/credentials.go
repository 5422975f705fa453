package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Credentials is the resolved set of secrets the bot needs to talk to
// LINE and to the Google Sheets record store.
type Credentials struct {
	LineChannelAccessToken string
	LineChannelSecret      string
	ServiceAccountJSON     []byte
}

// MissingCredentialError reports a required credential that was not set.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("config: missing required credential %s", e.Name)
}

// MalformedCredentialError reports a credential that was present but unusable.
type MalformedCredentialError struct {
	Name string
	Err  error
}

func (e *MalformedCredentialError) Error() string {
	return fmt.Sprintf("config: malformed credential %s: %v", e.Name, e.Err)
}

func (e *MalformedCredentialError) Unwrap() error { return e.Err }

// ResolveCredentials validates the configured secrets and returns them in a
// ready-to-use form. The Google service account key may come inline via
// GOOGLE_JSON_KEY or from a file via GOOGLE_KEY_FILE; inline wins when both
// are set.
func ResolveCredentials(cfg *Config) (*Credentials, error) {
	if cfg.LineChannelAccessToken == "" {
		return nil, &MissingCredentialError{Name: "LINE_CHANNEL_ACCESS_TOKEN"}
	}
	if cfg.LineChannelSecret == "" {
		return nil, &MissingCredentialError{Name: "LINE_CHANNEL_SECRET"}
	}

	keyJSON, keyName, err := serviceAccountKey(cfg)
	if err != nil {
		return nil, err
	}

	normalized, err := normalizeServiceAccountKey(keyJSON)
	if err != nil {
		return nil, &MalformedCredentialError{Name: keyName, Err: err}
	}

	return &Credentials{
		LineChannelAccessToken: cfg.LineChannelAccessToken,
		LineChannelSecret:      cfg.LineChannelSecret,
		ServiceAccountJSON:     normalized,
	}, nil
}

func serviceAccountKey(cfg *Config) ([]byte, string, error) {
	if cfg.GoogleJSONKey != "" {
		return []byte(cfg.GoogleJSONKey), "GOOGLE_JSON_KEY", nil
	}
	if cfg.GoogleKeyFile != "" {
		data, err := os.ReadFile(cfg.GoogleKeyFile)
		if err != nil {
			return nil, "", &MalformedCredentialError{Name: "GOOGLE_KEY_FILE", Err: err}
		}
		return data, "GOOGLE_KEY_FILE", nil
	}
	return nil, "", &MissingCredentialError{Name: "GOOGLE_JSON_KEY"}
}

// normalizeServiceAccountKey parses the service account blob and rewrites an
// escaped private_key field with real newlines. Keys pasted into single-line
// environment variables usually arrive with literal "\n" sequences, which
// the PEM decoder rejects.
func normalizeServiceAccountKey(raw []byte) ([]byte, error) {
	var key map[string]any
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("parse service account JSON: %w", err)
	}

	pk, ok := key["private_key"].(string)
	if !ok || pk == "" {
		return nil, fmt.Errorf("service account JSON has no private_key field")
	}
	if strings.Contains(pk, `\n`) {
		key["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
		out, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("re-encode service account JSON: %w", err)
		}
		return out, nil
	}

	return raw, nil
}
