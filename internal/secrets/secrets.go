// Package secrets resolves credentials from the environment, falling back to
// the OS keychain.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "jobfinder"
)

// Names of the settings the app reads.
const (
	RapidAPIKey       = "RAPIDAPI_KEY"
	AirtableAPIKey    = "AIRTABLE_API_KEY"
	AirtableBaseID    = "AIRTABLE_BASE_ID"
	AirtableTableName = "AIRTABLE_TABLE_NAME"
	GmailEmail        = "GMAIL_EMAIL"
	GmailAppPassword  = "GMAIL_APP_PASSWORD"
)

// Known lists every setting in the order the config page shows them.
var Known = []string{
	RapidAPIKey,
	AirtableAPIKey,
	AirtableBaseID,
	AirtableTableName,
	GmailEmail,
	GmailAppPassword,
}

var ErrNotFound = errors.New("secret not found (set it in the environment or keychain)")

// Get returns the environment value for name, then the keychain entry.
func Get(name string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	v, err := keyring.Get(KeyringService, name)
	if err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}
	return "", ErrNotFound
}

// Lookup is Get with every failure reported as empty.
func Lookup(name string) string {
	v, _ := Get(name)
	return v
}

func Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, name, value)
}

func Delete(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	err := keyring.Delete(KeyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Status reports which known settings resolve, without exposing values.
func Status() map[string]bool {
	out := make(map[string]bool, len(Known))
	for _, name := range Known {
		out[name] = Lookup(name) != ""
	}
	return out
}
