package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// DefaultCredentialsPath is where sign-in credentials are read from by default
const DefaultCredentialsPath = "./lk_credentials.json"

const credentialsKeyPrefix = "credentials:"

// ErrNoCredentials is returned when neither a credentials file nor a stored
// account provides an email and password
var ErrNoCredentials = errors.New("no credentials available")

// Credentials are the LinkedIn sign-in email and password
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks both fields are present
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is empty", ErrNoCredentials)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is empty", ErrNoCredentials)
	}
	return nil
}

// String never reveals the password
func (c Credentials) String() string {
	return c.Email
}

// LoadCredentials reads a JSON credentials file of the form
// {"email": "...", "password": "..."}
func LoadCredentials(path string) (Credentials, error) {
	var creds Credentials

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, fmt.Errorf("%w: %s does not exist", ErrNoCredentials, path)
		}
		return creds, fmt.Errorf("read credentials file: %w", err)
	}
	if err := json.Unmarshal(b, &creds); err != nil {
		return creds, fmt.Errorf("parse credentials file: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return creds, err
	}
	return creds, nil
}

// SaveCredentials remembers credentials for account in the OS keyring
func SaveCredentials(account string, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if account == "" {
		account = creds.Email
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	if err := keyring.Set(KeyringService, credentialsKeyPrefix+account, string(data)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// LoadStoredCredentials reads credentials remembered for account
func LoadStoredCredentials(account string) (Credentials, error) {
	var creds Credentials

	data, err := keyring.Get(KeyringService, credentialsKeyPrefix+account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return creds, fmt.Errorf("%w: nothing stored for %q", ErrNoCredentials, account)
		}
		return creds, fmt.Errorf("failed to load from keyring: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return creds, fmt.Errorf("failed to deserialize credentials: %w", err)
	}
	return creds, creds.Validate()
}

// DeleteStoredCredentials forgets credentials remembered for account
func DeleteStoredCredentials(account string) error {
	if err := keyring.Delete(KeyringService, credentialsKeyPrefix+account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// ResolveCredentials prefers the credentials file and falls back to the
// keyring entry of account
func ResolveCredentials(path, account string) (Credentials, error) {
	creds, err := LoadCredentials(path)
	if err == nil {
		return creds, nil
	}
	if !errors.Is(err, ErrNoCredentials) || account == "" {
		return creds, err
	}
	return LoadStoredCredentials(account)
}
