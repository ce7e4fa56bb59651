// Package env loads and validates the required environment before any other
// component is built.
package env

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/odinxorg/odinx-wallet/pkg/logging"
)

// Required keys.
const (
	KeyBackendURL          = "VITE_BACKEND_URL"
	KeyBitcoinExplorerURL  = "VITE_BITCOIN_EXPLORER_URL"
	KeyEthereumExplorerURL = "VITE_ETHEREUM_EXPLORER_URL"
)

var requiredKeys = []string{KeyBackendURL, KeyBitcoinExplorerURL, KeyEthereumExplorerURL}

// Env is the validated environment.
type Env struct {
	BackendURL          string
	BitcoinExplorerURL  string
	EthereumExplorerURL string
}

// Problem describes one invalid key.
type Problem struct {
	Key    string
	Reason string
}

// ValidationError lists every problem found in one pass.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Key + ": " + p.Reason
	}
	return "invalid environment: " + strings.Join(parts, "; ")
}

// Missing reports whether key was absent or blank.
func (e *ValidationError) Missing(key string) bool {
	for _, p := range e.Problems {
		if p.Key == key && p.Reason == reasonMissing {
			return true
		}
	}
	return false
}

const reasonMissing = "required"

// Load reads the given .env files into the process environment (missing
// files are skipped and existing variables win), then validates it.
func Load(files ...string) (*Env, error) {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}
	return Validate(os.LookupEnv)
}

// Validate checks the required keys using lookup.
func Validate(lookup func(string) (string, bool)) (*Env, error) {
	values := make(map[string]string, len(requiredKeys))
	var problems []Problem

	for _, key := range requiredKeys {
		raw, ok := lookup(key)
		value := strings.TrimSpace(raw)
		if !ok || value == "" {
			problems = append(problems, Problem{Key: key, Reason: reasonMissing})
			continue
		}
		if err := checkURL(value); err != nil {
			problems = append(problems, Problem{Key: key, Reason: err.Error()})
			continue
		}
		values[key] = value
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return &Env{
		BackendURL:          values[KeyBackendURL],
		BitcoinExplorerURL:  values[KeyBitcoinExplorerURL],
		EthereumExplorerURL: values[KeyEthereumExplorerURL],
	}, nil
}

// MustLoad is Load for process startup: any problem is fatal.
func MustLoad(files ...string) *Env {
	e, err := Load(files...)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				logging.Error("Invalid environment variable", "key", p.Key, "reason", p.Reason)
			}
		}
		logging.Fatal("Environment validation failed", "error", err)
	}
	return e
}

func checkURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
