package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	EnvAPIKey  = "GOOGLE_PLACES_API_KEY"
	EnvPlaceID = "GOOGLE_PLACE_ID"
)

var ErrMissingCredentials = errors.New("missing API key or Place ID")

// Remediation is printed when credentials cannot be resolved.
const Remediation = `Option 1: create config.yaml with google_places_api_key and google_place_id (recommended)
Option 2: set environment variables:
  export GOOGLE_PLACES_API_KEY='your_key_here'
  export GOOGLE_PLACE_ID='your_place_id'`

type Credentials struct {
	APIKey  string
	PlaceID string
}

type CredentialProvider interface {
	Name() string
	Lookup() (Credentials, error)
}

// FileProvider reads credentials from the YAML config file.
type FileProvider struct{ Path string }

func (p FileProvider) Name() string { return "config file " + p.Path }

func (p FileProvider) Lookup() (Credentials, error) {
	fc, err := ReadFileConfig(p.Path)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{APIKey: fc.APIKey, PlaceID: fc.PlaceID}, nil
}

// EnvProvider reads GOOGLE_PLACES_API_KEY and GOOGLE_PLACE_ID.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "environment" }

func (EnvProvider) Lookup() (Credentials, error) {
	return Credentials{
		APIKey:  strings.TrimSpace(os.Getenv(EnvAPIKey)),
		PlaceID: strings.TrimSpace(os.Getenv(EnvPlaceID)),
	}, nil
}

// MissingCredentialsError names the fields no provider could supply.
type MissingCredentialsError struct{ Fields []string }

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%v: %s not set", ErrMissingCredentials, strings.Join(e.Fields, ", "))
}

func (e *MissingCredentialsError) Unwrap() error { return ErrMissingCredentials }

// ResolveCredentials queries providers in priority order; for each field the first
// non-empty value wins. A failing provider is logged and skipped.
func ResolveCredentials(providers ...CredentialProvider) (Credentials, error) {
	var out Credentials
	for _, p := range providers {
		c, err := p.Lookup()
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Msg("credential provider failed")
			continue
		}
		if out.APIKey == "" && c.APIKey != "" {
			out.APIKey = c.APIKey
			log.Info().Str("provider", p.Name()).Msg("using API key")
		}
		if out.PlaceID == "" && c.PlaceID != "" {
			out.PlaceID = c.PlaceID
			log.Info().Str("provider", p.Name()).Msg("using Place ID")
		}
	}

	var missing []string
	if out.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if out.PlaceID == "" {
		missing = append(missing, EnvPlaceID)
	}
	if len(missing) > 0 {
		return out, &MissingCredentialsError{Fields: missing}
	}
	return out, nil
}
