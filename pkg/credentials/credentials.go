// Package credentials provides CredentialProvider implementations.
package credentials

import (
	"context"
	"os"
	"strings"
)

// EnvAPIToken is the environment variable read by Env by default.
const EnvAPIToken = "RECRAFT_API_TOKEN"

// Static returns the same token on every call.
type Static string

// APIToken returns the token.
func (s Static) APIToken(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Env reads the token from an environment variable on every call so rotated tokens are picked up.
type Env struct {
	Variable string
}

// NewEnv creates a provider reading variable, or EnvAPIToken when variable is empty.
func NewEnv(variable string) *Env {
	if variable == "" {
		variable = EnvAPIToken
	}

	return &Env{Variable: variable}
}

// APIToken returns the variable's value. An unset variable yields an empty token.
func (e *Env) APIToken(context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(e.Variable)), nil
}
