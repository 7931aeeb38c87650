/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growthapi

import (
	"context"
	"os"
	"strings"
)

// CredentialProvider supplies the bearer token for backend requests. An
// empty token means the request is sent without an Authorization header.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token implements CredentialProvider.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// EnvToken reads the token from the named environment variable on every
// request, so a rotated token is picked up without a restart.
type EnvToken string

// Token implements CredentialProvider.
func (e EnvToken) Token(context.Context) (string, error) {
	name := string(e)
	if name == "" {
		return "", ErrTokenVarNotSet
	}
	token, ok := os.LookupEnv(name)
	if !ok {
		return "", ErrTokenVarNotSet
	}
	return strings.TrimSpace(token), nil
}

// NoCredentials sends unauthenticated requests.
type NoCredentials struct{}

// Token implements CredentialProvider.
func (NoCredentials) Token(context.Context) (string, error) {
	return "", nil
}
