// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The CipherLite Authors

package contracts

import (
	"fmt"
	"net/url"
)

// Scheme is the designated URL scheme token for connection strings.
const Scheme = "sqlite"

// KeyParam is the query parameter holding the encryption passphrase.
const KeyParam = "key"

// ConnectionTarget is a parsed connection string: where the store lives
// and any parameters that apply to it.
type ConnectionTarget struct {
	Scheme string
	Path   string
	Params map[string]string
}

// Key returns the encryption passphrase from the key parameter, if one
// was supplied. Absence means no encryption is applied.
func (t ConnectionTarget) Key() (string, bool) {
	key, ok := t.Params[KeyParam]
	return key, ok
}

// ParseTarget parses a URL-form connection string, e.g.
//
//	sqlite://app.db?key=passphrase
//	sqlite:///var/lib/app/app.db
//
// The scheme must be exactly Scheme and the path component must be
// non-empty; anything else fails with ErrInvalidConnectionURL. No native
// resource is touched by parsing.
func ParseTarget(rawURL string) (ConnectionTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ConnectionTarget{}, fmt.Errorf("%w: %v", ErrInvalidConnectionURL, err)
	}
	if u.Scheme != Scheme {
		return ConnectionTarget{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConnectionURL, u.Scheme)
	}

	// sqlite://relative.db puts the first path segment in Host;
	// sqlite:relative.db arrives as an opaque URL.
	path := u.Opaque
	if path == "" {
		path = u.Host + u.Path
	}
	if path == "" {
		return ConnectionTarget{}, fmt.Errorf("%w: missing database path", ErrInvalidConnectionURL)
	}

	params := make(map[string]string)
	for name, values := range u.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	return ConnectionTarget{Scheme: u.Scheme, Path: path, Params: params}, nil
}

// TargetFromPath builds a ConnectionTarget from a bare filesystem path and
// an out-of-band passphrase. An empty passphrase means no encryption.
func TargetFromPath(path, passphrase string) ConnectionTarget {
	params := make(map[string]string)
	if passphrase != "" {
		params[KeyParam] = passphrase
	}
	return ConnectionTarget{Scheme: Scheme, Path: path, Params: params}
}
