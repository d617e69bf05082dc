package cipherlite

import (
	"context"

	"github.com/cipherlite/cipherlite-go/pkg/contracts"
	"github.com/cipherlite/cipherlite-go/pkg/internal"
)

// Establish opens a connection against a parsed target. It is the single
// entry point behind the URL and direct-path forms: syntactic validation
// happens before it is called, so by the time any native resource is
// acquired the target is known-good. Either a fully configured handle is
// returned, or no handle survives.
func Establish(_ context.Context, target contracts.ConnectionTarget, options *contracts.ConnectionOptions) (contracts.IConnection, error) {
	return internal.Open(target, options)
}

// EstablishURL opens a connection from a URL-form connection string, e.g.
//
//	sqlite://app.db?key=passphrase
//
// A key query parameter, if present, becomes the encryption passphrase.
func EstablishURL(ctx context.Context, rawURL string, options *contracts.ConnectionOptions) (contracts.IConnection, error) {
	target, err := contracts.ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return Establish(ctx, target, options)
}

// EstablishPath opens a connection from a bare filesystem path with an
// out-of-band passphrase. An empty passphrase means no encryption.
func EstablishPath(ctx context.Context, path, passphrase string, options *contracts.ConnectionOptions) (contracts.IConnection, error) {
	return Establish(ctx, contracts.TargetFromPath(path, passphrase), options)
}
