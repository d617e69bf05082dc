package contracts

// DefaultBusyTimeout is the busy-wait interval, in milliseconds, applied
// to every handle immediately after open. Contention on a locked store
// blocks-and-retries inside the native layer for up to this long instead
// of failing immediately.
const DefaultBusyTimeout = 5000

// ConnectionOptions holds options for establishing a database connection
type ConnectionOptions struct {
	// BusyTimeout overrides DefaultBusyTimeout (milliseconds).
	BusyTimeout *int

	// Passphrase supplies the encryption passphrase out-of-band. When
	// set it takes precedence over a key parameter in the target.
	Passphrase *string
}

// EffectiveBusyTimeout resolves the busy timeout for these options.
func (o *ConnectionOptions) EffectiveBusyTimeout() int {
	if o != nil && o.BusyTimeout != nil {
		return *o.BusyTimeout
	}
	return DefaultBusyTimeout
}

// EffectivePassphrase resolves the passphrase: the out-of-band option wins
// over the target's key parameter.
func (o *ConnectionOptions) EffectivePassphrase(target ConnectionTarget) (string, bool) {
	if o != nil && o.Passphrase != nil {
		return *o.Passphrase, true
	}
	return target.Key()
}
