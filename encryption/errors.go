package encryption

import "errors"

// Configuration errors indicate the process environment cannot support encryption.
var (
	// ErrConfiguration indicates the encryption secret is not configured.
	ErrConfiguration = errors.New("encryption secret is not configured")
)

// Payload errors indicate a stored value is not in the current format or fails
// verification. The legacy decoder treats both as a reason to keep probing.
var (
	// ErrMalformedPayload indicates the value does not split into nonce, tag and
	// ciphertext segments of the expected shape.
	ErrMalformedPayload = errors.New("malformed encrypted payload")

	// ErrAuthentication indicates the authentication tag did not verify.
	ErrAuthentication = errors.New("encrypted payload failed authentication")
)

// Decode errors are the only failures surfaced by DecodeStoredValue.
var (
	// ErrEmptyValue indicates the stored value is blank.
	ErrEmptyValue = errors.New("stored value is empty")

	// ErrDecryptFailed indicates no known storage format could recover the value.
	ErrDecryptFailed = errors.New("failed to decrypt stored value")
)
