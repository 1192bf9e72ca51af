package encryption

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// KeyProvider source of the symmetric vault encryption key
type KeyProvider interface {
	/*
		DerivedKey fetch the 32 byte symmetric key

			@param ctx context.Context - execution context
			@returns the key
	*/
	DerivedKey(ctx context.Context) ([]byte, error)
}

/*
DeriveKey hash an operator secret into the AES-256 vault key

	@param secret string - the operator secret
	@returns the key
*/
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrConfiguration
	}
	digest := sha256.Sum256([]byte(secret))
	return digest[:], nil
}

// secretEnv environment holding the operator secret
type secretEnv struct {
	EncryptionSecret string `envconfig:"ENCRYPTION_SECRET"`
}

// envKeyProvider derive the key from ENCRYPTION_SECRET on every call
type envKeyProvider struct{}

// NewEnvKeyProvider define a KeyProvider reading ENCRYPTION_SECRET from the environment
func NewEnvKeyProvider() KeyProvider {
	return envKeyProvider{}
}

func (envKeyProvider) DerivedKey(_ context.Context) ([]byte, error) {
	var env secretEnv
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read encryption secret from environment [%v] [%w]", err, ErrConfiguration)
	}
	return DeriveKey(env.EncryptionSecret)
}

// staticKeyProvider derive the key from a fixed secret
type staticKeyProvider struct {
	secret string
}

// NewStaticKeyProvider define a KeyProvider for a secret known up front
func NewStaticKeyProvider(secret string) KeyProvider {
	return staticKeyProvider{secret: secret}
}

func (p staticKeyProvider) DerivedKey(_ context.Context) ([]byte, error) {
	return DeriveKey(p.secret)
}

// cachedKeyProvider caches the first successfully derived key
type cachedKeyProvider struct {
	inner KeyProvider
	lock  sync.RWMutex
	key   []byte
}

/*
CacheDerivedKey wrap a KeyProvider so the key is derived once per process

Failures are not cached; a later call retries the wrapped provider.

	@param inner KeyProvider - the provider to wrap
	@returns caching provider
*/
func CacheDerivedKey(inner KeyProvider) KeyProvider {
	return &cachedKeyProvider{inner: inner}
}

func (p *cachedKeyProvider) DerivedKey(ctx context.Context) ([]byte, error) {
	p.lock.RLock()
	key := p.key
	p.lock.RUnlock()
	if key != nil {
		return key, nil
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	if p.key != nil {
		return p.key, nil
	}
	key, err := p.inner.DerivedKey(ctx)
	if err != nil {
		return nil, err
	}
	p.key = key
	return key, nil
}
