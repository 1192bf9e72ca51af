// Package encryption - vault value encryption and legacy format recovery
package encryption

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	cgoCrypto "github.com/alwitt/cgoutils/crypto"
	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
)

const (
	// payloadSeparator joins the segments of a serialized payload
	payloadSeparator = ":"
	// currentNonceLen AES-GCM nonce length of the current format
	currentNonceLen = 12
	// gcmTagLen AES-GCM authentication tag length
	gcmTagLen = 16
)

// DecodedValue plain text recovered from a stored value
type DecodedValue struct {
	// Value the plain text
	Value string
	// NeedsReencrypt the stored value is in a legacy format and should be replaced
	// with the current format
	NeedsReencrypt bool
}

/*
Codec the vault value codec. It is solely responsible for turning plain text into
the stored payload format and back.

Every call derives the key through the configured KeyProvider; a Codec holds no
mutable state and is safe for concurrent use.
*/
type Codec interface {
	/*
		Encrypt encrypt plain text into the current payload format

			@param ctx context.Context - execution context
			@param plainText string - the plain text
			@returns nonce:tag:ciphertext, each segment base64 encoded
	*/
	Encrypt(ctx context.Context, plainText string) (string, error)

	/*
		Decrypt decrypt a current format payload

			@param ctx context.Context - execution context
			@param serialized string - the payload
			@returns the plain text
	*/
	Decrypt(ctx context.Context, serialized string) (string, error)

	/*
		DecodeStoredValue recover the plain text of a stored value in the current
		format or any supported legacy format

			@param ctx context.Context - execution context
			@param raw string - the stored value
			@returns the plain text, and whether the value should be re-encrypted
	*/
	DecodeStoredValue(ctx context.Context, raw string) (DecodedValue, error)
}

// aeadCodec implements Codec
type aeadCodec struct {
	goutils.Component

	keys KeyProvider
	rng  io.Reader
}

// CodecParams codec init parameters
type CodecParams struct {
	// Keys source of the symmetric key
	Keys KeyProvider `validate:"required"`
	// RNG nonce source. The cgoutils engine RNG is used when not provided.
	RNG io.Reader `validate:"-"`
}

/*
NewCodec define new vault value codec

	@param params CodecParams - codec parameters
	@returns codec instance
*/
func NewCodec(params CodecParams) (Codec, error) {
	if err := validator.New().Struct(&params); err != nil {
		return nil, fmt.Errorf("invalid codec init parameters [%w]", err)
	}

	rng := params.RNG
	if rng == nil {
		engine, err := cgoCrypto.NewEngine(log.Fields{
			"package": "cgoutils", "module": "crypto", "component": "crypto-engine",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to prepare core cryptography [%w]", err)
		}
		rng = engine.GetRNGReader()
	}

	logTags := log.Fields{"module": "encryption", "component": "vault-codec"}

	return &aeadCodec{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		keys: params.Keys,
		rng:  rng,
	}, nil
}

/*
Encrypt encrypt plain text into the current payload format

	@param ctx context.Context - execution context
	@param plainText string - the plain text
	@returns nonce:tag:ciphertext, each segment base64 encoded
*/
func (c *aeadCodec) Encrypt(ctx context.Context, plainText string) (string, error) {
	key, err := c.keys.DerivedKey(ctx)
	if err != nil {
		return "", err
	}

	aead, err := newGCM(key, currentNonceLen, gcmTagLen)
	if err != nil {
		return "", fmt.Errorf("unable to define AEAD client [%w]", err)
	}

	nonce := make([]byte, currentNonceLen)
	if _, err := io.ReadFull(c.rng, nonce); err != nil {
		return "", fmt.Errorf("failed to read %d byte nonce from RNG [%w]", currentNonceLen, err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plainText), nil)
	cipherText, tag := sealed[:len(sealed)-gcmTagLen], sealed[len(sealed)-gcmTagLen:]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(cipherText),
	}, payloadSeparator), nil
}

/*
Decrypt decrypt a current format payload

	@param ctx context.Context - execution context
	@param serialized string - the payload
	@returns the plain text
*/
func (c *aeadCodec) Decrypt(ctx context.Context, serialized string) (string, error) {
	key, err := c.keys.DerivedKey(ctx)
	if err != nil {
		return "", err
	}
	return decryptCurrent(key, serialized)
}

// decryptCurrent decrypt nonce:tag:ciphertext with an already derived key
func decryptCurrent(key []byte, serialized string) (string, error) {
	parts := strings.Split(serialized, payloadSeparator)
	// The ciphertext segment of an empty plain text is empty
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("expected nonce:tag:ciphertext, got %d segments [%w]", len(parts), ErrMalformedPayload)
	}

	segments := make([][]byte, len(parts))
	for idx, part := range parts {
		decoded, err := decodeBase64(part)
		if err != nil {
			return "", fmt.Errorf("segment %d is not base64 [%w]", idx, ErrMalformedPayload)
		}
		segments[idx] = decoded
	}
	nonce, tag, cipherText := segments[0], segments[1], segments[2]

	if len(nonce) != currentNonceLen || len(tag) != gcmTagLen {
		return "", fmt.Errorf(
			"nonce / tag length %d / %d unsupported [%w]", len(nonce), len(tag), ErrMalformedPayload,
		)
	}

	plainText, err := openGCM(key, nonce, tag, cipherText)
	if err != nil {
		return "", err
	}
	return string(plainText), nil
}

// newGCM define AES-GCM with the given nonce and tag length
//
// The standard library only supports a non-standard nonce length or a non-standard
// tag length, not both.
func newGCM(key []byte, nonceLen, tagLen int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	switch {
	case nonceLen == currentNonceLen && tagLen == gcmTagLen:
		return cipher.NewGCM(block)
	case tagLen == gcmTagLen:
		return cipher.NewGCMWithNonceSize(block, nonceLen)
	case nonceLen == currentNonceLen:
		return cipher.NewGCMWithTagSize(block, tagLen)
	}
	return nil, fmt.Errorf("unsupported GCM nonce / tag length %d / %d", nonceLen, tagLen)
}

// openGCM verify and decrypt with AES-GCM
func openGCM(key, nonce, tag, cipherText []byte) ([]byte, error) {
	if len(nonce) == 0 || len(tag) == 0 {
		return nil, fmt.Errorf("missing nonce or tag [%w]", ErrMalformedPayload)
	}
	aead, err := newGCM(key, len(nonce), len(tag))
	if err != nil {
		return nil, fmt.Errorf("unable to define AEAD client [%v] [%w]", err, ErrMalformedPayload)
	}

	sealed := make([]byte, 0, len(cipherText)+len(tag))
	sealed = append(sealed, cipherText...)
	sealed = append(sealed, tag...)

	plainText, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plainText, nil
}

// decodeBase64 decode padded or unpadded, standard or URL safe base64
func decodeBase64(encoded string) ([]byte, error) {
	var firstErr error
	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		decoded, err := encoding.DecodeString(encoded)
		if err == nil {
			return decoded, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

/*
DecodeStoredValue recover the plain text of a stored value in the current format or
any supported legacy format

	@param ctx context.Context - execution context
	@param raw string - the stored value
	@returns the plain text, and whether the value should be re-encrypted
*/
func (c *aeadCodec) DecodeStoredValue(ctx context.Context, raw string) (DecodedValue, error) {
	logTags := c.GetLogTagsForContext(ctx)

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DecodedValue{}, ErrEmptyValue
	}

	key, err := c.keys.DerivedKey(ctx)
	if err != nil {
		return DecodedValue{}, err
	}

	value, currentErr := decryptCurrent(key, trimmed)
	if currentErr == nil {
		return DecodedValue{Value: value}, nil
	}

	if value, format, ok := recoverLegacy(key, trimmed); ok {
		log.WithFields(logTags).WithField("format", format).Debug("Recovered value from legacy format")
		return DecodedValue{Value: value, NeedsReencrypt: true}, nil
	}

	if errors.Is(currentErr, ErrAuthentication) {
		log.WithFields(logTags).Debug("Stored value failed authentication under every known format")
	}
	return DecodedValue{}, fmt.Errorf("%w [%v]", ErrDecryptFailed, currentErr)
}
