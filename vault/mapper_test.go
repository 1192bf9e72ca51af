package vault_test

import (
	"context"
	"crypto/rand"
	"errors"
	mrand "math/rand"
	"testing"
	"time"

	"github.com/alwitt/keyvault/encryption"
	mockencryption "github.com/alwitt/keyvault/mocks/encryption"
	"github.com/alwitt/keyvault/models"
	"github.com/alwitt/keyvault/vault"
	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSecret = "unit-test-encryption-secret"

func ptr[T any](v T) *T {
	return &v
}

func TestMaskKeyValue(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("****1234", vault.MaskKeyValue("sk-live-abcdef1234"))
	assert.Equal("****", vault.MaskKeyValue(""))
	assert.Equal("****abc", vault.MaskKeyValue("abc"))
	assert.Equal("****wxyz", vault.MaskKeyValue("wxyz"))
	assert.Equal("****🔑-鍵!", vault.MaskKeyValue("ключ-🔑-鍵!"))
}

func TestBuildInsertPayload(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	codec, err := encryption.NewCodec(encryption.CodecParams{
		Keys: encryption.NewStaticKeyProvider(testSecret),
	})
	assert.Nil(err)
	uut := vault.NewMapper(codec)

	// Case 0: defaults are applied
	{
		payload, err := uut.BuildInsertPayload(utCtx, models.VaultKeyInput{
			Name:     "Trading Bot",
			Service:  "Alpaca",
			KeyValue: ptr("abc123"),
			Category: "",
		})
		assert.Nil(err)
		assert.Equal("Trading Bot", payload.Name)
		assert.Equal("Alpaca", payload.Service)
		assert.Equal(models.DefaultVaultKeyCategory, payload.Category)
		assert.Nil(payload.Notes)
		assert.NotEqual("abc123", payload.KeyValue)

		decoded, err := codec.DecodeStoredValue(utCtx, payload.KeyValue)
		assert.Nil(err)
		assert.Equal("abc123", decoded.Value)
		assert.False(decoded.NeedsReencrypt)
	}

	// Case 1: fields are trimmed
	{
		payload, err := uut.BuildInsertPayload(utCtx, models.VaultKeyInput{
			Name:     "  Research  ",
			Service:  "\tOpenAI\n",
			KeyValue: ptr("sk-proj-0000"),
			Category: " AI ",
			Notes:    "  rotate monthly ",
		})
		assert.Nil(err)
		assert.Equal("Research", payload.Name)
		assert.Equal("OpenAI", payload.Service)
		assert.Equal("AI", payload.Category)
		assert.NotNil(payload.Notes)
		assert.Equal("rotate monthly", *payload.Notes)
	}

	// Case 2: required fields
	for _, input := range []models.VaultKeyInput{
		{Service: "Alpaca", KeyValue: ptr("abc123")},
		{Name: "Trading Bot", KeyValue: ptr("abc123")},
		{Name: "Trading Bot", Service: "Alpaca"},
		{Name: "Trading Bot", Service: "Alpaca", KeyValue: ptr("   ")},
		{Name: "   ", Service: "Alpaca", KeyValue: ptr("abc123")},
	} {
		_, err := uut.BuildInsertPayload(utCtx, input)
		assert.ErrorIs(err, vault.ErrInvalidInput)
	}
}

func TestBuildInsertPayloadEncryptFailure(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	codec := mockencryption.NewCodec(t)
	uut := vault.NewMapper(codec)

	codec.On("Encrypt", mock.Anything, "abc123").
		Return("", encryption.ErrConfiguration).Once()

	_, err := uut.BuildInsertPayload(utCtx, models.VaultKeyInput{
		Name: "Trading Bot", Service: "Alpaca", KeyValue: ptr("abc123"),
	})
	assert.ErrorIs(err, encryption.ErrConfiguration)
}

func TestBuildUpdatePayload(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	codec := mockencryption.NewCodec(t)
	uut := vault.NewMapper(codec)

	// Case 0: no key value, the codec is never touched
	{
		payload, err := uut.BuildUpdatePayload(utCtx, models.VaultKeyInput{
			Name: "Trading Bot", Service: "Alpaca", Notes: "paper account",
		})
		assert.Nil(err)
		assert.Nil(payload.KeyValue)
		columns := payload.Columns()
		assert.NotContains(columns, "key_value")
		assert.Equal("Trading Bot", columns["name"])
		assert.Equal("Alpaca", columns["service"])
		assert.Equal(models.DefaultVaultKeyCategory, columns["category"])
	}

	// Case 1: blank key value is treated as not supplied
	{
		payload, err := uut.BuildUpdatePayload(utCtx, models.VaultKeyInput{
			Name: "Trading Bot", Service: "Alpaca", KeyValue: ptr("  "),
		})
		assert.Nil(err)
		assert.Nil(payload.KeyValue)
		assert.NotContains(payload.Columns(), "key_value")
	}

	// Case 2: new key value is encrypted
	{
		codec.On("Encrypt", mock.Anything, "new-secret-value").
			Return("nonce:tag:cipher", nil).Once()

		payload, err := uut.BuildUpdatePayload(utCtx, models.VaultKeyInput{
			Name: "Trading Bot", Service: "Alpaca", KeyValue: ptr("new-secret-value"),
		})
		assert.Nil(err)
		assert.NotNil(payload.KeyValue)
		assert.Equal("nonce:tag:cipher", *payload.KeyValue)
		assert.Equal("nonce:tag:cipher", payload.Columns()["key_value"])
	}

	// Case 3: required fields
	{
		_, err := uut.BuildUpdatePayload(utCtx, models.VaultKeyInput{Name: "Trading Bot"})
		assert.ErrorIs(err, vault.ErrInvalidInput)
	}
}

func TestToMaskedRecord(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	codec, err := encryption.NewCodec(encryption.CodecParams{
		Keys: encryption.NewStaticKeyProvider(testSecret),
	})
	assert.Nil(err)
	uut := vault.NewMapper(codec)

	encrypted, err := codec.Encrypt(utCtx, "sk-live-abcdef1234")
	assert.Nil(err)

	lastUsed := time.Now().UTC()
	row := models.VaultKey{
		ID:        uuid.NewString(),
		Name:      "Trading Bot",
		Service:   "Alpaca",
		Category:  "Finance",
		Notes:     ptr("live account"),
		KeyValue:  encrypted,
		LastUsed:  &lastUsed,
		CreatedAt: time.Now().UTC(),
	}

	// Case 0: current format
	{
		masked := uut.ToMaskedRecord(utCtx, row)
		assert.Equal(row.ID, masked.ID)
		assert.Equal(row.Name, masked.Name)
		assert.Equal(row.Service, masked.Service)
		assert.Equal(row.Category, masked.Category)
		assert.Equal(row.Notes, masked.Notes)
		assert.Equal(row.LastUsed, masked.LastUsed)
		assert.Equal("****1234", masked.KeyMasked)
	}

	// Case 1: legacy plain text
	{
		legacy := row
		legacy.KeyValue = "sk-test-abc123"
		masked := uut.ToMaskedRecord(utCtx, legacy)
		assert.Equal("****c123", masked.KeyMasked)
	}

	// Case 2: unrecoverable value does not raise
	{
		broken := row
		broken.KeyValue = "garbage:data:here"
		masked := uut.ToMaskedRecord(utCtx, broken)
		assert.Equal("****", masked.KeyMasked)
		assert.Equal(row.ID, masked.ID)
	}

	// Case 3: unstructured binary
	{
		broken := row
		broken.KeyValue = string([]byte{0x00, 0xff, 0x13, 0x7b, 0x3a, 0x80, 0xfe, 0x3a, 0x01, 0x7d})
		masked := uut.ToMaskedRecord(utCtx, broken)
		assert.Equal("****", masked.KeyMasked)
		assert.Equal(row.ID, masked.ID)
	}

	// Case 4: random bytes
	for range 64 {
		raw := make([]byte, 1+mrand.Intn(256))
		_, err := rand.Read(raw)
		assert.Nil(err)
		// A trailing NUL keeps the value off the plain text path
		raw = append(raw, 0x00)

		broken := row
		broken.KeyValue = string(raw)
		masked := uut.ToMaskedRecord(utCtx, broken)
		assert.Equal("****", masked.KeyMasked, "input %x", raw)
		assert.Equal(row.ID, masked.ID)
	}
}

func TestToMaskedRecords(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	codec := mockencryption.NewCodec(t)
	uut := vault.NewMapper(codec)

	rows := []models.VaultKey{}
	for idx, value := range []string{"first-key-0001", "second-key-0002", "broken", "fourth-key-0004"} {
		rows = append(rows, models.VaultKey{
			ID: uuid.NewString(), Name: value, Service: "svc", KeyValue: value,
		})
		if value == "broken" {
			codec.On("DecodeStoredValue", mock.Anything, value).
				Return(encryption.DecodedValue{}, errors.New("dummy error")).Once()
		} else {
			codec.On("DecodeStoredValue", mock.Anything, value).
				Return(encryption.DecodedValue{Value: value, NeedsReencrypt: idx%2 == 0}, nil).Once()
		}
	}

	masked := uut.ToMaskedRecords(utCtx, rows)
	assert.Len(masked, len(rows))
	assert.Equal(rows[0].ID, masked[0].ID)
	assert.Equal("****0001", masked[0].KeyMasked)
	assert.Equal("****0002", masked[1].KeyMasked)
	assert.Equal("****", masked[2].KeyMasked)
	assert.Equal("****0004", masked[3].KeyMasked)
	assert.Equal(rows[3].ID, masked[3].ID)

	assert.Empty(uut.ToMaskedRecords(utCtx, nil))
}
