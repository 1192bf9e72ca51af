package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// legacyFormat name of the historical format a value was recovered from
type legacyFormat string

const (
	legacyJSONGCM         legacyFormat = "json-gcm"
	legacyJSONCBC         legacyFormat = "json-cbc"
	legacyTupleCBC        legacyFormat = "tuple-cbc"
	legacyTupleGCM        legacyFormat = "tuple-gcm"
	legacyTupleGCMSwapped legacyFormat = "tuple-gcm-swapped"
	legacyPlainText       legacyFormat = "plaintext"
)

// maxLegacyPlainTextLen longest raw value accepted as unencrypted plain text
const maxLegacyPlainTextLen = 2048

// Historical JSON field names, in lookup priority order
var (
	legacyNonceFields      = []string{"iv", "nonce", "IV", "initVector"}
	legacyCipherTextFields = []string{
		"encryptedData", "encrypted", "ciphertext", "cipherText", "content", "data", "value",
	}
	legacyTagFields = []string{"authTag", "tag", "auth_tag", "authenticationTag"}
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

/*
recoverLegacy attempt every legacy format in order, stopping at the first success

	@param key []byte - the derived key
	@param value string - trimmed stored value
	@returns the plain text, the format it was recovered from, and whether recovery worked
*/
func recoverLegacy(key []byte, value string) (string, legacyFormat, bool) {
	jsonShaped := strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}")

	if jsonShaped {
		if plainText, format, ok := recoverLegacyJSON(key, value); ok {
			return plainText, format, true
		}
	}

	if plainText, format, ok := recoverLegacyTuple(key, value); ok {
		return plainText, format, true
	}

	if !jsonShaped && !strings.Contains(value, payloadSeparator) && isLegacyPlainText(value) {
		return value, legacyPlainText, true
	}

	return "", "", false
}

// recoverLegacyJSON decode a {"iv": ..., "encryptedData": ..., "authTag": ...} object
//
// Missing fields mean the format does not apply; it is not an error.
func recoverLegacyJSON(key []byte, value string) (string, legacyFormat, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", "", false
	}

	nonceStr := lookupField(fields, legacyNonceFields)
	cipherTextStr := lookupField(fields, legacyCipherTextFields)
	if nonceStr == "" || cipherTextStr == "" {
		return "", "", false
	}

	nonce, err := decodeLegacyField(nonceStr)
	if err != nil {
		return "", "", false
	}
	cipherText, err := decodeLegacyField(cipherTextStr)
	if err != nil {
		return "", "", false
	}

	if tagStr := lookupField(fields, legacyTagFields); tagStr != "" {
		if tag, err := decodeLegacyField(tagStr); err == nil {
			if plainText, err := openGCM(key, nonce, tag, cipherText); err == nil {
				return string(plainText), legacyJSONGCM, true
			}
		}
	}

	if plainText, err := openCBC(key, nonce, cipherText); err == nil {
		return string(plainText), legacyJSONCBC, true
	}

	return "", "", false
}

// recoverLegacyTuple decode iv:ciphertext, iv:tag:ciphertext or iv:ciphertext:tag
func recoverLegacyTuple(key []byte, value string) (string, legacyFormat, bool) {
	parts := strings.Split(value, payloadSeparator)
	if len(parts) != 2 && len(parts) != 3 {
		return "", "", false
	}

	segments := make([][]byte, len(parts))
	for idx, part := range parts {
		decoded, err := decodeLegacyField(part)
		if err != nil {
			return "", "", false
		}
		segments[idx] = decoded
	}

	if len(segments) == 2 {
		if plainText, err := openCBC(key, segments[0], segments[1]); err == nil {
			return string(plainText), legacyTupleCBC, true
		}
		return "", "", false
	}

	// Historical records disagree on whether the tag or the ciphertext comes second
	if plainText, err := openGCM(key, segments[0], segments[1], segments[2]); err == nil {
		return string(plainText), legacyTupleGCM, true
	}
	if plainText, err := openGCM(key, segments[0], segments[2], segments[1]); err == nil {
		return string(plainText), legacyTupleGCMSwapped, true
	}
	if plainText, err := openCBC(key, segments[0], segments[1]); err == nil {
		return string(plainText), legacyTupleCBC, true
	}
	if plainText, err := openCBC(key, segments[0], segments[2]); err == nil {
		return string(plainText), legacyTupleCBC, true
	}

	return "", "", false
}

// lookupField first non-empty string value among the field aliases
func lookupField(fields map[string]interface{}, aliases []string) string {
	for _, alias := range aliases {
		if raw, ok := fields[alias]; ok {
			if str, ok := raw.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

// decodeLegacyField decode a hex or base64 field; hex wins when the string is valid hex
func decodeLegacyField(encoded string) ([]byte, error) {
	if len(encoded)%2 == 0 && hexPattern.MatchString(encoded) {
		return hex.DecodeString(encoded)
	}
	return decodeBase64(encoded)
}

// openCBC decrypt AES-256-CBC with PKCS#7 padding
//
// CBC is unauthenticated, so the result must also be valid UTF-8 to count as recovered.
func openCBC(key, iv, cipherText []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("CBC IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	if len(cipherText) == 0 || len(cipherText)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("CBC ciphertext length %d is not a block multiple", len(cipherText))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plainText := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plainText, cipherText)

	padLen := int(plainText[len(plainText)-1])
	if padLen == 0 || padLen > aes.BlockSize {
		return nil, fmt.Errorf("invalid PKCS#7 padding")
	}
	if !bytes.Equal(
		plainText[len(plainText)-padLen:], bytes.Repeat([]byte{byte(padLen)}, padLen),
	) {
		return nil, fmt.Errorf("invalid PKCS#7 padding")
	}
	plainText = plainText[:len(plainText)-padLen]

	if !utf8.Valid(plainText) {
		return nil, fmt.Errorf("CBC plain text is not UTF-8")
	}
	return plainText, nil
}

// isLegacyPlainText whether a raw value looks like a never-encrypted API key
func isLegacyPlainText(value string) bool {
	if len(value) > maxLegacyPlainTextLen {
		return false
	}
	for idx := 0; idx < len(value); idx++ {
		ch := value[idx]
		if ch == '\t' || ch == '\n' || ch == '\r' {
			continue
		}
		if ch < 0x20 || ch > 0x7e {
			return false
		}
	}
	return true
}
