package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"
)

// KEY seals slot tokens handed to agent callers. Tokens are opaque
// references, not credentials; the key only has to be stable across
// instances of one deployment.
const KEY = "m3Xx1JgqQ0uEb7dZ8pTnR5yWvKcA4sHfL6iB9oUjC2k="

// CreateSlotToken seals an (event type, start time) pair into an opaque
// token an agent can pass back to booking_create verbatim.
func CreateSlotToken(eventTypeID string, startTime time.Time) (string, error) {
	plaintext := []byte(eventTypeID + "|" + startTime.Format(time.RFC3339))

	key, err := base64.StdEncoding.DecodeString(KEY)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func ParseSlotToken(token string) (string, time.Time, error) {
	key, err := base64.StdEncoding.DecodeString(KEY)
	if err != nil {
		return "", time.Time{}, err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", time.Time{}, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", time.Time{}, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", time.Time{}, err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", time.Time{}, fmt.Errorf("invalid token format")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", time.Time{}, err
	}

	parts := strings.SplitN(string(pt), "|", 2)
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("invalid token format")
	}

	start, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid token format")
	}

	return parts[0], start, nil
}
