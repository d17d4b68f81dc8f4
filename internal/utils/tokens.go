package utils

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

// participantAlphabet avoids characters that read ambiguously on paper
// forms (0/O, 1/I/L).
const participantAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// NewParticipantCode generates a short human-readable participant code.
func NewParticipantCode() (string, error) {
	const length = 8
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	code := make([]byte, length)
	for i, b := range bytes {
		code[i] = participantAlphabet[int(b)%len(participantAlphabet)]
	}
	return string(code), nil
}
