package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewClientID generates a random id for a spectator connection
func NewClientID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate client ID: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
