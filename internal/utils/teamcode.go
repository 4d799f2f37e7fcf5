package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateTeamCode returns an 8-character uppercase hex code. crypto/rand
// because the code is the only secret guarding a private team.
func GenerateTeamCode() (string, error) {
	b := make([]byte, 4)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(b)), nil
}
