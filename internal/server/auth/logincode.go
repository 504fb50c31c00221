package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
)

// NewLoginCode returns a fresh one-time login code and its storable hash.
// Only the hash is persisted; the plain code goes into the emailed link.
func NewLoginCode() (code string, hash string, err error) {
	code, err = common.MakeRandHexString(32)
	if err != nil {
		return "", "", err
	}
	return code, HashLoginCode(code), nil
}

// HashLoginCode returns the hex SHA-256 of a login code.
func HashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
