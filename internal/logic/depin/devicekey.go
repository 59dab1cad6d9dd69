package depin

import (
	"crypto/subtle"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const deviceKeyPrefix = "dk_"

// NewDeviceKey returns a fresh device key and the hash to store for it.
func NewDeviceKey() (key, hash string) {
	key = deviceKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	return key, HashDeviceKey(key)
}

func HashDeviceKey(key string) string {
	return crypto.Keccak256Hash([]byte(key)).Hex()
}

// VerifyDeviceKey compares key against a stored hash in constant time.
func VerifyDeviceKey(key, hash string) bool {
	if key == "" || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashDeviceKey(key)), []byte(hash)) == 1
}
