package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTxHash(t *testing.T) {
	tests := []struct {
		hash string
		want bool
	}{
		{"0x" + "a1B2c3D4e5F6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2", true},
		{"0x" + "0000000000000000000000000000000000000000000000000000000000000000", true},
		{"a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2", false},
		{"0x1234", false},
		{"0x" + "g1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2", false},
		{"0x" + "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2ff", false},
		{" 0x" + "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidTxHash(tt.hash), tt.hash)
	}
}

func TestDeviceMultiplier(t *testing.T) {
	m, ok := DeviceMultiplier("ev_charger")
	assert.True(t, ok)
	assert.Equal(t, 1.5, m)

	_, ok = DeviceMultiplier("toaster")
	assert.False(t, ok)
	assert.False(t, IsDeviceTypeSupported("toaster"))
	assert.True(t, IsDeviceTypeSupported("solar"))
}
