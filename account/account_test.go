package account

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroAddress(t *testing.T) {
	var a Address
	assert.True(t, a.IsZero())
	assert.Equal(t, "0x0000000000000000000000000000000000000000", a.String())

	a[19] = 0x01
	assert.False(t, a.IsZero())
}

func TestFromBytes(t *testing.T) {
	b := make([]byte, AddressSize)
	for i := range b {
		b[i] = byte(i)
	}
	a, err := FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, b, a.Bytes())

	_, err = FromBytes(b[:19])
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = FromBytes(append(b, 0xFF))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestFromHex_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"with prefix", "0xaabbccddeeff00112233445566778899aabbccdd"},
		{"without prefix", "aabbccddeeff00112233445566778899aabbccdd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromHex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "0xaabbccddeeff00112233445566778899aabbccdd", a.String())
		})
	}
}

func TestFromHex_Invalid(t *testing.T) {
	_, err := FromHex("0xzz")
	assert.ErrorIs(t, err, ErrInvalidHex)

	_, err = FromHex("0xaabb")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestFromPublicKey(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	a, err := FromPublicKey(priv.PubKey())
	require.NoError(t, err)
	assert.False(t, a.IsZero())

	// Deterministic for the same key.
	b, err := FromPublicKey(priv.PubKey())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = FromPublicKey(nil)
	assert.ErrorIs(t, err, ErrNilPublicKey)
}
