package aesgcm

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

func testKey(t *testing.T) Key {
	t.Helper()
	key, err := Derive("correct horse battery staple")
	require.NoError(t, err)
	return key
}

func TestDerive_EmptySecret(t *testing.T) {
	_, err := Derive("")
	require.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDerive_IsDeterministic(t *testing.T) {
	a, err := Derive("s3cret")
	require.NoError(t, err)
	b, err := Derive("s3cret")
	require.NoError(t, err)
	c, err := Derive("s3cret!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	inputs := [][]byte{
		{},
		[]byte("x"),
		[]byte(`{"owner":"alice","entries":[]}`),
		bytes.Repeat([]byte{0x00, 0xFF, 0x7F}, 4096),
	}
	for _, plaintext := range inputs {
		blob, err := Encrypt(key, plaintext)
		require.NoError(t, err)

		got, err := Decrypt(key, blob)
		require.NoError(t, err)
		assert.Equal(t, len(plaintext), len(got))
		assert.True(t, bytes.Equal(plaintext, got))
	}
}

func TestEncrypt_Layout(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("layout check")

	blob, err := Encrypt(key, plaintext)
	require.NoError(t, err)
	require.Len(t, blob, NonceSize+len(plaintext)+TagSize)

	// An independent GCM instance must open the blob split at the fixed sizes.
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := blob[:NonceSize]
	ciphertext := blob[NonceSize : len(blob)-TagSize]
	tag := blob[len(blob)-TagSize:]
	opened, err := gcm.Open(nil, nonce, append(append([]byte{}, ciphertext...), tag...), nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := testKey(t)

	a, err := Encrypt(key, []byte("same"))
	require.NoError(t, err)
	b, err := Encrypt(key, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a[:NonceSize], b[:NonceSize])
	assert.NotEqual(t, a, b)
}

func TestDecrypt_AnySingleBitFlipFails(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, []byte("tamper evident"))
	require.NoError(t, err)

	for i := range blob {
		for bit := 0; bit < 8; bit++ {
			tampered := bytes.Clone(blob)
			tampered[i] ^= 1 << bit

			got, err := Decrypt(key, tampered)
			require.ErrorIs(t, err, model.ErrIntegrity, "byte %d bit %d", i, bit)
			require.Nil(t, got)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	blob, err := Encrypt(testKey(t), []byte("hidden"))
	require.NoError(t, err)

	other, err := Derive("another secret")
	require.NoError(t, err)

	_, err = Decrypt(other, blob)
	require.ErrorIs(t, err, model.ErrIntegrity)
}

func TestDecrypt_Truncated(t *testing.T) {
	key := testKey(t)

	_, err := Decrypt(key, make([]byte, Overhead-1))
	require.ErrorIs(t, err, model.ErrIntegrity)

	_, err = Decrypt(key, nil)
	require.ErrorIs(t, err, model.ErrIntegrity)
}
