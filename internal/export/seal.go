package export

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Key derivation namespace baked into every sealed dump
const sealContext string = "dettrace-sealed-dump"

const saltSize int = 32

// Encrypts dump bytes with a passphrase-derived key.
// Blob layout: salt || nonce || ciphertext.
func Seal(plaintext []byte, passphrase string) (blob []byte, err error) {
	if passphrase == "" {
		err = fmt.Errorf("seal passphrase must not be empty")
		return
	}

	salt := make([]byte, saltSize)
	_, err = rand.Read(salt)
	if err != nil {
		err = fmt.Errorf("failed to create random salt: %v", err)
		return
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	_, err = rand.Read(nonce)
	if err != nil {
		err = fmt.Errorf("failed to create random nonce: %v", err)
		return
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return
	}

	aead, err := chacha20poly1305.New(key)
	memzero(key) // Kill keys' memory
	if err != nil {
		err = fmt.Errorf("failed creation of AEAD: %w", err)
		return
	}

	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, plaintext, []byte(sealContext))
	return
}

// Decrypts a sealed dump blob back into plain dump bytes
func Open(blob []byte, passphrase string) (plaintext []byte, err error) {
	if len(blob) < saltSize+chacha20poly1305.NonceSize {
		err = fmt.Errorf("sealed dump too short (%d bytes)", len(blob))
		return
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+chacha20poly1305.NonceSize]
	ciphertext := blob[saltSize+chacha20poly1305.NonceSize:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return
	}

	aead, err := chacha20poly1305.New(key)
	memzero(key) // Kill keys' memory
	if err != nil {
		err = fmt.Errorf("failed creation of AEAD: %w", err)
		return
	}

	plaintext, err = aead.Open(nil, nonce, ciphertext, []byte(sealContext))
	if err != nil {
		err = fmt.Errorf("failed decryption of sealed dump: %w", err)
		return
	}
	return
}

// Derives a fixed size key from the passphrase with per-dump salt
func deriveKey(passphrase string, salt []byte) (key []byte, err error) {
	deriver := hkdf.New(sha512.New, []byte(passphrase), salt, []byte(sealContext))

	key = make([]byte, chacha20poly1305.KeySize)
	_, err = deriver.Read(key)
	if err != nil {
		err = fmt.Errorf("failed to populate key with secure bytes: %w", err)
		return
	}
	return
}

// Overwrites sensitive byte slices
func memzero(sensitive []byte) {
	for i := range sensitive {
		sensitive[i] = 0
	}
}
