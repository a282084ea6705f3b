package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"croakbox/pkg/spec"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveKey derives a 32-byte key from a password and salt.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, 4096, 32, sha256.New)
}

// Encrypt seals data with AES-GCM under a random nonce.
func Encrypt(data []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens AES-GCM data produced by Encrypt.
func Decrypt(data []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, io.ErrUnexpectedEOF
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// CreateKeyLocker writes the .dat key locker next to a bank file,
// holding the bank password encrypted under the master key.
func CreateKeyLocker(bankPath, password string) error {
	lockerKey := DeriveKey(spec.MasterKey, []byte(spec.Salt))

	encryptedPass, err := Encrypt([]byte(password), lockerKey)
	if err != nil {
		return err
	}

	datPath := LockerPath(bankPath)
	f, err := os.Create(datPath)
	if err != nil {
		return err
	}
	defer f.Close()

	f.Write([]byte(spec.LockerMagic))
	f.Write(encryptedPass)

	return nil
}

// UnlockKeyLocker reads a key locker file and returns the bank password.
func UnlockKeyLocker(lockerPath string) (string, error) {
	data, err := os.ReadFile(lockerPath)
	if err != nil {
		return "", err
	}

	if len(data) < 8 || string(data[:8]) != spec.LockerMagic {
		return "", fmt.Errorf("not a valid key locker file")
	}

	lockerKey := DeriveKey(spec.MasterKey, []byte(spec.Salt))
	dec, err := Decrypt(data[8:], lockerKey)
	if err != nil {
		return "", err
	}

	return string(dec), nil
}

// LockerPath maps a bank path to its key locker path (.crkb -> _keys.dat).
func LockerPath(bankPath string) string {
	return strings.TrimSuffix(bankPath, ".crkb") + "_keys.dat"
}
