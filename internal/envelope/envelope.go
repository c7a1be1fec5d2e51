// Package envelope produces and reads the passphrase-encrypted payloads the
// dashboard frontend decrypts with CryptoJS.AES.
//
// The format is OpenSSL's "Salted__" container: base64("Salted__" || salt[8]
// || AES-256-CBC ciphertext), with key and IV derived from the passphrase and
// salt by EVP_BytesToKey (MD5, one iteration) and PKCS#7 padding.
package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
)

const (
	saltLen = 8
	keyLen  = 32
)

var saltedMagic = []byte("Salted__")

var (
	ErrMalformed = errors.New("envelope: malformed ciphertext")
	ErrPadding   = errors.New("envelope: bad padding")
)

// Sealer encrypts values with a shared passphrase.
type Sealer struct {
	passphrase []byte
	rand       io.Reader
}

// New returns a Sealer for passphrase
func New(passphrase string) *Sealer {
	return &Sealer{passphrase: []byte(passphrase), rand: rand.Reader}
}

// Encrypt seals plaintext with a fresh random salt.
func (s *Sealer) Encrypt(plaintext []byte) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return "", err
	}
	key, iv := deriveKey(s.passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(saltedMagic)+saltLen+len(padded))
	copy(out, saltedMagic)
	copy(out[len(saltedMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(saltedMagic)+saltLen:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func (s *Sealer) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	header := len(saltedMagic) + saltLen
	if len(raw) < header+aes.BlockSize || !bytes.HasPrefix(raw, saltedMagic) {
		return nil, ErrMalformed
	}
	body := raw[header:]
	if len(body)%aes.BlockSize != 0 {
		return nil, ErrMalformed
	}

	key, iv := deriveKey(s.passphrase, raw[len(saltedMagic):header])
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)
	return unpad(plain, aes.BlockSize)
}

// Seal marshals v to JSON and encrypts it.
func (s *Sealer) Seal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return s.Encrypt(data)
}

// Open decrypts encoded and unmarshals the JSON into v.
func (s *Sealer) Open(encoded string, v any) error {
	data, err := s.Decrypt(encoded)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// deriveKey implements OpenSSL EVP_BytesToKey with MD5 and a single round.
func deriveKey(passphrase, salt []byte) (key, iv []byte) {
	var derived, prev []byte
	for len(derived) < keyLen+aes.BlockSize {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+aes.BlockSize]
}

func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, ErrPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-n], nil
}
