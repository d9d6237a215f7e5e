package kv

import (
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltKeyLength = 16

type sealed struct {
	Store
	passphrase []byte
}

// Seal returns a Store that encrypts every value before handing it to the given store.
// Each value is stored as `salt|nonce|ciphertext`, the key being derived from
// the passphrase and the salt with Argon2id.
func Seal(store Store, passphrase []byte) Store {
	return &sealed{
		Store:      store,
		passphrase: append([]byte(nil), passphrase...),
	}
}

func (s *sealed) Set(key string, value []byte) error {
	//
	// Key derivation of passphrase

	salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
	if err != nil {
		return errors.Wrap(err, "could not generate salt")
	}
	hash := argon2.IDKey(s.passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Seal value

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return errors.Wrap(err, "could not generate nonce")
	}

	ciphertext := aead.Seal(nil, nonce, value, []byte(key))
	ciphertext = append(nonce, ciphertext...)
	ciphertext = append(salt, ciphertext...)

	return s.Store.Set(key, ciphertext)
}

func (s *sealed) Get(key string) ([]byte, error) {
	ciphertext, err := s.Store.Get(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < saltKeyLength+chacha20poly1305.NonceSizeX {
		return nil, errors.Errorf("sealed value %s is truncated", key)
	}

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]
	hash := argon2.IDKey(s.passphrase, salt, 3, 64<<10, 2, 32)

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	value, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	return value, errors.Wrapf(err, "could not decrypt %s", key)
}
