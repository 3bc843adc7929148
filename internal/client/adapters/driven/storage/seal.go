package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

var ErrWrongPassphrase = errors.New("session file cannot be opened with this passphrase")

const (
	sealVersion = 1
	saltLen     = 16
	nonceLen    = 24
	keyLen      = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

type sealedDoc struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

// sealer encrypts the session document with a key derived from a
// passphrase. The derived key is cached per salt.
type sealer struct {
	passphrase []byte
	salt       []byte
	key        *[keyLen]byte
}

func newSealer(passphrase string) *sealer {
	return &sealer{passphrase: []byte(passphrase)}
}

func (s *sealer) seal(plain []byte) ([]byte, error) {
	if s.key == nil {
		salt := make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generating salt: %w", err)
		}
		if err := s.derive(salt); err != nil {
			return nil, err
		}
	}

	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	doc := sealedDoc{
		Version: sealVersion,
		Salt:    s.salt,
		Nonce:   nonce[:],
		Box:     secretbox.Seal(nil, plain, &nonce, s.key),
	}
	return json.Marshal(doc)
}

func (s *sealer) open(raw []byte) ([]byte, error) {
	var doc sealedDoc
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Version != sealVersion {
		return nil, ErrWrongPassphrase
	}
	if len(doc.Nonce) != nonceLen || len(doc.Salt) != saltLen {
		return nil, fmt.Errorf("%w: malformed header", ErrWrongPassphrase)
	}

	if s.key == nil || !bytes.Equal(s.salt, doc.Salt) {
		if err := s.derive(doc.Salt); err != nil {
			return nil, err
		}
	}

	var nonce [nonceLen]byte
	copy(nonce[:], doc.Nonce)
	plain, ok := secretbox.Open(nil, doc.Box, &nonce, s.key)
	if !ok {
		return nil, ErrWrongPassphrase
	}
	return plain, nil
}

func (s *sealer) derive(salt []byte) error {
	k, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return fmt.Errorf("deriving session key: %w", err)
	}
	var key [keyLen]byte
	copy(key[:], k)
	s.key = &key
	s.salt = append([]byte(nil), salt...)
	return nil
}
