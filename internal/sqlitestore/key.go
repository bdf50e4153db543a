package sqlitestore

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/kuitang/noteledger/internal/errs"
)

// KeySize is the SQLCipher key length in bytes (AES-256).
const KeySize = 32

// keyDerivationInfo binds derived keys to this store's purpose, so the same
// master key can safely derive keys for other uses later.
const keyDerivationInfo = "noteledger/db/v1"

// DeriveKey derives the database encryption key from the master key using
// HKDF-SHA256.
func DeriveKey(masterKey []byte) ([]byte, error) {
	if len(masterKey) == 0 {
		return nil, errs.New(errs.InvalidArgument, "master key is required")
	}

	reader := hkdf.New(sha256.New, masterKey, nil, []byte(keyDerivationInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to derive database key", err)
	}
	return key, nil
}
