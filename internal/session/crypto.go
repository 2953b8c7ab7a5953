package session

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidKeyMaterial indicates that the key material cannot initialize a cipher.
var ErrInvalidKeyMaterial = errors.New("invalid key material")

// decryptingReadCloser decrypts an AES-CTR protected stream on the fly.
type decryptingReadCloser struct {
	reader cipher.StreamReader
	closer io.Closer
}

// newDecryptingReadCloser wraps the source stream with an AES-CTR decryptor.
func newDecryptingReadCloser(source io.ReadCloser, key *KeyMaterial) (io.ReadCloser, error) {
	block, err := aes.NewCipher(key.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyMaterial, err)
	}

	if len(key.IV) != block.BlockSize() {
		return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrInvalidKeyMaterial, block.BlockSize(), len(key.IV))
	}

	return &decryptingReadCloser{
		reader: cipher.StreamReader{
			S: cipher.NewCTR(block, key.IV),
			R: source,
		},
		closer: source,
	}, nil
}

// Read implements io.Reader.
func (r *decryptingReadCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

// Close implements io.Closer.
func (r *decryptingReadCloser) Close() error {
	return r.closer.Close()
}
