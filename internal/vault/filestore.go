// internal/vault/filestore.go
package vault

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	// PassphraseEnv overrides the machine derived passphrase of the fallback file
	PassphraseEnv = "ZCOMMIT_VAULT_PASSPHRASE"
)

// sealedFile is the on-disk layout of credentials.enc
type sealedFile struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

// fileStore keeps tokens in a secretbox sealed JSON map, keyed with argon2id.
type fileStore struct {
	path       string
	passphrase string
	mu         sync.Mutex
}

func newFileStore(path, passphrase string) *fileStore {
	return &fileStore{path: path, passphrase: passphrase}
}

func defaultPassphrase() string {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p
	}
	host, _ := os.Hostname()
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return name + "@" + host
}

func (fs *fileStore) store(account, token string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return err
	}
	tokens[account] = token
	return fs.save(tokens)
}

func (fs *fileStore) retrieve(account string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return "", err
	}
	return tokens[account], nil
}

func (fs *fileStore) delete(account string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return err
	}
	if _, ok := tokens[account]; !ok {
		return nil
	}
	delete(tokens, account)

	if len(tokens) == 0 {
		if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return fs.save(tokens)
}

func (fs *fileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var sf sealedFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("corrupt credentials file: %w", err)
	}
	if len(sf.Nonce) != nonceSize || len(sf.Salt) != saltSize {
		return nil, fmt.Errorf("corrupt credentials file: bad header")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sf.Nonce)
	key := fs.deriveKey(sf.Salt)

	plain, ok := secretbox.Open(nil, sf.Box, &nonce, &key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt credentials file")
	}

	tokens := map[string]string{}
	if err := json.Unmarshal(plain, &tokens); err != nil {
		return nil, fmt.Errorf("corrupt credentials payload: %w", err)
	}
	return tokens, nil
}

func (fs *fileStore) save(tokens map[string]string) error {
	plain, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEncryptionFailed, err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEncryptionFailed, err)
	}

	key := fs.deriveKey(salt)
	sf := sealedFile{
		Version: 1,
		Salt:    salt,
		Nonce:   nonce[:],
		Box:     secretbox.Seal(nil, plain, &nonce, &key),
	}

	data, err := json.Marshal(sf)
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0600)
}

func (fs *fileStore) deriveKey(salt []byte) [keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey([]byte(fs.passphrase), salt, 1, 64*1024, 4, keySize))
	return key
}
