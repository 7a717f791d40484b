// Package auth stores and verifies the HTTP Basic credentials that protect
// the highlight server. Passwords are kept as argon2id hashes.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-onthisday/internal/config"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP recommended).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16

	hashAlgorithm = "argon2id"
	hashVersion   = "v=19"
	hashParamsFmt = "m=%d,t=%d,p=%d"
	hashFieldSep  = "$"
	credSep       = ":"
)

// Credentials is one "username:hash" entry of the auth file.
type Credentials struct {
	User string
	Hash string
}

// HashPassword returns an encoded argon2id hash with a random salt:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New(config.ErrPasswordEmpty)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrSaltGenerate, err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return strings.Join([]string{
		"",
		hashAlgorithm,
		hashVersion,
		fmt.Sprintf(hashParamsFmt, argon2Memory, argon2Time, argon2Threads),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	}, hashFieldSep), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// A malformed hash is an error, a wrong password is not.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, hashFieldSep)
	if len(parts) != 6 || parts[0] != "" {
		return false, errors.New(config.ErrHashFormat)
	}
	if parts[1] != hashAlgorithm {
		return false, errors.New(config.ErrHashAlgorithm)
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], hashParamsFmt, &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrHashParams, err)
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return false, errors.New(config.ErrHashParams)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrHashFormat, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrHashFormat, err)
	}
	if len(want) == 0 {
		return false, errors.New(config.ErrHashFormat)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// Check verifies a user/password pair in constant time with respect to the username.
func (c Credentials) Check(user, password string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	if !userMatch {
		return false
	}
	ok, err := VerifyPassword(password, c.Hash)
	return err == nil && ok
}

// ParseCredentials parses a single "username:hash" line.
func ParseCredentials(line string) (Credentials, error) {
	user, hash, found := strings.Cut(strings.TrimSpace(line), credSep)
	if !found || user == "" || hash == "" {
		return Credentials{}, errors.New(config.ErrAuthFileFormat)
	}
	return Credentials{User: user, Hash: hash}, nil
}

// String renders the credentials in auth file format.
func (c Credentials) String() string {
	return c.User + credSep + c.Hash
}

// LoadFile reads the credentials stored at path.
// A missing file yields os.ErrNotExist in the error chain so callers can run unauthenticated.
func LoadFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", config.ErrAuthFileRead, err)
	}
	return ParseCredentials(string(data))
}

// WriteFile hashes password and stores "user:hash" at path with 0600 permissions.
// An existing file is replaced only when overwrite is set.
func WriteFile(path, user, password string, overwrite bool) error {
	if user == "" {
		return errors.New(config.ErrUsernameEmpty)
	}
	if strings.Contains(user, credSep) {
		return errors.New(config.ErrAuthFileFormat)
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s: %s", config.ErrAuthFileExists, path)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
			return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
		}
	}

	content := Credentials{User: user, Hash: hash}.String() + "\n"
	if err := os.WriteFile(path, []byte(content), config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrAuthFileWrite, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrAuthFileWrite, err)
	}
	return nil
}

// DefaultPath returns the auth file location: $ONTHISDAY_AUTH_FILE, or
// auth.secret next to the settings file.
func DefaultPath() (string, error) {
	if p := os.Getenv(config.EnvAuthFile); p != "" {
		return p, nil
	}
	settings, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(settings), config.AuthFileName), nil
}
