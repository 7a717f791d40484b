package auth_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-onthisday/internal/auth"
	"github.com/tartampluch/go-onthisday/internal/config"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("MySecurePassword123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"), "got %s", hash)

	hash2, err := auth.HashPassword("MySecurePassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "salts must differ")

	_, err = auth.HashPassword("")
	assert.EqualError(t, err, config.ErrPasswordEmpty)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("MySecurePassword123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  string
	}{
		{"correct password", "MySecurePassword123", hash, true, ""},
		{"wrong password", "WrongPassword456", hash, false, ""},
		{"invalid format", "x", "invalid", false, config.ErrHashFormat},
		{"wrong algorithm", "x", "$bcrypt$v=1$m=65536,t=1,p=4$c2FsdA$aGFzaA", false, config.ErrHashAlgorithm},
		{"bad params", "x", "$argon2id$v=19$m=abc$c2FsdA$aGFzaA", false, config.ErrHashParams},
		{"zero params", "x", "$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA", false, config.ErrHashParams},
		{"bad salt", "x", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA", false, config.ErrHashFormat},
		{"empty key", "x", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$", false, config.ErrHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.VerifyPassword(tt.password, tt.hash)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCredentials(t *testing.T) {
	c, err := auth.ParseCredentials("  admin:$argon2id$v=19$m=65536,t=1,p=4$abc$def\n")
	require.NoError(t, err)
	assert.Equal(t, "admin", c.User)
	assert.Equal(t, "$argon2id$v=19$m=65536,t=1,p=4$abc$def", c.Hash)
	assert.Equal(t, "admin:$argon2id$v=19$m=65536,t=1,p=4$abc$def", c.String())

	for _, bad := range []string{"", "nocolon", ":hash", "user:"} {
		_, err := auth.ParseCredentials(bad)
		assert.EqualError(t, err, config.ErrAuthFileFormat, "input %q", bad)
	}
}

func TestCredentials_Check(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	c := auth.Credentials{User: "admin", Hash: hash}

	assert.True(t, c.Check("admin", "secret"))
	assert.False(t, c.Check("admin", "wrong"))
	assert.False(t, c.Check("other", "secret"))
	assert.False(t, auth.Credentials{User: "admin", Hash: "broken"}.Check("admin", "secret"))
}

func TestWriteFileAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.AuthFileName)

	require.NoError(t, auth.WriteFile(path, "admin", "secret", false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	c, err := auth.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.User)
	assert.True(t, c.Check("admin", "secret"))

	err = auth.WriteFile(path, "admin", "other", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrAuthFileExists)

	require.NoError(t, auth.WriteFile(path, "root", "other", true))
	c, err = auth.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, c.Check("root", "other"))
}

func TestWriteFile_Validation(t *testing.T) {
	dir := t.TempDir()

	assert.EqualError(t, auth.WriteFile(filepath.Join(dir, "a"), "", "pw", false), config.ErrUsernameEmpty)
	assert.EqualError(t, auth.WriteFile(filepath.Join(dir, "b"), "a:b", "pw", false), config.ErrAuthFileFormat)
	assert.EqualError(t, auth.WriteFile(filepath.Join(dir, "c"), "user", "", false), config.ErrPasswordEmpty)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := auth.LoadFile(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultPath_Env(t *testing.T) {
	t.Setenv(config.EnvAuthFile, "/tmp/custom.secret")
	p, err := auth.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.secret", p)
}
