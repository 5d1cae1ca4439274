package sitepackages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const djangoMetadata = `Metadata-Version: 2.1
Name: Django
Version: 5.0.9
Summary: A high-level Python web framework.
Requires-Dist: asgiref<4,>=3.7.0
Requires-Dist: sqlparse>=0.3.1
Requires-Dist: argon2-cffi>=19.1.0; extra == "argon2"
Provides-Extra: argon2

Django is a high-level Python web framework...
Name: NotAHeaderAnymore
`

func TestParseMetadata(t *testing.T) {
	m := parseMetadata([]byte(djangoMetadata))

	assert.Equal(t, "django", m.Name)
	assert.Equal(t, "5.0.9", m.Version)
	assert.Equal(t, "A high-level Python web framework.", m.Summary)
	assert.Equal(t, []string{
		"asgiref<4,>=3.7.0",
		"sqlparse>=0.3.1",
		`argon2-cffi>=19.1.0; extra == "argon2"`,
	}, m.RequiresDist)
	assert.Equal(t, []string{"argon2"}, m.ProvidesExtra)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	distInfo := filepath.Join(dir, "Django-5.0.9.dist-info")
	require.NoError(t, os.MkdirAll(distInfo, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(distInfo, "METADATA"), []byte(djangoMetadata), 0644))

	// A dist-info dir without METADATA is skipped, not fatal.
	broken := filepath.Join(dir, "broken-1.0.dist-info")
	require.NoError(t, os.MkdirAll(broken, 0755))

	// Unrelated directories are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "django"), 0755))

	meta, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "5.0.9", meta["django"].Version)
}

func TestLocate(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(venv, "pyvenv.cfg"),
		[]byte("home = /usr/bin\nversion = 3.12.4\n"), 0644))
	sitePackages := filepath.Join(venv, "lib", "python3.12", "site-packages")
	require.NoError(t, os.MkdirAll(sitePackages, 0755))

	dir, err := Locate(filepath.Join(venv, "bin", "python"))
	require.NoError(t, err)
	assert.Equal(t, sitePackages, dir)
}

func TestLocateNoVenv(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(filepath.Join(dir, "bin", "python"))
	assert.Error(t, err)
}

func TestLocateNoVersionEntry(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(venv, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0644))

	_, err := Locate(filepath.Join(venv, "bin", "python"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}
