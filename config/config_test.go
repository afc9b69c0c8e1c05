package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	env := "JWT_SECRET=file-secret\nDB_URL=postgres://localhost/consult\nIMAGE_MAX_WIDTH=800\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, BackendPostgres, cfg.ArchiveBackend)
	assert.Equal(t, "./data", cfg.SnapshotDir)
	assert.Equal(t, "0 3 * * *", cfg.BackupCron)
	assert.Equal(t, 800, cfg.ImageMaxWidth)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=file\nDB_URL=x\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test,")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_URL", "postgres://x")
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate_Backends(t *testing.T) {
	cfg := Config{JWTSecret: "s", JWTExpiryHours: 1, ArchiveBackend: BackendFirestore, DBURL: "x"}
	assert.ErrorContains(t, cfg.Validate(), "FIRESTORE_PROJECT_ID")

	cfg.FirestoreProjectID = "consult-prod"
	assert.NoError(t, cfg.Validate())

	cfg.ArchiveBackend = "mongo"
	assert.Error(t, cfg.Validate())
}

func TestWarnings_PDFFont(t *testing.T) {
	cfg := Config{}
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "PDF_FONT_PATH not set")

	cfg.PDFFontPath = filepath.Join(t.TempDir(), "missing.ttf")
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "unreadable")

	font := filepath.Join(t.TempDir(), "NanumGothic.ttf")
	require.NoError(t, os.WriteFile(font, []byte("ttf"), 0o600))
	cfg.PDFFontPath = font
	assert.Empty(t, cfg.Warnings())
}
