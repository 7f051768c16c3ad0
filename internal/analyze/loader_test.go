package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/game\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.go"), []byte(gameSrc), 0o644))

	files, diags, err := NewAnalyzer().WithDir(dir).LoadPackages("./...")
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "game", files[0].Package)
	assert.Equal(t, dir, files[0].Path)
	assert.Len(t, files[0].Types, 3)
	assert.Len(t, diags.Warnings, 1)
}

func TestAnalyzer_PackageErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/bad\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.go"), []byte("package bad\n\nvar x int = \"s\"\n"), 0o644))

	_, _, err := NewAnalyzer().WithDir(dir).LoadPackages("./...")
	assert.Error(t, err)
}
