package icons

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeIcon(t *testing.T, dataDir, theme, sizeDir, name string) string {
	t.Helper()
	dir := filepath.Join(dataDir, "icons", theme, sizeDir, "mimetypes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("icon"), 0o644))
	return path
}

func newTestResolver(theme string, dataDirs ...string) *Resolver {
	return NewResolverWithDirs(theme, dataDirs, log.New(io.Discard, "", 0))
}

func TestScalablePreferredOverRaster(t *testing.T) {
	dataDir := t.TempDir()
	writeIcon(t, dataDir, "Adwaita", "512x512", "audio-x-generic.png")
	svg := writeIcon(t, dataDir, "Adwaita", "scalable", "audio-x-generic.svg")
	writeIcon(t, dataDir, "Adwaita", "48x48", "audio-x-generic.png")

	r := newTestResolver("Adwaita", dataDir)
	require.Equal(t, "file://"+svg, r.GenericAudioArt())
}

func TestLargestRasterWhenNoScalable(t *testing.T) {
	dataDir := t.TempDir()
	writeIcon(t, dataDir, "Adwaita", "48x48", "audio-x-generic.png")
	big := writeIcon(t, dataDir, "Adwaita", "256x256", "audio-x-generic.png")
	writeIcon(t, dataDir, "Adwaita", "16x16", "audio-x-generic.png")

	r := newTestResolver("Adwaita", dataDir)
	require.Equal(t, "file://"+big, r.GenericAudioArt())
}

func TestHicolorFallbackWhenThemeMisses(t *testing.T) {
	dataDir := t.TempDir()
	icon := writeIcon(t, dataDir, "hicolor", "48x48", "audio-x-generic.png")

	r := newTestResolver("Adwaita", dataDir)
	require.Equal(t, "file://"+icon, r.GenericAudioArt())
}

func TestDataDirOrderWins(t *testing.T) {
	userDir := t.TempDir()
	systemDir := t.TempDir()
	userIcon := writeIcon(t, userDir, "hicolor", "48x48", "audio-x-generic.png")
	writeIcon(t, systemDir, "hicolor", "512x512", "audio-x-generic.png")

	r := newTestResolver("", userDir, systemDir)
	require.Equal(t, "file://"+userIcon, r.GenericAudioArt())
}

func TestPlaceholderOnMiss(t *testing.T) {
	r := newTestResolver("Adwaita", t.TempDir())
	require.Equal(t, placeholderURI, r.GenericAudioArt())
}

func TestResolutionIsCached(t *testing.T) {
	dataDir := t.TempDir()
	icon := writeIcon(t, dataDir, "hicolor", "48x48", "audio-x-generic.png")

	r := newTestResolver("", dataDir)
	require.Equal(t, "file://"+icon, r.GenericAudioArt())

	// Removing the file after the first lookup does not change the answer.
	require.NoError(t, os.Remove(icon))
	require.Equal(t, "file://"+icon, r.GenericAudioArt())
}

func TestIgnoresOtherIconsAndExtensions(t *testing.T) {
	dataDir := t.TempDir()
	writeIcon(t, dataDir, "hicolor", "48x48", "audio-x-generic.ico")
	writeIcon(t, dataDir, "hicolor", "48x48", "video-x-generic.png")

	r := newTestResolver("", dataDir)
	require.Equal(t, placeholderURI, r.GenericAudioArt())
}
