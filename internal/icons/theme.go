// Package icons resolves freedesktop icon-theme files without a toolkit.
// The adapter uses it to fill in cover art for songs that ship without any:
// some shell applets render a broken image when mpris:artUrl is absent, so a
// themed generic-audio icon is served instead.
package icons

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// genericAudioIcon is the freedesktop MIME-type icon name for audio files.
const genericAudioIcon = "audio-x-generic"

// placeholderURI is returned when no theme provides the icon. It points at
// the hicolor location every compliant distribution installs, so consumers
// always receive a stable URI even on a miss.
const placeholderURI = "file:///usr/share/icons/hicolor/scalable/mimetypes/audio-x-generic.svg"

// scalableScore ranks scalable variants above any fixed raster size.
const scalableScore = 1 << 20

// Resolver finds themed icon files across the XDG data directories. Lookups
// are cached; icon themes do not change while the daemon runs.
type Resolver struct {
	theme    string
	dataDirs []string
	logger   *log.Logger

	mu       sync.Mutex
	cached   string
	resolved bool
}

// NewResolver creates a resolver for the named theme. An empty theme falls
// back to hicolor only. Data directories follow the XDG base-directory
// spec: $XDG_DATA_HOME (default ~/.local/share) then $XDG_DATA_DIRS
// (default /usr/local/share:/usr/share).
func NewResolver(theme string, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		theme:    theme,
		dataDirs: xdgDataDirs(),
		logger:   logger,
	}
}

// NewResolverWithDirs is NewResolver with explicit data directories.
func NewResolverWithDirs(theme string, dataDirs []string, logger *log.Logger) *Resolver {
	r := NewResolver(theme, logger)
	r.dataDirs = dataDirs
	return r
}

func xdgDataDirs() []string {
	var dirs []string
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		dirs = append(dirs, home)
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share"))
	}
	system := os.Getenv("XDG_DATA_DIRS")
	if system == "" {
		system = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(system, ":") {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// GenericAudioArt returns a file:// URI for the themed generic-audio icon,
// preferring a scalable variant and otherwise the largest raster. The first
// resolution is cached. On a miss a deterministic placeholder URI is
// returned.
func (r *Resolver) GenericAudioArt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.cached
	}

	themes := []string{r.theme, "hicolor"}
	for _, theme := range themes {
		if theme == "" {
			continue
		}
		for _, dir := range r.dataDirs {
			if path := bestIcon(filepath.Join(dir, "icons", theme), genericAudioIcon); path != "" {
				r.cached = "file://" + path
				r.resolved = true
				return r.cached
			}
		}
	}

	r.logger.Printf("ICONS: %s not found in any theme, using placeholder", genericAudioIcon)
	r.cached = placeholderURI
	r.resolved = true
	return r.cached
}

// bestIcon walks one theme directory for files named after the icon and
// returns the highest-ranked match.
func bestIcon(themeDir, name string) string {
	best := ""
	bestScore := -1

	filepath.WalkDir(themeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		base := d.Name()
		ext := filepath.Ext(base)
		if strings.TrimSuffix(base, ext) != name {
			return nil
		}
		switch ext {
		case ".svg", ".png", ".xpm":
		default:
			return nil
		}
		if score := variantScore(themeDir, path); score > bestScore {
			best, bestScore = path, score
		}
		return nil
	})

	return best
}

// variantScore ranks an icon file by the size component of its path inside
// the theme: scalable beats every raster, larger rasters beat smaller ones.
// Themes lay directories out as either size/context or context/size, so
// every component is inspected.
func variantScore(themeDir, path string) int {
	rel, err := filepath.Rel(themeDir, path)
	if err != nil {
		return 0
	}
	score := 0
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part == "scalable" {
			return scalableScore
		}
		if size := parseSize(part); size > score {
			score = size
		}
	}
	return score
}

// parseSize reads a directory component like "48x48" or "512" as a pixel
// size, returning 0 when the component is not a size at all.
func parseSize(part string) int {
	if i := strings.IndexByte(part, 'x'); i > 0 {
		part = part[:i]
	}
	n, err := strconv.Atoi(part)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
