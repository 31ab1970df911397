// Package fonts resolves handwriting-style fonts into reusable glyph
// faces.
//
// A font reference is either an explicit file path or a family name
// searched through the system font directories. When neither resolves,
// the library degrades to a built-in bitmap face so rendering always
// has something to draw with; the degradation is logged, not raised.
//
// Faces are cached per (source, size) and are not safe for concurrent
// use. The renderer draws one document at a time, which is the only
// consumer.
package fonts

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/th3400l/scrawl/pkg/errors"
)

// faceDPI fixes faces at 72 DPI so a point size equals a pixel size.
const faceDPI = 72

// handwritingCandidates are the family names tried, in order, when no
// explicit font is configured. The list mirrors the CSS fallback chain
// the web build of this renderer shipped with.
var handwritingCandidates = []string{
	"xkcd-script",
	"Comic Sans MS",
	"Bradley Hand",
	"Segoe Script",
}

type faceKey struct {
	source string
	size   float64
}

// Library loads, parses, and caches fonts and their faces.
type Library struct {
	Logger *log.Logger

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

// NewLibrary creates an empty font library.
func NewLibrary(logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{
		Logger: logger,
		fonts:  make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face resolves a font reference to a glyph face at the given pixel
// size.
//
// An explicit path that fails to load or parse is an error: the user
// named a specific file and silently substituting another font would
// hide the mistake. A family name that cannot be found only degrades:
// the candidates are searched and, failing those, the built-in bitmap
// face is returned.
func (l *Library) Face(ref string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFont, "font size must be positive, got %g", size)
	}

	if isPath(ref) {
		return l.faceFromPath(ref, size)
	}

	for _, name := range candidates(ref) {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		face, err := l.faceFromPath(path, size)
		if err != nil {
			l.Logger.Debug("font file unusable, trying next candidate", "font", name, "path", path, "error", err)
			continue
		}
		return face, nil
	}

	l.Logger.Warn("no handwriting font found, using builtin bitmap face", "ref", ref)
	return basicfont.Face7x13, nil
}

// Locate reports where a font reference resolves without building a
// face: the file path that would be used, or builtin=true when only the
// bitmap fallback is available.
func (l *Library) Locate(ref string) (path string, builtin bool) {
	if isPath(ref) {
		return ref, false
	}
	for _, name := range candidates(ref) {
		if p, err := findfont.Find(name); err == nil {
			return p, false
		}
	}
	return "", true
}

// Load reads and parses a TrueType font file, caching the parse.
func (l *Library) Load(path string) (*truetype.Font, error) {
	l.mu.Lock()
	if f, ok := l.fonts[path]; ok {
		l.mu.Unlock()
		return f, nil
	}
	l.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read font file %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font file %s", path)
	}

	l.mu.Lock()
	l.fonts[path] = f
	l.mu.Unlock()
	l.Logger.Debug("font loaded", "path", path, "bytes", len(data))
	return f, nil
}

func (l *Library) faceFromPath(path string, size float64) (font.Face, error) {
	key := faceKey{source: path, size: size}

	l.mu.Lock()
	if face, ok := l.faces[key]; ok {
		l.mu.Unlock()
		return face, nil
	}
	l.mu.Unlock()

	f, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     faceDPI,
		Hinting: font.HintingFull,
	})

	l.mu.Lock()
	l.faces[key] = face
	l.mu.Unlock()
	return face, nil
}

// candidates builds the search order for a family reference: the
// reference itself first when given, then the handwriting candidates.
func candidates(ref string) []string {
	if ref == "" {
		return handwritingCandidates
	}
	out := make([]string, 0, len(handwritingCandidates)+1)
	out = append(out, ref)
	for _, c := range handwritingCandidates {
		if !strings.EqualFold(c, ref) {
			out = append(out, c)
		}
	}
	return out
}

// isPath distinguishes file paths from family names. Anything with a
// path separator or a font file extension is treated as a path.
func isPath(ref string) bool {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.Contains(ref, "/") {
		return true
	}
	lower := strings.ToLower(ref)
	return strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
}
