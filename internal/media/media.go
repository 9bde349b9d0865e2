package media

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"
)

const MaxSize = 100 * 1024 * 1024 // 100MB

var ErrInputRejected = errors.New("input rejected")

// AllowedExtensions lists the audio file types the picker accepts.
var AllowedExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".webm"}

var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
}

// File is a selected audio file. Title and Artist come from embedded tags and
// are empty when the file has none.
type File struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
	Title    string
	Artist   string
}

func (f File) SizeLabel() string {
	return fmt.Sprintf("%.2f MB", float64(f.Size)/1024/1024)
}

// Selector validates picked files. Size is advisory unless EnforceMaxSize is set.
type Selector struct {
	MaxSize        int64
	EnforceMaxSize bool
	Log            *slog.Logger
}

func NewSelector(log *slog.Logger) *Selector {
	return &Selector{MaxSize: MaxSize, Log: log}
}

func reject(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInputRejected, fmt.Sprintf(format, a...))
}

// IsAllowed reports whether path has one of the accepted audio extensions.
// PickerTypes returns AllowedExtensions in lower and upper case, for file
// browsers that match suffixes case-sensitively.
func PickerTypes() []string {
	types := make([]string, 0, 2*len(AllowedExtensions))
	for _, ext := range AllowedExtensions {
		types = append(types, ext, strings.ToUpper(ext))
	}
	return types
}

func IsAllowed(path string) bool {
	return slices.Contains(AllowedExtensions, strings.ToLower(filepath.Ext(path)))
}

// Limit is the size ceiling in bytes, MaxSize when unset.
func (s *Selector) Limit() int64 {
	if s.MaxSize <= 0 {
		return MaxSize
	}
	return s.MaxSize
}

// OpenMany accepts exactly one path.
func (s *Selector) OpenMany(paths []string) (File, error) {
	switch len(paths) {
	case 0:
		return File{}, reject("no file selected")
	case 1:
		return s.Open(paths[0])
	default:
		return File{}, reject("only one file can be transcribed at a time, got %d", len(paths))
	}
}

func (s *Selector) Open(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, reject("file '%s' does not exist", path)
		}
		return File{}, reject("cannot read '%s': %v", path, err)
	}
	if info.IsDir() {
		return File{}, reject("'%s' is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(AllowedExtensions, ext) {
		return File{}, reject("'%s' is not a supported audio file (%s)", filepath.Base(path), strings.Join(AllowedExtensions, ", "))
	}

	limit := s.Limit()
	if info.Size() > limit {
		if s.EnforceMaxSize {
			return File{}, reject("'%s' is larger than %d MB", filepath.Base(path), limit/1024/1024)
		}
		s.logger().Warn("selected file exceeds advisory size limit",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", limit))
	}

	f := File{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeTypes[ext],
	}
	s.readTags(&f)

	return f, nil
}

func (s *Selector) readTags(f *File) {
	r, err := os.Open(f.Path)
	if err != nil {
		s.logger().Debug("could not open file for tags", slog.String("file", f.Path), slog.String("error", err.Error()))
		return
	}
	defer r.Close()

	m, err := tag.ReadFrom(r)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			s.logger().Debug("could not read tags", slog.String("file", f.Path), slog.String("error", err.Error()))
		}
		return
	}

	f.Title = strings.TrimSpace(m.Title())
	f.Artist = strings.TrimSpace(m.Artist())
}

func (s *Selector) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
