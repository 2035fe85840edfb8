package table

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps file extensions to codecs.
type Registry interface {
	// Register adds a codec for an extension such as ".csv"
	Register(ext string, codec Codec) error
	// Lookup returns the codec for a path based on its extension
	Lookup(path string) (Codec, error)
	// ListFormats returns the registered extensions
	ListFormats() []string
}

type registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

func NewRegistry() Registry {
	return &registry{
		codecs: make(map[string]Codec),
	}
}

// DefaultRegistry knows CSV and Excel workbooks.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(".csv", CSVCodec{})
	_ = r.Register(".xlsx", ExcelCodec{})
	return r
}

func (r *registry) Register(ext string, codec Codec) error {
	if ext == "" {
		return fmt.Errorf("extension cannot be empty")
	}
	if codec == nil {
		return fmt.Errorf("codec cannot be nil")
	}

	ext = strings.ToLower(ext)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[ext]; exists {
		return fmt.Errorf("format %q is already registered", ext)
	}

	r.codecs[ext] = codec
	return nil
}

func (r *registry) Lookup(path string) (Codec, error) {
	ext := extension(path)

	r.mu.RLock()
	codec, exists := r.codecs[ext]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q (supported formats: %s)",
			ErrUnsupportedFormat, ext, strings.Join(r.ListFormats(), ", "))
	}
	return codec, nil
}

func (r *registry) ListFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}
