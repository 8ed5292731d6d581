package metadata

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a metadata or values document originated so loaders
// can operate on files, fs.FS entries, or URLs without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseURLSource is the non-panicking variant of SourceFromURL.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("metadata: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("metadata: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// Document wraps a raw metadata or values payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("metadata: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("metadata: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Metadata decodes the document as connector metadata.
func (d Document) Metadata() (ComponentMetadata, error) {
	out, err := DecodeMetadata(d.raw)
	if err != nil {
		return ComponentMetadata{}, fmt.Errorf("%w (%s)", err, d.Location())
	}
	return out, nil
}

// Component decodes the document as a connector configuration.
func (d Document) Component() (Component, error) {
	out, err := DecodeComponent(d.raw)
	if err != nil {
		return Component{}, fmt.Errorf("%w (%s)", err, d.Location())
	}
	return out, nil
}
