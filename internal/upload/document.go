package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxDocumentSize is the largest accepted upload, 5 MiB.
const MaxDocumentSize = 5 * 1024 * 1024

const (
	MediaPDF  = "application/pdf"
	MediaText = "text/plain"
	MediaDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	mediaZip = "application/zip"
)

// AcceptedMediaTypes lists the document kinds the service can parse.
var AcceptedMediaTypes = []string{MediaPDF, MediaText, MediaDOCX}

// Document is a resume candidate for upload. It satisfies analyzer.Document.
type Document struct {
	name      string
	mediaType string
	size      int64
	open      func() (io.ReadCloser, error)
}

// NewDocument describes a document whose media type is already known.
func NewDocument(name, mediaType string, size int64, open func() (io.ReadCloser, error)) *Document {
	return &Document{
		name:      name,
		mediaType: mediaType,
		size:      size,
		open:      open,
	}
}

// FromBytes sniffs the media type of an in-memory document.
func FromBytes(name string, data []byte) *Document {
	return &Document{
		name:      filepath.Base(name),
		mediaType: normalizeMediaType(mimetype.Detect(data), name),
		size:      int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromFile sniffs the media type of a file on disk. The content is read again on
// every Open, so a failed submission can be retried with the same document.
func FromFile(path string) (*Document, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting media type of %s: %w", path, err)
	}

	return &Document{
		name:      filepath.Base(path),
		mediaType: normalizeMediaType(detected, path),
		size:      stat.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func (d *Document) Name() string      { return d.name }
func (d *Document) MediaType() string { return d.mediaType }
func (d *Document) Size() int64       { return d.size }

func (d *Document) Open() (io.ReadCloser, error) {
	if d.open == nil {
		return nil, fmt.Errorf("document %s has no content", d.name)
	}
	return d.open()
}

// normalizeMediaType reduces a detected type to one of the accepted kinds when it
// matches, dropping parameters such as charset. Some DOCX files are only detected
// as a generic zip archive, and text that happens to look like CSV, JSON or HTML
// is detected as a subtype of text/plain; the extension settles both.
func normalizeMediaType(detected *mimetype.MIME, name string) string {
	for _, accepted := range AcceptedMediaTypes {
		if detected.Is(accepted) {
			return accepted
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".docx" && detected.Is(mediaZip):
		return MediaDOCX
	case ext == ".txt" && isText(detected):
		return MediaText
	}

	return strings.TrimSpace(strings.SplitN(detected.String(), ";", 2)[0])
}

// isText reports whether text/plain is among the ancestors of detected.
func isText(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(MediaText) {
			return true
		}
	}
	return false
}

func accepted(mediaType string) bool {
	for _, kind := range AcceptedMediaTypes {
		if kind == mediaType {
			return true
		}
	}
	return false
}
