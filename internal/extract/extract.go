// Package extract turns uploaded files into chat context. Each supported
// file type maps to one extractor; everything else is reported as
// unsupported rather than failing.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind discriminates the Content union.
type Kind int

const (
	// KindNone means the file type is not supported; no content was produced.
	KindNone Kind = iota
	// KindText is plain text extracted from a document.
	KindText
	// KindImage is a decoded raster image kept as its original bytes.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// Content is the result of extracting one uploaded file. Exactly one of the
// variants is populated, selected by Kind.
type Content struct {
	Kind Kind

	// Text holds extracted document text (KindText).
	Text string

	// Format, Data, Width and Height describe a decoded image (KindImage).
	// Data keeps the original encoded bytes so the image can be forwarded
	// to the model untouched.
	Format string
	Data   []byte
	Width  int
	Height int
}

type extractor func(data []byte) (Content, error)

// extractors is the closed dispatch table: lowercased extension → extractor.
// An extension missing from the table means "unsupported", never an error.
var extractors = map[string]extractor{
	".jpg":  decodeImage,
	".jpeg": decodeImage,
	".png":  decodeImage,
	".pdf":  extractPDF,
	".docx": extractDOCX,
	".pptx": extractPPTX,
	".xlsx": extractXLSX,
}

// Extract classifies filename by extension and runs the matching extractor
// over data. Unsupported extensions return Content{Kind: KindNone} and a nil
// error; extraction failures are returned as errors with the extension
// attached, leaving the caller free to surface them without aborting.
func Extract(filename string, data []byte) (Content, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	fn, ok := extractors[ext]
	if !ok {
		return Content{}, nil
	}
	c, err := fn(data)
	if err != nil {
		return Content{}, fmt.Errorf("extracting %s: %w", ext, err)
	}
	return c, nil
}

// Supported reports whether the given filename's extension has an extractor.
func Supported(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}
