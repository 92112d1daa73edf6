package extract

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "unicode/utf8"
)

const (
    MediaPlain = "text/plain"
    MediaHTML  = "text/html"
    MediaPDF   = "application/pdf"
    MediaDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

    // PDFPlaceholder and DOCXPlaceholder stand in for binary documents whose
    // text cannot be read yet.
    PDFPlaceholder  = "PDF content extraction requires additional setup. Please use text input for now or contact support."
    DOCXPlaceholder = "DOCX content extraction requires additional setup. Please use text input for now or contact support."
)

var (
    // ErrOutsideUploads rejects paths that escape the uploads directory.
    ErrOutsideUploads = errors.New("path escapes uploads directory")
    // ErrNotText rejects files that are neither valid UTF-8 nor a known format.
    ErrNotText = errors.New("file is not readable text")
)

// Extractor converts raw file bytes into a Document.
type Extractor interface {
    Extract(data []byte) Document
}

// PlainExtractor keeps the bytes as text.
type PlainExtractor struct{}

func (PlainExtractor) Extract(data []byte) Document { return Document{Text: string(data)} }

// HTMLExtractor applies FromHTML.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(data []byte) Document { return FromHTML(data) }

// Placeholder ignores the bytes and returns a fixed notice.
type Placeholder string

func (p Placeholder) Extract([]byte) Document { return Document{Text: string(p)} }

// For picks the extractor of a media type. Unknown and empty types are read
// as plain text.
func For(mediaType string) Extractor {
    mt := strings.ToLower(mediaType)
    switch {
    case strings.Contains(mt, MediaPDF):
        return Placeholder(PDFPlaceholder)
    case strings.Contains(mt, MediaDOCX):
        return Placeholder(DOCXPlaceholder)
    case strings.Contains(mt, MediaHTML), strings.Contains(mt, "application/xhtml"):
        return HTMLExtractor{}
    }
    return PlainExtractor{}
}

// ResolveUpload locates rel inside root. rel may be relative to root or an
// absolute path below it; anything resolving outside root is rejected.
func ResolveUpload(root string, rel string) (string, error) {
    if strings.TrimSpace(rel) == "" {
        return "", fmt.Errorf("%w: empty path", ErrOutsideUploads)
    }
    absRoot, err := filepath.Abs(root)
    if err != nil {
        return "", fmt.Errorf("uploads dir: %w", err)
    }
    p := filepath.Clean(rel)
    if !filepath.IsAbs(p) {
        p = filepath.Join(absRoot, p)
    }
    r, err := filepath.Rel(absRoot, p)
    if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
        return "", fmt.Errorf("%w: %q", ErrOutsideUploads, rel)
    }
    return p, nil
}

// FromUpload reads rel inside root and extracts its text according to
// mediaType.
func FromUpload(root string, rel string, mediaType string) (Document, error) {
    path, err := ResolveUpload(root, rel)
    if err != nil {
        return Document{}, err
    }
    ex := For(mediaType)
    if p, ok := ex.(Placeholder); ok {
        return p.Extract(nil), nil
    }
    data, err := os.ReadFile(path)
    if err != nil {
        return Document{}, fmt.Errorf("read upload: %w", err)
    }
    if _, plain := ex.(PlainExtractor); plain && !utf8.Valid(data) {
        return Document{}, fmt.Errorf("%w: %s", ErrNotText, filepath.Base(path))
    }
    return ex.Extract(data), nil
}
