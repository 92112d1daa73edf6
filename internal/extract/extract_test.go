package extract

import (
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestFromHTML_PrefersMainOverBody(t *testing.T) {
    page := `<!doctype html>
    <html>
      <head><title>Cell Biology</title></head>
      <body>
        <nav>Course menu</nav>
        <main>
          <h1>THE CELL</h1>
          <p>Cells are the   basic unit of life.</p>
        </main>
        <footer>Copyright</footer>
      </body>
    </html>`

    doc := FromHTML([]byte(page))
    if doc.Title != "Cell Biology" {
        t.Fatalf("title = %q", doc.Title)
    }
    if doc.Text != "THE CELL\n\nCells are the basic unit of life." {
        t.Fatalf("text = %q", doc.Text)
    }
}

func TestFromHTML_FallsBackToBodyAndKeepsLists(t *testing.T) {
    page := `<html><body>
      <h2>Mitosis</h2>
      <ul><li>Prophase</li><li>Metaphase</li></ul>
      <script>var x = 1;</script>
      <pre>step 1
step 2</pre>
    </body></html>`

    doc := FromHTML([]byte(page))
    for _, want := range []string{"Mitosis", "Prophase\nMetaphase", "step 1\nstep 2"} {
        if !strings.Contains(doc.Text, want) {
            t.Fatalf("text %q lacks %q", doc.Text, want)
        }
    }
    if strings.Contains(doc.Text, "var x") {
        t.Fatalf("script leaked into text: %q", doc.Text)
    }
}

func TestFor(t *testing.T) {
    cases := []struct {
        mediaType string
        want      Extractor
    }{
        {"", PlainExtractor{}},
        {"text/plain; charset=utf-8", PlainExtractor{}},
        {"text/html", HTMLExtractor{}},
        {"application/pdf", Placeholder(PDFPlaceholder)},
        {MediaDOCX, Placeholder(DOCXPlaceholder)},
        {"application/octet-stream", PlainExtractor{}},
    }
    for _, tc := range cases {
        if got := For(tc.mediaType); got != tc.want {
            t.Fatalf("For(%q) = %#v, want %#v", tc.mediaType, got, tc.want)
        }
    }
}

func TestResolveUpload_RejectsTraversal(t *testing.T) {
    root := t.TempDir()
    for _, rel := range []string{"../secret.txt", "a/../../secret.txt", "/etc/passwd", "", "."} {
        if _, err := ResolveUpload(root, rel); !errors.Is(err, ErrOutsideUploads) {
            t.Fatalf("ResolveUpload(%q) err = %v", rel, err)
        }
    }
    p, err := ResolveUpload(root, "notes/a.txt")
    if err != nil || p != filepath.Join(root, "notes", "a.txt") {
        t.Fatalf("ResolveUpload = %q, %v", p, err)
    }
    if _, err := ResolveUpload(root, filepath.Join(root, "b.txt")); err != nil {
        t.Fatalf("absolute path inside root rejected: %v", err)
    }
}

func TestFromUpload(t *testing.T) {
    root := t.TempDir()
    if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("Plain notes\nLine two"), 0o644); err != nil {
        t.Fatal(err)
    }
    if err := os.WriteFile(filepath.Join(root, "page.html"), []byte("<html><head><title>T</title></head><body><p>Hi</p></body></html>"), 0o644); err != nil {
        t.Fatal(err)
    }
    if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
        t.Fatal(err)
    }

    doc, err := FromUpload(root, "notes.txt", "text/plain")
    if err != nil || doc.Text != "Plain notes\nLine two" {
        t.Fatalf("plain: %+v, %v", doc, err)
    }
    doc, err = FromUpload(root, "page.html", "text/html")
    if err != nil || doc.Text != "Hi" || doc.Title != "T" {
        t.Fatalf("html: %+v, %v", doc, err)
    }
    doc, err = FromUpload(root, "missing.pdf", MediaPDF)
    if err != nil || doc.Text != PDFPlaceholder {
        t.Fatalf("pdf: %+v, %v", doc, err)
    }
    if _, err := FromUpload(root, "missing.txt", ""); err == nil {
        t.Fatalf("missing file should fail")
    }
    if _, err := FromUpload(root, "blob.bin", ""); !errors.Is(err, ErrNotText) {
        t.Fatalf("binary: %v", err)
    }
    if _, err := FromUpload(root, "../notes.txt", ""); !errors.Is(err, ErrOutsideUploads) {
        t.Fatalf("traversal: %v", err)
    }
    // Placeholder types still resolve the path first.
    for _, mt := range []string{MediaPDF, MediaDOCX} {
        if _, err := FromUpload(root, "../../etc/x", mt); !errors.Is(err, ErrOutsideUploads) {
            t.Fatalf("%s traversal: %v", mt, err)
        }
    }
}
