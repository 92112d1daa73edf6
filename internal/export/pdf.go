// Package export renders study bundles for printing.
package export

import (
    "fmt"
    "io"
    "os"
    "strings"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/studysphere/internal/study"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// WriteBundlePDF renders b as an A4 study sheet: summary bullets, the quiz
// with lettered options, the explanation, and an answer key on the last
// lines.
func WriteBundlePDF(w io.Writer, title string, b study.Bundle) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.SetTitle(title, true)
    pdf.AddPage()

    if strings.TrimSpace(title) == "" {
        title = "Study Guide"
    }
    pdf.SetFont("Helvetica", "B", 16)
    pdf.MultiCell(0, 8, tr(title), "", "L", false)
    pdf.Ln(3)

    heading := func(s string) {
        pdf.Ln(2)
        pdf.SetFont("Helvetica", "B", 13)
        pdf.CellFormat(0, 8, tr(s), "", 1, "L", false, 0, "")
        pdf.SetFont("Helvetica", "", 11)
    }

    heading("Summary")
    for _, point := range b.Summary {
        pdf.MultiCell(0, 5, tr("• "+strings.TrimSpace(point)), "", "L", false)
    }

    heading("Quiz")
    for i, q := range b.Quiz {
        pdf.SetFont("Helvetica", "B", 11)
        pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)
        pdf.SetFont("Helvetica", "", 11)
        for j, opt := range q.Options {
            if j >= len(letters) {
                break
            }
            pdf.SetX(pdf.GetX() + 6)
            pdf.MultiCell(0, 5, tr(fmt.Sprintf("%c. %s", letters[j], opt)), "", "L", false)
        }
        pdf.Ln(2)
    }

    heading("Explanation")
    for _, para := range strings.Split(b.Explanation, "\n") {
        if strings.TrimSpace(para) == "" {
            pdf.Ln(3)
            continue
        }
        pdf.MultiCell(0, 5, tr(para), "", "L", false)
    }

    if len(b.Quiz) > 0 {
        heading("Answer key")
        keys := make([]string, 0, len(b.Quiz))
        for i, q := range b.Quiz {
            keys = append(keys, fmt.Sprintf("%d-%s", i+1, q.CorrectAnswer))
        }
        pdf.MultiCell(0, 5, strings.Join(keys, "   "), "", "L", false)
    }
    return pdf.Output(w)
}

// WriteBundlePDFFile writes the rendering of b to path.
func WriteBundlePDFFile(path string, title string, b study.Bundle) error {
    f, err := os.Create(path)
    if err != nil {
        return fmt.Errorf("create pdf: %w", err)
    }
    if err := WriteBundlePDF(f, title, b); err != nil {
        _ = f.Close()
        return fmt.Errorf("render pdf: %w", err)
    }
    return f.Close()
}
