package budget

import "strings"

const (
    // contentMarginTokens is held back from every content allowance to cover
    // the "Content:" label and estimator drift.
    contentMarginTokens = 50

    entryDelimiter = "\n\n---\n\n"
    noSummary      = "No summary available"
    ellipsis       = "..."
)

// Document is one study file offered as chat context. Empty Summary or
// Content means the field is absent.
type Document struct {
    Name    string `json:"name"`
    Summary string `json:"summary,omitempty"`
    Content string `json:"content,omitempty"`
}

// Allocate assembles a context string from docs without exceeding maxTokens
// as measured by EstimateTokens. Documents are taken strictly in order; each
// contributes its summary first and then as much content as the remaining
// budget allows. Processing stops at the first document that does not fit.
func Allocate(docs []Document, maxTokens int) string {
    if len(docs) == 0 || maxTokens <= 0 {
        return ""
    }
    used := 0
    var sb strings.Builder
    for _, doc := range docs {
        block := renderBlock(doc, maxTokens-used)
        prefix := ""
        if sb.Len() > 0 {
            prefix = entryDelimiter
        }
        cost := EstimateTokens(prefix + block)
        if used+cost > maxTokens {
            break
        }
        sb.WriteString(prefix)
        sb.WriteString(block)
        used += cost
    }
    return sb.String()
}

// renderBlock formats one document given the tokens still available.
func renderBlock(doc Document, available int) string {
    summary := doc.Summary
    if summary == "" {
        summary = noSummary
    }
    block := "Document: " + doc.Name + "\nSummary: " + summary
    if doc.Content == "" {
        return block
    }
    head := EstimateTokens(block)
    if head >= available {
        return block
    }
    allowance := available - head - contentMarginTokens
    if allowance <= 0 {
        return block
    }
    content := truncateContent(doc.Content, allowance*4)
    if content == "" {
        return block
    }
    return block + "\nContent: " + content
}

// truncateContent returns content unchanged when it fits maxChars bytes,
// otherwise a rune-safe prefix followed by an ellipsis whose total length
// stays within maxChars.
func truncateContent(content string, maxChars int) string {
    if len(content) <= maxChars {
        return content
    }
    if maxChars <= len(ellipsis) {
        return ""
    }
    cut := trimByByteLimitPreservingRunes(content, maxChars-len(ellipsis))
    if cut == "" {
        return ""
    }
    return cut + ellipsis
}

// trimByByteLimitPreservingRunes returns a prefix of s whose byte length is
// <= maxBytes, never splitting a UTF-8 rune. If maxBytes >= len(s) it returns s.
func trimByByteLimitPreservingRunes(s string, maxBytes int) string {
    if maxBytes >= len(s) {
        return s
    }
    if maxBytes <= 0 || len(s) == 0 {
        return ""
    }
    // idx tracks the last rune boundary that keeps the prefix within maxBytes.
    idx := 0
    for i := range s {
        if i > maxBytes {
            break
        }
        idx = i
    }
    return s[:idx]
}
