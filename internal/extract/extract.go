// Package extract turns uploaded study material into plain text.
package extract

import (
    "bytes"
    "strings"

    "golang.org/x/net/html"
)

// Document is the text of one study file. Title is only known for HTML.
type Document struct {
    Title string
    Text  string
}

// FromHTML reads the study text of an HTML page. Content under <main> or
// <article> wins over <body>; scripts, navigation and page chrome are dropped.
// Block elements become line breaks so that headings survive as their own
// lines.
func FromHTML(input []byte) Document {
    root, err := html.Parse(bytes.NewReader(input))
    if err != nil || root == nil {
        return Document{}
    }
    var title string
    if head := findFirst(root, "head"); head != nil {
        if t := findFirst(head, "title"); t != nil && t.FirstChild != nil {
            title = strings.TrimSpace(t.FirstChild.Data)
        }
    }
    content := findFirst(root, "main")
    if content == nil {
        content = findFirst(root, "article")
    }
    if content == nil {
        content = findFirst(root, "body")
    }
    var b strings.Builder
    if content != nil {
        walk(&b, content, false)
    }
    return Document{Title: title, Text: tidy(b.String())}
}

func findFirst(n *html.Node, tag string) *html.Node {
    if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
        return n
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if found := findFirst(c, tag); found != nil {
            return found
        }
    }
    return nil
}

// skipped elements never contribute study text.
var skipped = map[string]bool{
    "script": true, "style": true, "noscript": true, "template": true,
    "nav": true, "footer": true, "aside": true, "iframe": true, "form": true,
}

func walk(b *strings.Builder, n *html.Node, pre bool) {
    var name string
    if n.Type == html.ElementNode {
        name = strings.ToLower(n.Data)
        if skipped[name] {
            return
        }
        switch name {
        case "pre":
            pre = true
            b.WriteString("\n")
        case "br", "hr", "p", "div", "section", "ul", "ol", "table", "blockquote",
            "h1", "h2", "h3", "h4", "h5", "h6":
            b.WriteString("\n")
        case "td", "th":
            b.WriteString(" ")
        }
    }
    if n.Type == html.TextNode {
        data := n.Data
        if !pre {
            data = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(data)
        }
        b.WriteString(data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        walk(b, c, pre)
    }
    switch name {
    case "p", "h1", "h2", "h3", "h4", "h5", "h6", "pre":
        b.WriteString("\n\n")
    case "li", "tr", "dt", "dd":
        b.WriteString("\n")
    }
}

// tidy trims lines, collapses runs of spaces and keeps at most one blank line
// in a row.
func tidy(s string) string {
    lines := strings.Split(s, "\n")
    out := make([]string, 0, len(lines))
    for _, line := range lines {
        line = strings.Join(strings.Fields(line), " ")
        if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
            continue
        }
        out = append(out, line)
    }
    for len(out) > 0 && out[len(out)-1] == "" {
        out = out[:len(out)-1]
    }
    return strings.Join(out, "\n")
}
