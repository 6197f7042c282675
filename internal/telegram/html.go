package telegram

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ConvertHTML reduces rich-text editor output to the HTML subset Telegram
// accepts (<b> <i> <u> <s> <a> <code> <pre>). Block elements become newline
// terminated text, list items get a bullet, blockquote lines a "> " prefix,
// and anything unsupported is unwrapped keeping its children. Runs of three
// or more newlines collapse to two; leading/trailing whitespace survives
// unless the whole result is blank.
func ConvertHTML(input string) string {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		// On a parse failure fall back to the escaped raw text.
		return stdhtml.EscapeString(input)
	}

	body := findBody(doc)
	if body == nil {
		return stdhtml.EscapeString(input)
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		renderNode(&b, c)
	}

	out := collapseNewlines.ReplaceAllString(b.String(), "\n\n")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out
}

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(stdhtml.EscapeString(n.Data))
	case html.ElementNode:
		renderElement(b, n)
	}
	// Comments, doctypes and the rest produce nothing.
}

func renderElement(b *strings.Builder, n *html.Node) {
	switch n.Data {
	case "b", "strong":
		wrap(b, n, "b")
	case "i", "em":
		wrap(b, n, "i")
	case "u", "ins":
		wrap(b, n, "u")
	case "s", "strike", "del":
		wrap(b, n, "s")
	case "code":
		wrap(b, n, "code")
	case "pre":
		wrap(b, n, "pre")
	case "a":
		href := attr(n, "href")
		if href == "" {
			renderChildren(b, n)
			return
		}
		b.WriteString(`<a href="` + stdhtml.EscapeString(href) + `">`)
		renderChildren(b, n)
		b.WriteString("</a>")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		inner := childrenString(n)
		if inner != "" {
			b.WriteString("<b>" + inner + "</b>")
		}
		b.WriteString("\n")
	case "p", "div":
		// An empty paragraph is an intentional blank line.
		renderChildren(b, n)
		b.WriteString("\n")
	case "br":
		b.WriteString("\n")
	case "li":
		b.WriteString("• ")
		renderChildren(b, n)
		b.WriteString("\n")
	case "blockquote":
		inner := strings.TrimRight(childrenString(n), "\n")
		for _, line := range strings.Split(inner, "\n") {
			b.WriteString("> " + line + "\n")
		}
	default:
		// head/script metadata never reaches here because parsing puts it
		// outside body; everything else is unwrapped.
		renderChildren(b, n)
	}
}

func wrap(b *strings.Builder, n *html.Node, tag string) {
	b.WriteString("<" + tag + ">")
	renderChildren(b, n)
	b.WriteString("</" + tag + ">")
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
}

func childrenString(n *html.Node) string {
	var b strings.Builder
	renderChildren(&b, n)
	return b.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
