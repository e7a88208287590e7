package bundler

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// renderHTML fills the %NAME% placeholders of the HTML template from env and
// injects a stylesheet link per style into <head> and a deferred script per
// script into <body>. Asset URLs are prefixed with publicPath.
func renderHTML(template []byte, env map[string]string, publicPath string, scripts, styles []string) ([]byte, error) {
	src := string(template)

	for key, value := range env {
		src = strings.ReplaceAll(src, "%"+key+"%", value)
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)

	if head == nil || body == nil {
		return nil, fmt.Errorf("html template has no head or body")
	}

	for _, href := range styles {
		head.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "link",
			DataAtom: atom.Link,
			Attr: []html.Attribute{
				{Key: "href", Val: publicPath + href},
				{Key: "rel", Val: "stylesheet"},
			},
		})
	}

	for _, s := range scripts {
		body.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "script",
			DataAtom: atom.Script,
			Attr: []html.Attribute{
				{Key: "defer"},
				{Key: "src", Val: publicPath + s},
			},
		})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}

	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}

	return nil
}
