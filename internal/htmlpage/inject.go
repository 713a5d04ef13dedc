// Package htmlpage serializes injected tags into an HTML document. It is the
// host-side collaborator of htmlinject: the pipeline decides which tags to
// produce, this package rewrites the page markup.
package htmlpage

import (
	"bytes"
	"sort"

	"golang.org/x/net/html"

	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
	"git.home.luguber.info/inful/spaforge/internal/htmlinject"
)

// Inject parses doc, appends the tags at the end of <head> in order, and
// serializes the document back. html.Parse synthesizes html/head/body for
// fragments, so even a bare page gets a head to inject into.
func Inject(doc []byte, tags []htmlinject.Tag) ([]byte, error) {
	if len(tags) == 0 {
		return doc, nil
	}

	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryTransform, serrors.SeverityFatal, "failed to parse HTML document")
	}

	head := findElement(root, "head")
	if head == nil {
		return nil, serrors.New(serrors.CategoryTransform, serrors.SeverityFatal, "document has no head element")
	}

	for _, tag := range tags {
		head.AppendChild(buildNode(tag))
	}

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryTransform, serrors.SeverityFatal, "failed to render HTML document")
	}
	return out.Bytes(), nil
}

// buildNode converts a Tag into an html.Node. Attributes are emitted in
// sorted key order so output is deterministic.
func buildNode(tag htmlinject.Tag) *html.Node {
	node := &html.Node{
		Type: html.ElementNode,
		Data: tag.Name,
	}

	keys := make([]string, 0, len(tag.Attrs))
	for k := range tag.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		node.Attr = append(node.Attr, html.Attribute{Key: k, Val: tag.Attrs[k]})
	}

	if tag.Children != "" {
		node.AppendChild(&html.Node{
			Type: html.TextNode,
			Data: tag.Children,
		})
	}

	return node
}

// findElement walks the tree depth-first for the first element with the given name.
func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
