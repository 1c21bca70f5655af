// Package notelink implements the [[slug]] internal-link syntax used in notes.
//
// Links are recognised by a goldmark inline parser registered ahead of the
// standard link parser, so code spans, fenced and indented code blocks,
// raw HTML and regular [text](url) links are never treated as internal links.
package notelink

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Link is one internal link occurrence.
type Link struct {
	Target string `json:"target"`
	Label  string `json:"label"`
	Start  int    `json:"start"`
	Stop   int    `json:"stop"`
}

// Resolver maps a link target to an href. ok=false marks the target missing.
type Resolver func(target string) (href string, ok bool)

// Extension registers the internal-link parser and its HTML renderer.
type Extension struct {
	Resolver Resolver
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		// ahead of the standard link parser (200)
		util.Prioritized(&inlineParser{}, 199),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&htmlRenderer{resolve: e.Resolver}, 199),
	))
}

var extractor = goldmark.New(goldmark.WithExtensions(extension.GFM, &Extension{}))

// Extract returns every internal link in src in document order.
func Extract(src []byte) []Link {
	doc := extractor.Parser().Parse(text.NewReader(src))
	var out []Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if wl, ok := n.(*WikiLink); ok {
			if insideLink(wl) {
				return ast.WalkSkipChildren, nil
			}
			out = append(out, Link{Target: wl.Target, Label: wl.Label, Start: wl.Start, Stop: wl.Stop})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// insideLink reports whether n sits in the label of a standard link or image.
// Such wiki links are treated as plain text, HTML does not allow nested anchors.
func insideLink(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *ast.Link, *ast.Image, *ast.AutoLink:
			return true
		}
	}
	return false
}

// Targets returns the distinct link targets of src, in first-seen order.
func Targets(src []byte) []string {
	links := Extract(src)
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if _, dup := seen[l.Target]; dup {
			continue
		}
		seen[l.Target] = struct{}{}
		out = append(out, l.Target)
	}
	return out
}

// Rewrite replaces the source span of every internal link with replace(link).
// Bytes outside link spans are copied unchanged.
func Rewrite(src []byte, replace func(Link) string) []byte {
	links := Extract(src)
	if len(links) == 0 {
		return append([]byte(nil), src...)
	}
	var buf bytes.Buffer
	buf.Grow(len(src))
	prev := 0
	for _, l := range links {
		buf.Write(src[prev:l.Start])
		buf.WriteString(replace(l))
		prev = l.Stop
	}
	buf.Write(src[prev:])
	return buf.Bytes()
}

// ToMarkdown rewrites internal links into standard markdown links. Targets
// the resolver cannot find are replaced by their label.
func ToMarkdown(src []byte, resolve Resolver) []byte {
	return Rewrite(src, func(l Link) string {
		if resolve != nil {
			if href, ok := resolve(l.Target); ok {
				return "[" + escapeLabel(l.Label) + "](" + href + ")"
			}
		}
		return l.Label
	})
}

func escapeLabel(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '[' || r == ']' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Render converts src to HTML. Resolved links become anchors, the rest
// become spans marked internal-link-missing.
func Render(src []byte, resolve Resolver) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, &Extension{Resolver: resolve}))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
