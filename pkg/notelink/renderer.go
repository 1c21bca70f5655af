package notelink

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type htmlRenderer struct {
	resolve Resolver
}

func (r *htmlRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikiLink, r.render)
}

func (r *htmlRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*WikiLink)
	if insideLink(n) {
		_, _ = w.Write(util.EscapeHTML([]byte(n.Label)))
		return ast.WalkSkipChildren, nil
	}
	href, ok := "", false
	if r.resolve != nil {
		href, ok = r.resolve(n.Target)
	}
	if ok {
		_, _ = w.WriteString(`<a class="internal-link" href="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(href), false)))
		_, _ = w.WriteString(`" data-slug="`)
	} else {
		_, _ = w.WriteString(`<span class="internal-link internal-link-missing" data-slug="`)
	}
	_, _ = w.Write(util.EscapeHTML([]byte(n.Target)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Label)))
	if ok {
		_, _ = w.WriteString(`</a>`)
	} else {
		_, _ = w.WriteString(`</span>`)
	}
	return ast.WalkSkipChildren, nil
}
