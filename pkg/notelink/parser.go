package notelink

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/fretvault/api/pkg/slug"
)

// pattern matches a link at the reader position. Links never span lines.
var pattern = regexp.MustCompile(`^\[\[([^\[\]|\n]+)(?:\|([^\[\]\n]*))?\]\]`)

type inlineParser struct{}

func (p *inlineParser) Trigger() []byte { return []byte{'['} }

func (p *inlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	m := pattern.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	raw := strings.TrimSpace(string(line[m[2]:m[3]]))
	target := slug.Make(raw)
	if target == "" {
		return nil
	}
	label := raw
	if m[4] >= 0 {
		if l := strings.TrimSpace(string(line[m[4]:m[5]])); l != "" {
			label = l
		}
	}
	block.Advance(m[1])
	return &WikiLink{
		Target: target,
		Label:  label,
		Start:  seg.Start,
		Stop:   seg.Start + m[1],
	}
}
