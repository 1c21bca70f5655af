package notelink

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindWikiLink is the node kind of an internal link.
var KindWikiLink = ast.NewNodeKind("WikiLink")

// WikiLink is an inline AST node for [[target]] or [[target|label]].
// Start and Stop are byte offsets of the whole construct in the source.
type WikiLink struct {
	ast.BaseInline

	Target string
	Label  string
	Start  int
	Stop   int
}

func (n *WikiLink) Kind() ast.NodeKind { return KindWikiLink }

func (n *WikiLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target,
		"Label":  n.Label,
		"Start":  strconv.Itoa(n.Start),
		"Stop":   strconv.Itoa(n.Stop),
	}, nil)
}
