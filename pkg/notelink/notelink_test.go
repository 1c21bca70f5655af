package notelink

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Target)
	}
	return out
}

func TestExtract_PlainLinks(t *testing.T) {
	src := []byte("Warm up with [[Chromatic Runs]] and then [[blues-scale|the blues scale]].")

	links := Extract(src)

	require.Len(t, links, 2)
	assert.Equal(t, Link{Target: "chromatic-runs", Label: "Chromatic Runs", Start: 13, Stop: 31}, links[0])
	assert.Equal(t, "blues-scale", links[1].Target)
	assert.Equal(t, "the blues scale", links[1].Label)
	assert.Equal(t, "[[blues-scale|the blues scale]]", string(src[links[1].Start:links[1].Stop]))
}

func TestExtract_IgnoresStandardLinks(t *testing.T) {
	src := []byte("See [slug](https://example.com/slug) and [[real]].")

	assert.Equal(t, []string{"real"}, targets(Extract(src)))
}

func TestExtract_SkipsLinksInsideStandardLinkLabels(t *testing.T) {
	src := []byte("[see [[a]]](http://x) but [[b]] counts.")

	assert.Equal(t, []string{"b"}, targets(Extract(src)))
	assert.Equal(t, "[see [[a]]](http://x) but [b](/n) counts.",
		string(ToMarkdown(src, func(string) (string, bool) { return "/n", true })))
}

func TestRender_NoNestedAnchors(t *testing.T) {
	resolve := func(slug string) (string, bool) { return "/notes/" + slug, true }

	out, err := Render([]byte("[see [[a]]](http://x)"), resolve)
	require.NoError(t, err)

	assert.Equal(t, "<p><a href=\"http://x\">see a</a></p>\n", string(out))
}

func TestExtract_IgnoresCode(t *testing.T) {
	src := []byte("Inline `[[not-me]]` here.\n\n```\n[[fenced]]\n```\n\n    [[indented]]\n\nBut [[yes]] counts.\n")

	assert.Equal(t, []string{"yes"}, targets(Extract(src)))
}

func TestExtract_RejectsMalformed(t *testing.T) {
	cases := []string{
		"[[]]",
		"[[ ]]",
		"[[!!!]]",
		"[[unterminated",
		"[[split\nacross]]",
		"[single]",
	}
	for _, c := range cases {
		assert.Empty(t, Extract([]byte(c)), "input %q", c)
	}
}

func TestExtract_InsideListsAndHeadings(t *testing.T) {
	src := []byte("# Plan for [[Week 1]]\n\n- [[Alternate Picking]]\n- nothing\n\n> quoted [[Legato]]\n")

	assert.Equal(t, []string{"week-1", "alternate-picking", "legato"}, targets(Extract(src)))
}

func TestTargets_Dedupes(t *testing.T) {
	src := []byte("[[A]] [[b]] [[a|again]]")

	assert.Equal(t, []string{"a", "b"}, Targets(src))
}

func TestRewrite_SplicesSpans(t *testing.T) {
	src := []byte("x [[One]] y `[[two]]` z [[Three|3]]")

	out := Rewrite(src, func(l Link) string { return "<" + l.Target + ">" })

	assert.Equal(t, "x <one> y `[[two]]` z <three>", string(out))
}

func TestRewrite_NoLinksCopies(t *testing.T) {
	src := []byte("nothing to see")
	out := Rewrite(src, func(Link) string { return "!" })

	assert.Equal(t, src, out)
	out[0] = 'N'
	assert.Equal(t, byte('n'), src[0])
}

func TestToMarkdown(t *testing.T) {
	resolve := func(target string) (string, bool) {
		if target == "known" {
			return "/notes/known", true
		}
		return "", false
	}
	src := []byte("[[Known|the known one]] and [[Unknown]]")
	assert.Equal(t, "[the known one](/notes/known) and Unknown", string(ToMarkdown(src, resolve)))
}

func TestRender_Golden(t *testing.T) {
	src := []byte("# Riffs\n\nPractice [[Blues Scale]] then [[missing-note|that one]].\n\nSee [docs](https://example.com/x).\n\n`[[not-a-link]]`\n\n```text\n[[also-not]]\n```\n")
	resolve := func(target string) (string, bool) {
		if target == "blues-scale" {
			return "/workspaces/ws1/notes/blues-scale", true
		}
		return "", false
	}

	out, err := Render(src, resolve)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "render_basic", out)
}

func TestToMarkdown_EscapesBrackets(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeLabel(`a\b`))
	assert.Equal(t, `\[x\]`, escapeLabel("[x]"))
}

func TestRender_EscapesLabels(t *testing.T) {
	out, err := Render([]byte("[[x|<b>bold</b>]]"), nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, string(out), "internal-link-missing")
}
