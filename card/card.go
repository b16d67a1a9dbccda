// Package card renders a concept analysis as a standalone HTML card.
package card

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/conceptcard"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title></title>
<style>
body{margin:0;background:#0f172a;color:#cbd5e1;font-family:system-ui,sans-serif;line-height:1.6}
main{max-width:48rem;margin:0 auto;padding:2rem 1rem}
h1{color:#f8fafc;text-align:center}
section{background:#1e293b;border:1px solid #334155;border-radius:.75rem;padding:1.5rem;margin:1.5rem 0}
h2{color:#2dd4bf;margin-top:0}
h3{color:#22d3ee;margin:0 0 .5rem}
.subcard{background:rgba(30,41,59,.5);border:1px solid #334155;border-radius:.5rem;padding:1rem;margin-top:1rem}
footer{text-align:center;font-size:.875rem;color:#64748b}
</style>
</head>
<body>
<main class="card">
<header><h1 class="concept"></h1></header>
<section data-section="why"><h2></h2><div class="content"></div></section>
<section data-section="how"><h2></h2><div class="content"></div></section>
<section data-section="what"><h2></h2><div class="subsections"></div></section>
<footer><p class="provider"></p><p class="share"></p></footer>
</main>
</body>
</html>`

// Option configures rendering.
type Option func(*options)

type options struct {
	provider string
	shareURL string
}

// WithProvider shows which provider produced the analysis.
func WithProvider(name string) Option {
	return func(o *options) {
		o.provider = name
	}
}

// WithShareURL adds a link back to the shared card.
func WithShareURL(url string) Option {
	return func(o *options) {
		o.shareURL = url
	}
}

// Render produces the HTML card for state in the given locale.
func Render(state conceptcard.ShareableState, loc conceptcard.Locale, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		return "", &conceptcard.RenderError{Message: "failed to parse card template", Cause: err}
	}

	a := state.Analysis
	doc.Find("html").SetAttr("lang", loc.HTMLLang())
	doc.Find("title").SetText(state.Concept + " · Why / How / What")
	doc.Find("h1.concept").SetText(state.Concept)

	fillSection(doc.Find(`section[data-section="why"]`), a.Why, loc)
	fillSection(doc.Find(`section[data-section="how"]`), a.How, loc)

	what := doc.Find(`section[data-section="what"]`)
	what.Find("h2").SetText(a.What.Title.In(loc))
	subs := what.Find(".subsections")
	for _, sub := range []struct {
		name    string
		section conceptcard.Section
	}{
		{"coreComponents", a.What.CoreComponents},
		{"operatingMechanism", a.What.OperatingMechanism},
		{"applicationBoundaries", a.What.ApplicationBoundaries},
	} {
		subs.AppendNodes(subcard(sub.name, sub.section, loc))
	}

	footer := doc.Find("footer")
	if o.provider != "" {
		footer.Find(".provider").SetText(providerLine(loc, o.provider))
	} else {
		footer.Find(".provider").Remove()
	}
	if o.shareURL != "" {
		link := element(atom.A, "", html.Attribute{Key: "href", Val: o.shareURL})
		link.AppendChild(text(shareLabel(loc)))
		footer.Find(".share").AppendNodes(link)
	} else {
		footer.Find(".share").Remove()
	}

	out, err := doc.Html()
	if err != nil {
		return "", &conceptcard.RenderError{Message: "failed to serialize card", Cause: err}
	}
	return out, nil
}

func fillSection(sel *goquery.Selection, s conceptcard.Section, loc conceptcard.Locale) {
	sel.Find("h2").SetText(s.Title.In(loc))
	sel.Find(".content").AppendNodes(paragraphs(s.Content.In(loc))...)
}

func subcard(name string, s conceptcard.Section, loc conceptcard.Locale) *html.Node {
	div := element(atom.Div, "subcard", html.Attribute{Key: "data-section", Val: name})
	h3 := element(atom.H3, "")
	h3.AppendChild(text(s.Title.In(loc)))
	div.AppendChild(h3)

	content := element(atom.Div, "content")
	for _, p := range paragraphs(s.Content.In(loc)) {
		content.AppendChild(p)
	}
	div.AppendChild(content)
	return div
}

// paragraphs splits content on newlines into <p> nodes. Blank lines are
// dropped.
func paragraphs(content string) []*html.Node {
	var nodes []*html.Node
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p := element(atom.P, "")
		p.AppendChild(text(line))
		nodes = append(nodes, p)
	}
	return nodes
}

func element(a atom.Atom, class string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	n.Attr = append(n.Attr, attrs...)
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func providerLine(loc conceptcard.Locale, name string) string {
	if loc == conceptcard.LocaleChinese {
		return "由 " + name + " 生成"
	}
	return "Generated by " + name
}

func shareLabel(loc conceptcard.Locale) string {
	if loc == conceptcard.LocaleChinese {
		return "查看分享的卡片"
	}
	return "Open shared card"
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the download name for a concept's card, without
// extension: "why-how-what-" followed by the lower-cased concept with runs
// of whitespace replaced by hyphens.
func FileName(concept string) string {
	slug := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(concept)), "-")
	if slug == "" {
		slug = "concept"
	}
	return "why-how-what-" + slug
}
