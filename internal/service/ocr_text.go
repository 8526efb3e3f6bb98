package service

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

var (
	spaceBeforeNewline = regexp.MustCompile(`[ \t]+\n`)
	spaceAfterNewline  = regexp.MustCompile(`\n[ \t]+`)
	repeatedSpaces     = regexp.MustCompile(`[ \t]{2,}`)
	extraBlankLines    = regexp.MustCompile(`\n{3,}`)
)

// chunkTags are the elements whose text becomes one output chunk each.
var chunkTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"p": true, "header": true, "footer": true,
	"caption": true, "figure": true, "table": true,
}

// ExtractOCRText flattens a document-parse response into plain text. The
// markup is taken from content.html, or from the concatenated
// elements[].content.html when the former is missing.
func ExtractOCRText(raw []byte) string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return ""
	}
	doc := gjson.ParseBytes(raw)

	markup := ""
	if h := doc.Get("content.html"); h.Type == gjson.String {
		markup = h.String()
	}
	if markup == "" {
		var parts []string
		doc.Get("elements").ForEach(func(_, el gjson.Result) bool {
			if h := el.Get("content.html"); h.Type == gjson.String && h.String() != "" {
				parts = append(parts, h.String())
			}
			return true
		})
		markup = strings.Join(parts, "\n")
	}
	if markup == "" {
		return ""
	}
	return htmlToText(markup)
}

// voidTags never carry children, so they are not pushed on the open stack.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

func htmlToText(markup string) string {
	root := parseMarkup(markup)

	var chunks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && chunkTags[n.Data] {
			var t string
			if n.Data == "table" {
				t = tableText(n)
			} else {
				t = nodeText(n)
			}
			if t != "" {
				chunks = append(chunks, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(chunks) == 0 {
		return normalizeOCRText(strings.Join(textNodes(root), "\n"))
	}
	return normalizeOCRText(strings.Join(chunks, "\n"))
}

// parseMarkup builds a node tree straight from the token stream. html.Parse
// drops <caption>, <tr> and <td> found outside a <table>, and OCR elements
// arrive as exactly such fragments. Unmatched end tags are ignored.
func parseMarkup(markup string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	open := []*html.Node{root}
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return root
		}
		tok := z.Token()
		top := open[len(open)-1]

		switch tt {
		case html.TextToken:
			top.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Data})
		case html.StartTagToken, html.SelfClosingTagToken:
			n := &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}
			top.AppendChild(n)
			if tt == html.StartTagToken && !voidTags[tok.Data] {
				open = append(open, n)
			}
		case html.EndTagToken:
			for i := len(open) - 1; i > 0; i-- {
				if open[i].Data == tok.Data {
					open = open[:i]
					break
				}
			}
		}
	}
}

// nodeText joins the stripped text under n with spaces, collapsing runs of
// whitespace. <br> only separates words.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.ElementNode && n.Data == "br":
			parts = append(parts, "\n")
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// tableText renders one line per row with cells separated by tabs.
func tableText(table *html.Node) string {
	var rows []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, nodeText(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, "\t"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return strings.TrimSpace(strings.Join(rows, "\n"))
}

func textNodes(root *html.Node) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func normalizeOCRText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceBeforeNewline.ReplaceAllString(s, "\n")
	s = spaceAfterNewline.ReplaceAllString(s, "\n")
	s = repeatedSpaces.ReplaceAllString(s, " ")
	s = extraBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
