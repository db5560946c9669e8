package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/bill-comb/app/bill"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders bills as an RSS 2.0 document.
func (g *Generator) Run(channel Channel, bills []bill.Bill) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(channel.Title, channel.Name), 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, fmt.Sprintf("Bills from %s", channel.Name)), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	var lastBuildDate time.Time
	for _, b := range bills {
		if b.PubDateKnown() && b.PubDate().After(lastBuildDate) {
			lastBuildDate = b.PubDate()
		}
	}
	if lastBuildDate.IsZero() {
		lastBuildDate = time.Now().In(time.Local)
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	for _, b := range bills {
		g.writeItem(&buf, b)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, b bill.Bill) {
	buf.WriteString("    <item>\n")

	guid := cmp.Or(b.Link(), b.BillNumber())
	if guid != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
		xml.EscapeText(buf, []byte(guid))
		buf.WriteString("</guid>\n")
	}

	title := b.Title()
	if b.BillNumber() != "" {
		title = strings.TrimSpace(b.BillNumber() + " " + title)
	}
	g.writeElement(buf, "title", title, 6)
	g.writeElement(buf, "link", b.Link(), 6)
	g.writeElement(buf, "description", cmp.Or(b.Summary(), "No summary available"), 6)

	if b.PubDateKnown() {
		g.writeElement(buf, "pubDate", b.PubDate().Format(time.RFC1123Z), 6)
	}

	for _, sponsor := range b.Sponsors() {
		g.writeElement(buf, "author", sponsor, 6)
	}

	for _, tag := range b.Tags() {
		g.writeElement(buf, "category", tag, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
