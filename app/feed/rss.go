package feed

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"

	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/record"
	"github.com/mmcdole/gofeed"
)

// titleBillNumber matches a leading measure designation such as "SB 106"
// or "HJR12". Only chamber prefixes count, so "Act 2024" is not a bill.
var titleBillNumber = regexp.MustCompile(`(?i)^\s*(SJR|HJR|AJR|SCR|HCR|ACR|SJM|HJM|SB|HB|AB|SR|HR|AR)\s*(\d+)\b`)

// RSSConverter turns an RSS or Atom document into bill-shaped records so
// that RSS feeds go through the same bill.FromRecord seam as delimited
// ones.
type RSSConverter struct {
	gofeedParser *gofeed.Parser
}

func NewRSSConverter() *RSSConverter {
	return &RSSConverter{
		gofeedParser: gofeed.NewParser(),
	}
}

func (c *RSSConverter) Run(raw string) ([]record.Record, error) {
	feed, err := c.gofeedParser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]record.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		records = append(records, record.New(bill.Fields, c.itemValues(item)))
	}

	return records, nil
}

// itemValues returns raw strings in bill.Fields order. Dates are passed
// through unparsed.
func (c *RSSConverter) itemValues(item *gofeed.Item) []string {
	values := make(map[string]string, len(bill.Fields))

	values[bill.FieldBillNumber] = c.billNumber(item)
	values[bill.FieldPubDate] = cmp.Or(item.Published, item.Updated)
	values[bill.FieldTitle] = item.Title
	values[bill.FieldSummary] = cmp.Or(item.Description, item.Content)
	values[bill.FieldLink] = item.Link
	values[bill.FieldTags] = strings.Join(item.Categories, bill.TagSeparator)
	values[bill.FieldSponsors] = strings.Join(c.extractAuthors(item), bill.SponsorSeparator)

	out := make([]string, len(bill.Fields))
	for i, field := range bill.Fields {
		out[i] = values[field]
	}
	return out
}

func (c *RSSConverter) billNumber(item *gofeed.Item) string {
	if m := titleBillNumber.FindStringSubmatch(item.Title); m != nil {
		return strings.ToUpper(m[1]) + m[2]
	}
	return cmp.Or(item.GUID, item.Link)
}

func (c *RSSConverter) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if name := c.formatAuthor(author.Name, author.Email); name != "" {
					authors = append(authors, name)
				}
			}
		}
	} else if item.Author != nil {
		if name := c.formatAuthor(item.Author.Name, item.Author.Email); name != "" {
			authors = append(authors, name)
		}
	}

	return authors
}

func (c *RSSConverter) formatAuthor(name, email string) string {
	return cmp.Or(strings.TrimSpace(name), strings.TrimSpace(email))
}
