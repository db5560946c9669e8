// Package billtest builds reproducible bill fixtures for tests and demos.
package billtest

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/catalog"
)

var (
	chambers = []string{"SB", "HB", "SR", "HR"}
	statuses = []string{"Pending", "Passed", "Failed"}
	sponsors = []string{"Doe, John", "Roe, Jane", "Smith, Alex", "Garcia, Maria", "Lee, Chris"}
	baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

const summary = "Quodsi haberent magnalia inter potentiam et divitias, et non illam quidem haec eo spectant haec quoque vos omnino desit illud quo solo felicitatis libertatisque perficiuntur."

// Generator produces the same bills for the same seed.
type Generator struct {
	rng  *rand.Rand
	tags []string
	seq  int
}

func New(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		tags: catalog.Default().Tags(),
	}
}

// WithTags restricts generated tags to the given pool.
func (g *Generator) WithTags(tags ...string) *Generator {
	g.tags = append([]string(nil), tags...)
	return g
}

func (g *Generator) Bill() bill.Bill {
	g.seq++

	number := fmt.Sprintf("%s%d", chambers[g.rng.IntN(len(chambers))], g.rng.IntN(1000)+g.seq*1000)

	var tags []string
	if len(g.tags) > 0 {
		tags = []string{g.tags[g.rng.IntN(len(g.tags))], g.tags[g.rng.IntN(len(g.tags))]}
	}

	return bill.New(bill.Params{
		BillNumber: number,
		PubDate:    baseDate.AddDate(0, 0, g.rng.IntN(365)),
		Title:      "This is a random bill",
		Summary:    summary,
		Link:       "https://www.legis.example.gov/bills/" + number,
		Tags:       tags,
		Sponsors:   []string{sponsors[g.rng.IntN(len(sponsors))]},
		Status:     statuses[g.rng.IntN(len(statuses))],
	})
}

func (g *Generator) Bills(n int) []bill.Bill {
	bills := make([]bill.Bill, 0, n)
	for range n {
		bills = append(bills, g.Bill())
	}
	return bills
}

// Feed renders bills as delimited feed text with a canonical header row.
func Feed(bills []bill.Bill, delimiter rune) string {
	sep := string(delimiter)

	var sb strings.Builder
	sb.WriteString(strings.Join(bill.Fields, sep))
	for _, b := range bills {
		history, _ := json.Marshal(b.VersionHistory())
		pubDate := ""
		if b.PubDateKnown() {
			pubDate = b.PubDate().Format(time.RFC3339)
		}
		row := []string{
			b.BillNumber(),
			pubDate,
			b.Title(),
			b.Summary(),
			b.Link(),
			strings.Join(b.Tags(), bill.TagSeparator),
			string(history),
			strings.Join(b.Sponsors(), bill.SponsorSeparator),
			b.Status(),
			fmt.Sprintf("%t", b.IsReviewed()),
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, sep))
	}
	return sb.String()
}
