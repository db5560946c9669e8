package bill

import (
	"encoding/json"
	"maps"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// UnknownDate is the publication date of a bill whose feed date could not
// be parsed.
var UnknownDate = time.Time{}

// DefaultStatus is applied when the feed carries no status.
const DefaultStatus = "Pending"

var billNumberPattern = regexp.MustCompile(`^([A-Za-z]+)\s*(\d+)$`)

// VersionSnapshot is one prior version of a bill, kept as the feed
// supplied it.
type VersionSnapshot map[string]any

// Bill is an immutable legislative record. Build one with New or
// FromRecord.
type Bill struct {
	billNumber     string
	pubDate        time.Time
	title          string
	summary        string
	link           string
	tags           []string
	tagSet         map[string]struct{}
	versionHistory []VersionSnapshot
	sponsors       []string
	status         string
	isReviewed     bool
}

// Params carries the typed field values for New.
type Params struct {
	BillNumber     string
	PubDate        time.Time
	Title          string
	Summary        string
	Link           string
	Tags           []string
	VersionHistory []VersionSnapshot
	Sponsors       []string
	Status         string
	IsReviewed     bool
}

// New builds a Bill in one step. Tags are de-duplicated, slices are
// copied, an invalid link is dropped and an empty status becomes
// DefaultStatus.
func New(p Params) Bill {
	b := Bill{
		billNumber: normalizeBillNumber(p.BillNumber),
		pubDate:    p.PubDate,
		title:      strings.TrimSpace(p.Title),
		summary:    strings.TrimSpace(p.Summary),
		link:       validLink(p.Link),
		status:     strings.TrimSpace(p.Status),
		isReviewed: p.IsReviewed,
	}
	if !b.pubDate.IsZero() {
		b.pubDate = b.pubDate.UTC()
	}
	if b.status == "" {
		b.status = DefaultStatus
	}

	b.tags = make([]string, 0, len(p.Tags))
	b.tagSet = make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := b.tagSet[tag]; dup {
			continue
		}
		b.tagSet[tag] = struct{}{}
		b.tags = append(b.tags, tag)
	}

	b.sponsors = make([]string, 0, len(p.Sponsors))
	for _, sponsor := range p.Sponsors {
		if sponsor = strings.TrimSpace(sponsor); sponsor != "" {
			b.sponsors = append(b.sponsors, sponsor)
		}
	}

	b.versionHistory = make([]VersionSnapshot, 0, len(p.VersionHistory))
	for _, v := range p.VersionHistory {
		b.versionHistory = append(b.versionHistory, maps.Clone(v))
	}

	return b
}

func (b Bill) BillNumber() string { return b.billNumber }

// Chamber returns the letter prefix of the bill number, e.g. "SB".
func (b Bill) Chamber() string {
	if m := billNumberPattern.FindStringSubmatch(b.billNumber); m != nil {
		return m[1]
	}
	return ""
}

// Number returns the numeric part of the bill number, e.g. "106".
func (b Bill) Number() string {
	if m := billNumberPattern.FindStringSubmatch(b.billNumber); m != nil {
		return m[2]
	}
	return ""
}

// PubDate returns the publication date, or UnknownDate.
func (b Bill) PubDate() time.Time { return b.pubDate }

func (b Bill) PubDateKnown() bool { return !b.pubDate.IsZero() }

func (b Bill) Title() string   { return b.title }
func (b Bill) Summary() string { return b.summary }
func (b Bill) Link() string    { return b.link }
func (b Bill) Status() string  { return b.status }

func (b Bill) IsReviewed() bool { return b.isReviewed }

func (b Bill) Tags() []string {
	return cloneStrings(b.tags)
}

func (b Bill) HasTag(tag string) bool {
	_, ok := b.tagSet[tag]
	return ok
}

func (b Bill) Sponsors() []string {
	return cloneStrings(b.sponsors)
}

// VersionHistory returns prior versions, oldest first.
func (b Bill) VersionHistory() []VersionSnapshot {
	history := make([]VersionSnapshot, 0, len(b.versionHistory))
	for _, v := range b.versionHistory {
		history = append(history, maps.Clone(v))
	}
	return history
}

// Params returns the field values, suitable for New.
func (b Bill) Params() Params {
	return Params{
		BillNumber:     b.billNumber,
		PubDate:        b.pubDate,
		Title:          b.title,
		Summary:        b.summary,
		Link:           b.link,
		Tags:           b.Tags(),
		VersionHistory: b.VersionHistory(),
		Sponsors:       b.Sponsors(),
		Status:         b.status,
		IsReviewed:     b.isReviewed,
	}
}

type billJSON struct {
	BillNumber     string            `json:"billNumber"`
	PubDate        *time.Time        `json:"pubDate"`
	Title          string            `json:"title"`
	Summary        string            `json:"summary"`
	Link           string            `json:"link"`
	Tags           []string          `json:"tags"`
	VersionHistory []VersionSnapshot `json:"versionHistory"`
	Sponsors       []string          `json:"sponsors"`
	Status         string            `json:"status"`
	IsReviewed     bool              `json:"isReviewed"`
}

// MarshalJSON encodes an unknown publication date as null.
func (b Bill) MarshalJSON() ([]byte, error) {
	v := billJSON{
		BillNumber:     b.billNumber,
		Title:          b.title,
		Summary:        b.summary,
		Link:           b.link,
		Tags:           b.Tags(),
		VersionHistory: b.VersionHistory(),
		Sponsors:       b.Sponsors(),
		Status:         b.status,
		IsReviewed:     b.isReviewed,
	}
	if b.PubDateKnown() {
		d := b.pubDate
		v.PubDate = &d
	}
	return json.Marshal(v)
}

func normalizeBillNumber(s string) string {
	s = strings.TrimSpace(s)
	if m := billNumberPattern.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]) + m[2]
	}
	return s
}

func validLink(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return s
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
