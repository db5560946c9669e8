package bill

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/lysyi3m/bill-comb/app/record"
)

// Canonical field names of a bill feed.
const (
	FieldBillNumber     = "billNumber"
	FieldPubDate        = "pubDate"
	FieldTitle          = "title"
	FieldSummary        = "summary"
	FieldLink           = "link"
	FieldTags           = "tags"
	FieldVersionHistory = "versionHistory"
	FieldSponsors       = "sponsors"
	FieldStatus         = "status"
	FieldIsReviewed     = "isReviewed"
)

// Fields lists the canonical field names in feed column order.
var Fields = []string{
	FieldBillNumber,
	FieldPubDate,
	FieldTitle,
	FieldSummary,
	FieldLink,
	FieldTags,
	FieldVersionHistory,
	FieldSponsors,
	FieldStatus,
	FieldIsReviewed,
}

// Secondary separators inside single list-shaped fields. Sponsor names
// may contain commas ("Doe, John") so sponsors use a semicolon.
const (
	TagSeparator     = ","
	SponsorSeparator = ";"
)

var fieldAliases = map[string]string{
	"description": FieldSummary,
	"categories":  FieldTags,
	"category":    FieldTags,
	"sponsor":     FieldSponsors,
	"published":   FieldPubDate,
	"date":        FieldPubDate,
	"url":         FieldLink,
	"reviewed":    FieldIsReviewed,
}

var canonicalFields = func() map[string]string {
	m := make(map[string]string, len(Fields)+len(fieldAliases))
	for _, f := range Fields {
		m[fieldKey(f)] = f
	}
	for alias, f := range fieldAliases {
		m[alias] = f
	}
	return m
}()

// FromRecord converts a parsed feed row into a Bill. It never fails:
// unparsable dates become UnknownDate, absent lists become empty and
// unknown columns are ignored.
func FromRecord(r record.Record) Bill {
	fields := make(map[string]string, len(Fields))
	for _, key := range r.Keys() {
		canonical, ok := canonicalFields[fieldKey(key)]
		if !ok {
			continue
		}
		if _, seen := fields[canonical]; seen {
			continue
		}
		fields[canonical] = r.Value(key)
	}

	return New(Params{
		BillNumber:     fields[FieldBillNumber],
		PubDate:        ParseDate(fields[FieldPubDate]),
		Title:          fields[FieldTitle],
		Summary:        fields[FieldSummary],
		Link:           fields[FieldLink],
		Tags:           SplitList(fields[FieldTags], TagSeparator),
		VersionHistory: parseVersionHistory(fields[FieldVersionHistory]),
		Sponsors:       SplitList(fields[FieldSponsors], SponsorSeparator),
		Status:         fields[FieldStatus],
		IsReviewed:     parseBool(fields[FieldIsReviewed]),
	})
}

// FromRecords converts every record, preserving order.
func FromRecords(records []record.Record) []Bill {
	bills := make([]Bill, 0, len(records))
	for _, r := range records {
		bills = append(bills, FromRecord(r))
	}
	return bills
}

// Parsed dates before minYear are fragments that dateparse filled in, not
// real publication dates.
const minYear = 1800

// ParseDate parses s leniently in UTC and returns UnknownDate when it
// cannot or when the result falls outside [minYear, 9999].
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownDate
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return UnknownDate
	}
	t = t.UTC()
	if t.Year() < minYear || t.Year() > 9999 {
		return UnknownDate
	}
	return t
}

// SplitList splits a list-shaped field on sep, trimming elements and
// dropping empty ones. The result is never nil.
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseVersionHistory(s string) []VersionSnapshot {
	s = strings.TrimSpace(s)
	if s == "" {
		return []VersionSnapshot{}
	}
	var history []VersionSnapshot
	if err := json.Unmarshal([]byte(s), &history); err != nil {
		return []VersionSnapshot{}
	}
	return history
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "y":
		return true
	}
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func fieldKey(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(name)))
}
