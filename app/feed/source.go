package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var feedNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// feedExtensions is ordered: when a feed exists in several formats the
// first extension wins.
var feedExtensions = []struct {
	ext    string
	format Format
}{
	{".psv", FormatDelimited},
	{".csv", FormatDelimited},
	{".txt", FormatDelimited},
	{".xml", FormatRSS},
	{".rss", FormatRSS},
}

// Source reads named feed files from a directory. It is the only place
// that touches the filesystem for feed data.
type Source struct {
	feedsDir string
}

func NewSource(feedsDir string) *Source {
	return &Source{feedsDir: feedsDir}
}

// List returns the sorted names of all feeds in the directory. A missing
// directory has no feeds.
func (s *Source) List() ([]string, error) {
	if _, err := os.Stat(s.feedsDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	names := []string{}
	for _, fe := range feedExtensions {
		files, err := filepath.Glob(filepath.Join(s.feedsDir, "*"+fe.ext))
		if err != nil {
			return nil, fmt.Errorf("failed to find %s files: %w", fe.ext, err)
		}

		for _, file := range files {
			name := strings.TrimSuffix(filepath.Base(file), fe.ext)
			if !feedNamePattern.MatchString(name) {
				slog.Debug("Skipping feed file with unsupported name", "file", file)
				continue
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	slices.Sort(names)
	return names, nil
}

// Read returns the raw contents of the named feed and its format.
func (s *Source) Read(name string) (string, Format, error) {
	if !feedNamePattern.MatchString(name) {
		return "", "", fmt.Errorf("%w: '%s'", ErrInvalidFeedName, name)
	}

	for _, fe := range feedExtensions {
		path := filepath.Join(s.feedsDir, name+fe.ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), fe.format, nil
	}

	return "", "", fmt.Errorf("%w: '%s'", ErrFeedNotFound, name)
}
