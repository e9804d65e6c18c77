package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// wordDelimiters matches runs of whitespace, punctuation, brackets, slashes and
// non-breaking spaces (both the literal entity and U+00A0).
var wordDelimiters = regexp.MustCompile(`(?:[\s\v.,!?:{}()\[\]/]|&nbsp;|\x{00A0})+`)

// SplitWords splits text into lowercase word tokens. Empty tokens are dropped.
func SplitWords(text string) []string {
	parts := wordDelimiters.Split(text, -1)
	lower := cases.Lower(language.Und)

	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		words = append(words, lower.String(part))
	}
	return words
}

// NormalizeURL strips every trailing slash so that "https://a.com/" and
// "https://a.com" share one key.
func NormalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}

// Origin returns the scheme and host (including any port) of an absolute URL.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %q is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// IsAbsoluteHTTP reports whether href starts with "http", which covers both
// http:// and https:// references.
func IsAbsoluteHTTP(href string) bool {
	return strings.HasPrefix(href, "http")
}

// HasOriginPrefix reports whether href begins with origin on a boundary, so
// that "https://a.com/x" matches "https://a.com" but "https://a.com.evil" does not.
func HasOriginPrefix(href, origin string) bool {
	if origin == "" || !strings.HasPrefix(href, origin) {
		return false
	}
	if len(href) == len(origin) {
		return true
	}
	switch href[len(origin)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// QualifyLink turns an internal href into an absolute URL. Absolute http(s)
// references are returned unchanged; anything else is appended to origin.
func QualifyLink(origin, href string) string {
	if IsAbsoluteHTTP(href) {
		return href
	}
	if href == "" || strings.HasPrefix(href, "/") {
		return origin + href
	}
	return origin + "/" + href
}
