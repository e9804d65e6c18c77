package extractor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/pagecrawl/pkg/utils"
)

// ErrNoContent is returned when there is nothing to parse.
var ErrNoContent = errors.New("no content")

// contentTags are the elements whose direct text counts as page words.
// h7 is not a real heading but is matched anyway.
var contentTags = map[string]bool{
	"div": true, "p": true, "span": true, "a": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "h7": true,
}

// Extraction is everything pulled out of one HTML document
type Extraction struct {
	Title         string
	Words         []string
	Images        []string
	InternalLinks []string
	ExternalLinks []string
}

// Empty returns the shape used when a page could not be parsed.
func Empty() *Extraction {
	return &Extraction{
		Words:         []string{},
		Images:        []string{},
		InternalLinks: []string{},
		ExternalLinks: []string{},
	}
}

// Extractor handles content extraction from HTML
type Extractor struct{}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{}
}

// Extract parses content and applies every extraction rule. Links are
// classified against origin, the scheme and host of the page being analyzed.
func (e *Extractor) Extract(content []byte, origin string) (*Extraction, error) {
	if len(content) == 0 {
		return nil, ErrNoContent
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	result := Empty()
	result.Title = doc.Find("title").First().Text()
	result.Words = e.ExtractWords(doc)
	result.Images = e.ExtractImages(doc)
	result.InternalLinks, result.ExternalLinks = e.ExtractLinks(doc, origin)
	return result, nil
}

// ExtractWords collects the tokens of every text node whose parent is a
// content element, walking the body in document order.
func (e *Extractor) ExtractWords(doc *goquery.Document) []string {
	words := []string{}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return words
	}

	stack := pushChildren(nil, body.Get(0))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type {
		case html.TextNode:
			if n.Parent != nil && n.Parent.Type == html.ElementNode && contentTags[n.Parent.Data] {
				words = append(words, utils.SplitWords(n.Data)...)
			}
		case html.ElementNode:
			stack = pushChildren(stack, n)
		}
	}
	return words
}

// pushChildren appends n's children in reverse so the first child pops first.
func pushChildren(stack []*html.Node, n *html.Node) []*html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, c)
	}
	return stack
}

// ExtractImages returns the src and data-src values of every img element.
func (e *Extractor) ExtractImages(doc *goquery.Document) []string {
	images := []string{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if val, ok := s.Attr(attr); ok {
				images = append(images, val)
			}
		}
	})
	return images
}

// ExtractLinks splits the raw href of every anchor into internal and external.
// An href is internal when it starts with origin or is not an absolute http(s)
// reference at all.
func (e *Extractor) ExtractLinks(doc *goquery.Document, origin string) (internal, external []string) {
	internal, external = []string{}, []string{}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if utils.HasOriginPrefix(href, origin) || !utils.IsAbsoluteHTTP(href) {
			internal = append(internal, href)
		} else {
			external = append(external, href)
		}
	})
	return internal, external
}
