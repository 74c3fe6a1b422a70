package sources

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/kerbaras/threadgrab/pkg/data"
)

// DefaultSelector matches anchors inside a file-listing container.
const DefaultSelector = ".fileText a"

// Extractor pulls file links out of a page.
type Extractor struct {
	// Selector picks the anchor elements. Empty means DefaultSelector.
	Selector string
	// SkipInvalid drops elements without an href or a name instead of
	// failing the whole extraction.
	SkipInvalid bool
	// OnSkip, if set, receives the error for every skipped element.
	OnSkip func(err error)
}

// ExtractLinks extracts links from pageBody with the default settings:
// DefaultSelector, failing on the first malformed element.
func ExtractLinks(pageBody string) ([]data.FileLink, error) {
	return (&Extractor{}).Extract(pageBody, nil)
}

// Extract parses pageBody and returns one FileLink per matched element, in
// document order. Relative hrefs are resolved against base when it is
// non-nil; scheme-relative hrefs always get the https scheme.
func (e *Extractor) Extract(pageBody string, base *url.URL) ([]data.FileLink, error) {
	selector := e.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &data.ParseError{Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageBody))
	if err != nil {
		return nil, &data.ParseError{Err: err}
	}

	links := []data.FileLink{}
	var extractErr error
	doc.FindMatcher(matcher).EachWithBreak(func(i int, s *goquery.Selection) bool {
		link, err := linkFromElement(i, s, base)
		if err == nil {
			links = append(links, link)
			return true
		}
		if !e.SkipInvalid {
			extractErr = err
			return false
		}
		if e.OnSkip != nil {
			e.OnSkip(err)
		}
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}
	return links, nil
}

func linkFromElement(i int, s *goquery.Selection, base *url.URL) (data.FileLink, error) {
	href, ok := s.Attr("href")
	if !ok {
		return data.FileLink{}, &data.MissingAttributeError{Attr: "href", Index: i}
	}

	name := strings.TrimSpace(s.AttrOr("title", ""))
	if name == "" {
		name = strings.TrimSpace(s.Text())
	}
	if name == "" {
		return data.FileLink{}, &data.MissingNameError{Index: i}
	}

	return data.FileLink{URL: absoluteURL(href, base), Name: name}, nil
}

func absoluteURL(href string, base *url.URL) string {
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
