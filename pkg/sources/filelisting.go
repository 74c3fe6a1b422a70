package sources

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/kerbaras/threadgrab/pkg/utils"
)

// FileListing is a Source for pages that list their files as anchors inside
// a file-listing container.
type FileListing struct {
	client    *utils.Client
	extractor Extractor
}

// NewFileListing creates a FileListing that fetches through client and
// extracts with extractor.
func NewFileListing(client *utils.Client, extractor Extractor) *FileListing {
	return &FileListing{client: client, extractor: extractor}
}

// FetchLinks downloads the root page and extracts its file links. A
// non-success status is returned as *data.FetchError before any parsing.
func (f *FileListing) FetchLinks(ctx context.Context, rootURL string) ([]data.FileLink, error) {
	logger := log.FromContext(ctx)

	base, err := url.Parse(rootURL)
	if err != nil {
		return nil, &data.FetchError{URL: rootURL, Err: err}
	}

	resp, err := f.client.Get(ctx, rootURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &data.FetchError{URL: rootURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	extractor := f.extractor
	if extractor.OnSkip == nil {
		extractor.OnSkip = func(err error) {
			logger.Warn("Skipping element", "url", rootURL, "error", err)
		}
	}

	links, err := extractor.Extract(string(body), base)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted links", "url", rootURL, "count", len(links))
	return links, nil
}
