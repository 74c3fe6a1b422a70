package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/kerbaras/threadgrab/pkg/sources"
)

// Scraper runs one root page through extraction and download
type Scraper struct {
	source     sources.Source
	downloader *Downloader
}

func NewScraper(source sources.Source, downloader *Downloader) *Scraper {
	return &Scraper{source: source, downloader: downloader}
}

// Run fetches rootURL, extracts its links and downloads them into outputDir.
// Errors on the root page abort the run before anything is downloaded; per
// file failures are only reflected in the returned report.
func (s *Scraper) Run(ctx context.Context, rootURL, outputDir string) (*data.Report, error) {
	logger := log.FromContext(ctx)
	logger.Info("Downloading thread " + rootURL)

	links, err := s.source.FetchLinks(ctx, rootURL)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		logger.Info("No files found", "url", rootURL)
		return &data.Report{}, nil
	}

	if !fileutil.IsExist(outputDir) {
		if err := fileutil.CreateDir(outputDir); err != nil {
			return nil, &data.IoError{Path: outputDir, Err: fmt.Errorf("creating output directory: %w", err)}
		}
	}

	logger.Info("Found files", "count", len(links), "dir", outputDir)
	report := s.downloader.DownloadAll(ctx, links, outputDir)
	logger.Info("Finished", "downloaded", len(report.Succeeded()), "failed", len(report.Failed()))
	return report, nil
}
