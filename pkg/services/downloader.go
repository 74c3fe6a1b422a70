package services

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/kerbaras/threadgrab/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// Progress statuses
const (
	StatusDownloading = "downloading"
	StatusComplete    = "complete"
	StatusError       = "error"
)

// DownloadProgress represents the progress of a single file in a batch
type DownloadProgress struct {
	Index  int // position of the link in the batch
	Total  int // batch size
	Name   string
	URL    string
	Path   string
	Bytes  int64
	Status string // "downloading", "complete", "error"
	Error  error
}

// Downloader fetches batches of file links concurrently
type Downloader struct {
	client       *utils.Client
	workers      int
	progressChan chan DownloadProgress
	listening    atomic.Bool
	closeOnce    sync.Once
}

// NewDownloader creates a Downloader running up to workers downloads at a
// time. workers <= 0 means one worker per CPU.
func NewDownloader(client *utils.Client, workers int) *Downloader {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Downloader{
		client:       client,
		workers:      workers,
		progressChan: make(chan DownloadProgress, 100),
	}
}

// GetProgressChannel returns the channel for receiving download progress
// updates. Once it has been called, complete and error events are never
// dropped, so the caller must keep draining the channel until Close.
func (d *Downloader) GetProgressChannel() <-chan DownloadProgress {
	d.listening.Store(true)
	return d.progressChan
}

// DownloadAll downloads every link into outputDir and returns one outcome
// per link. A failing link is logged and recorded; it never stops the others.
func (d *Downloader) DownloadAll(ctx context.Context, links []data.FileLink, outputDir string) *data.Report {
	logger := log.FromContext(ctx)
	report := &data.Report{Outcomes: make([]data.Outcome, len(links))}

	for _, name := range data.DuplicateNames(links) {
		logger.Warn("Several files share a name, the last one written wins", "name", name)
	}

	var eg errgroup.Group
	eg.SetLimit(d.workers)
	for i, link := range links {
		eg.Go(func() error {
			outcome := d.download(ctx, link, outputDir, i, len(links))
			report.Outcomes[i] = outcome
			if outcome.Err != nil {
				logger.Error("Error downloading file", "name", link.Name, "url", link.URL, "error", outcome.Err)
				d.sendProgress(ctx, DownloadProgress{
					Index:  i,
					Total:  len(links),
					Name:   link.Name,
					URL:    link.URL,
					Path:   outcome.Path,
					Status: StatusError,
					Error:  outcome.Err,
				})
				return nil
			}
			logger.Info("Downloaded "+outcome.Path, "size", humanize.Bytes(uint64(outcome.Bytes)))
			d.sendProgress(ctx, DownloadProgress{
				Index:  i,
				Total:  len(links),
				Name:   link.Name,
				URL:    link.URL,
				Path:   outcome.Path,
				Bytes:  outcome.Bytes,
				Status: StatusComplete,
			})
			return nil
		})
	}
	// Tasks never return errors.
	_ = eg.Wait()

	return report
}

func (d *Downloader) download(ctx context.Context, link data.FileLink, outputDir string, index, total int) data.Outcome {
	outcome := data.Outcome{Link: link}

	d.sendProgress(ctx, DownloadProgress{
		Index:  index,
		Total:  total,
		Name:   link.Name,
		URL:    link.URL,
		Status: StatusDownloading,
	})

	path, err := destination(outputDir, link.Name)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Path = path

	content, err := d.fetch(ctx, link.URL)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if err := writeFile(path, content); err != nil {
		outcome.Err = &data.IoError{Path: path, Err: err}
		return outcome
	}
	outcome.Bytes = int64(len(content))
	return outcome
}

// fetch downloads url and returns its body
func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &data.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	return content, nil
}

// destination joins name onto outputDir, refusing names that would land
// outside of it or on the directory itself.
func destination(outputDir, name string) (string, error) {
	path := filepath.Join(outputDir, name)
	if !filepath.IsLocal(name) {
		return path, &data.IoError{Path: path, Err: fmt.Errorf("file name %q escapes the output directory", name)}
	}
	if filepath.Clean(name) == "." {
		return path, &data.IoError{Path: path, Err: fmt.Errorf("file name %q names the output directory", name)}
	}
	return path, nil
}

// writeFile writes content to a temporary file in path's directory and
// renames it into place, so path holds either its old content or all of
// content. The temporary name has a fixed length so any name the
// filesystem accepts for path is also writable.
func writeFile(path string, content []byte) error {
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".threadgrab-%016x.part", rand.Uint64()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// sendProgress sends a progress update. Downloading events are dropped when
// the channel is full; terminal events wait for a listener, if there is one.
func (d *Downloader) sendProgress(ctx context.Context, progress DownloadProgress) {
	if progress.Status != StatusDownloading && d.listening.Load() {
		select {
		case d.progressChan <- progress:
		case <-ctx.Done():
		}
		return
	}
	select {
	case d.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close closes the progress channel. DownloadAll must not be called after.
func (d *Downloader) Close() {
	d.closeOnce.Do(func() {
		close(d.progressChan)
	})
}
