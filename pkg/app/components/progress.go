package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/kerbaras/threadgrab/pkg/app/styles"
	"github.com/kerbaras/threadgrab/pkg/services"
)

// ProgressTracker aggregates the progress events of one batch
type ProgressTracker struct {
	active    map[int]services.DownloadProgress
	failures  []services.DownloadProgress
	total     int
	completed int
	bytes     int64
	bar       progress.Model
	width     int
}

func NewProgressTracker(width int) *ProgressTracker {
	p := &ProgressTracker{
		active: make(map[int]services.DownloadProgress),
		bar:    progress.New(progress.WithDefaultGradient()),
	}
	p.SetWidth(width)
	return p
}

// SetWidth resizes the tracker to the terminal width
func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
	p.bar.Width = max(min(width-4, 80), 10)
}

func (p *ProgressTracker) Update(ev services.DownloadProgress) {
	if ev.Total > p.total {
		p.total = ev.Total
	}
	switch ev.Status {
	case services.StatusDownloading:
		p.active[ev.Index] = ev
	case services.StatusComplete:
		delete(p.active, ev.Index)
		p.completed++
		p.bytes += ev.Bytes
	case services.StatusError:
		delete(p.active, ev.Index)
		p.failures = append(p.failures, ev)
	}
}

// Done is the number of links finished, successfully or not
func (p *ProgressTracker) Done() int {
	return p.completed + len(p.failures)
}

// Percent is the finished fraction of the batch, between 0 and 1
func (p *ProgressTracker) Percent() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.Done()) / float64(p.total)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.active) > 0
}

func (p *ProgressTracker) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Downloading files"))
	b.WriteString("\n")

	b.WriteString(p.bar.ViewAs(p.Percent()))
	b.WriteString("\n")

	counts := fmt.Sprintf("%d/%d files, %s", p.Done(), p.total, humanize.Bytes(uint64(p.bytes)))
	b.WriteString(styles.TextStyle.Render(counts))
	if len(p.failures) > 0 {
		b.WriteString("  ")
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("%d failed", len(p.failures))))
	}
	b.WriteString("\n\n")

	indexes := make([]int, 0, len(p.active))
	for i := range p.active {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		ev := p.active[i]
		b.WriteString(styles.StatusStyle(ev.Status).Render(ev.Status))
		b.WriteString(" ")
		b.WriteString(styles.TextStyle.Render(ev.Name))
		b.WriteString("\n")
	}

	for _, ev := range p.failures {
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s: %s", ev.Name, ev.Error)))
		b.WriteString("\n")
	}

	return b.String()
}
