package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kerbaras/threadgrab/pkg/app/styles"
	"github.com/kerbaras/threadgrab/pkg/data"
)

func renderSummary(report *data.Report) string {
	succeeded := report.Succeeded()
	failed := report.Failed()

	var total int64
	for _, o := range succeeded {
		total += o.Bytes
	}

	status := "complete"
	switch {
	case len(succeeded) == 0 && len(failed) > 0:
		status = "error"
	case len(failed) > 0:
		status = "partial"
	}

	var b strings.Builder
	b.WriteString(styles.StatusStyle(status).Render(
		fmt.Sprintf("%d downloaded (%s), %d failed", len(succeeded), humanize.Bytes(uint64(total)), len(failed)),
	))
	for _, o := range failed {
		b.WriteString("\n")
		b.WriteString(styles.StatusError.Render("✗ "))
		b.WriteString(styles.TextStyle.Render(o.Link.Name))
		b.WriteString(styles.MutedStyle.Render(": " + o.Err.Error()))
	}
	return styles.SummaryStyle.Render(b.String())
}
