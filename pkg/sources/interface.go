package sources

import (
	"context"

	"github.com/kerbaras/threadgrab/pkg/data"
)

// Source turns a root page URL into the files it links to.
type Source interface {
	FetchLinks(ctx context.Context, rootURL string) ([]data.FileLink, error)
}
