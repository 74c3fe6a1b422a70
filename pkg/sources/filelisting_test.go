package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/kerbaras/threadgrab/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threadPage = `<html><body>
<div class="file"><div class="fileText">File: <a href="//i.example.com/1.jpg" title="first.jpg">first.jpg</a></div></div>
<div class="file"><div class="fileText">File: <a href="//i.example.com/2.png">second.png</a></div></div>
</body></html>`

func TestFileListing_FetchLinks(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(threadPage))
	}))
	defer server.Close()

	source := NewFileListing(utils.NewClientWith(server.Client(), "ua-test"), Extractor{})
	links, err := source.FetchLinks(context.Background(), server.URL+"/thread/1")
	require.NoError(t, err)

	assert.Equal(t, []data.FileLink{
		{URL: "https://i.example.com/1.jpg", Name: "first.jpg"},
		{URL: "https://i.example.com/2.png", Name: "second.png"},
	}, links)
	assert.Equal(t, "ua-test", gotUA)
}

func TestFileListing_FetchLinksHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(threadPage))
	}))
	defer server.Close()

	source := NewFileListing(utils.NewClientWith(server.Client(), ""), Extractor{})
	links, err := source.FetchLinks(context.Background(), server.URL)
	assert.Nil(t, links)

	var fetchErr *data.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("FetchLinks() should return FetchError, got %T", err)
	}
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFileListing_SkipInvalidLogsAndContinues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="fileText"><a href="//x/1.jpg"></a></div><div class="fileText"><a href="//x/2.jpg">2.jpg</a></div>`))
	}))
	defer server.Close()

	source := NewFileListing(utils.NewClientWith(server.Client(), ""), Extractor{SkipInvalid: true})
	links, err := source.FetchLinks(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "2.jpg", links[0].Name)
}
