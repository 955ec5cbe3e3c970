package moss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(logger zerolog.Logger) *ReportFetcher {
	return NewReportFetcher(4, 2, time.Millisecond, 5*time.Second, logger)
}

// startFakeReport serves a minimal hosted MOSS report: an index linking each
// match page twice, and framesets pointing at -top/-0/-1 panes. All links are
// absolute, the way the real server writes them.
func startFakeReport(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	var base string
	mux := http.NewServeMux()
	mux.HandleFunc("/results/123456789", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><table>
<tr><td><a href="%[1]s/match0.html">alice_1_2/ (82%%)</a></td>
<td><a href="%[1]s/match0.html">bob_3_4/ (78%%)</a></td></tr>
</table></body></html>`, base)
	})
	mux.HandleFunc("/results/123456789/match0.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><frameset rows="150,*">
<frame src="%[1]s/match0-top.html">
<frameset cols="50%%,50%%">
<frame src="%[1]s/match0-0.html">
<frame src="%[1]s/match0-1.html">
</frameset></frameset></html>`, base)
	})
	for _, pane := range []string{"match0-top.html", "match0-0.html", "match0-1.html"} {
		mux.HandleFunc("/results/123456789/"+pane, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><body>pane for <a href="%s/match0.html">match0</a></body></html>`, base)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	base = srv.URL + "/results/123456789"
	return srv, base
}

func TestReportFetcher_Download(t *testing.T) {
	_, reportURL := startFakeReport(t)

	dir := t.TempDir()
	f := newTestFetcher(zerolog.Nop())
	require.NoError(t, f.Download(context.Background(), reportURL, dir))

	for _, name := range []string{
		"index.html", "match0.html", "match0-top.html", "match0-0.html", "match0-1.html",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, "missing %s", name)
		assert.NotContains(t, string(data), reportURL,
			"%s should only reference local files", name)
	}

	// The localized index still links the match page.
	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="match0.html"`)
}

func TestReportFetcher_SavePage(t *testing.T) {
	_, reportURL := startFakeReport(t)

	path := filepath.Join(t.TempDir(), "out", "report1.html")
	f := newTestFetcher(zerolog.Nop())
	require.NoError(t, f.SavePage(context.Background(), reportURL, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "match0.html")
}

func TestReportFetcher_SavePage_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(zerolog.Nop())
	err := f.SavePage(context.Background(), srv.URL, filepath.Join(t.TempDir(), "report1.html"))
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestReportFetcher_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(zerolog.Nop())
	data, err := f.fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok")
	assert.Equal(t, int32(3), calls.Load())
}

func TestReportFetcher_FetchGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(zerolog.Nop())
	_, err := f.fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPageLinks(t *testing.T) {
	page := []byte(`<html><body>
<a href="http://example.com/match0.html">one</a>
<frame src="match0-top.html">
<iframe src="match0-0.html"></iframe>
<a>no href</a>
</body></html>`)

	links := pageLinks(page)
	assert.ElementsMatch(t, []string{
		"http://example.com/match0.html",
		"match0-top.html",
		"match0-0.html",
	}, links)
}

func TestLocalize(t *testing.T) {
	base := "http://moss.stanford.edu/results/123/"
	page := []byte(`<a href="http://moss.stanford.edu/results/123/match0.html">x</a>`)
	got := string(localize(page, base))
	assert.Equal(t, `<a href="match0.html">x</a>`, got)
	assert.False(t, strings.Contains(got, base))
}
