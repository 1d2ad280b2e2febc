package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/pepaudit/internal/config"
	"github.com/nao1215/pepaudit/internal/crawler"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/nao1215/pepaudit/internal/report"
	"github.com/nao1215/pepaudit/internal/transport"
)

type fakeIndex struct {
	entries []model.IndexEntry
	err     error
}

func (f fakeIndex) Fetch(context.Context) ([]model.IndexEntry, error) {
	return f.entries, f.err
}

// fakeStatuses answers from a URL → status map. URLs in errs fail with the
// given error; delays make selected pages slow so completion order differs
// from index order.
type fakeStatuses struct {
	statuses map[string]string
	errs     map[string]error
	delays   map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeStatuses) FetchStatus(ctx context.Context, detailURL string) (string, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[detailURL]++
	f.mu.Unlock()

	if d := f.delays[detailURL]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := f.errs[detailURL]; err != nil {
		return "", err
	}
	return f.statuses[detailURL], nil
}

func entry(code, url string) model.IndexEntry {
	return model.IndexEntry{ShortStatusCode: code, DetailURL: url}
}

func kinds(ws []model.Warning) []model.WarningKind {
	out := make([]model.WarningKind, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Kind)
	}
	return out
}

func TestEngineScenarioA(t *testing.T) {
	t.Parallel()

	index := fakeIndex{entries: []model.IndexEntry{
		entry("A", "https://peps.example/1/"),
		entry("B", "https://peps.example/2/"),
		entry("X", "https://peps.example/3/"),
	}}
	statuses := &fakeStatuses{statuses: map[string]string{
		"https://peps.example/1/": "Draft",
		"https://peps.example/2/": "Draft",
		"https://peps.example/3/": "Final",
	}}
	table := model.NewExpectedStatusTable(map[string][]string{
		"A": {"Draft"},
		"B": {"Accepted"},
	})

	result, err := NewEngine(index, statuses, table).Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantRows := []model.StatusCount{{Status: "Draft", Count: 2}, {Status: "Final", Count: 1}}
	if !slices.Equal(result.Report.Rows, wantRows) {
		t.Errorf("rows = %+v, want %+v", result.Report.Rows, wantRows)
	}
	if result.Report.Total != 3 || result.TotalEntries != 3 {
		t.Errorf("total = %d/%d, want 3", result.Report.Total, result.TotalEntries)
	}
	if result.CountMismatch != nil {
		t.Errorf("unexpected count mismatch %v", result.CountMismatch)
	}

	unknown := result.WarningsOf(model.WarningUnknownCode)
	if len(unknown) != 1 || unknown[0].Entry.ShortStatusCode != "X" {
		t.Errorf("expected one unknown code warning for X, got %+v", unknown)
	}

	mismatches := result.WarningsOf(model.WarningStatusMismatch)
	if len(mismatches) == 0 || mismatches[0].Entry.ShortStatusCode != "B" {
		t.Fatalf("expected a status mismatch for B, got %+v", mismatches)
	}
	if mismatches[0].Actual != "Draft" || !slices.Equal(mismatches[0].Expected, []string{"Accepted"}) {
		t.Errorf("unexpected mismatch details %+v", mismatches[0])
	}

	wantKinds := []model.WarningKind{
		model.WarningStatusMismatch, // B
		model.WarningUnknownCode,    // X
		model.WarningStatusMismatch, // X against the empty set
	}
	if got := kinds(result.Warnings); !slices.Equal(got, wantKinds) {
		t.Errorf("warning kinds = %v, want %v", got, wantKinds)
	}
}

func TestEngineScenarioB(t *testing.T) {
	t.Parallel()

	index := fakeIndex{entries: []model.IndexEntry{
		entry("F", "https://peps.example/1/"),
		entry("F", "https://peps.example/2/"),
		entry("F", "https://peps.example/3/"),
	}}
	statuses := &fakeStatuses{
		statuses: map[string]string{
			"https://peps.example/1/": "Final",
			"https://peps.example/3/": "Final",
		},
		errs: map[string]error{
			"https://peps.example/2/": fmt.Errorf("%w: no field list", crawler.ErrStatusNotFound),
		},
	}

	result, err := NewEngine(index, statuses, config.DefaultExpectedStatusTable()).Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.TotalEntries != 3 {
		t.Errorf("expected 3 processed entries, got %d", result.TotalEntries)
	}
	if result.Histogram.Sum() != 2 {
		t.Errorf("expected histogram sum 2, got %d", result.Histogram.Sum())
	}
	if result.CountMismatch == nil {
		t.Fatal("expected a count mismatch")
	}
	if *result.CountMismatch != (model.CountMismatch{TotalEntries: 3, SumOfCounts: 2}) {
		t.Errorf("unexpected mismatch %+v", result.CountMismatch)
	}
	if result.Report.Total != 2 {
		t.Errorf("expected total row to hold the observed sum 2, got %d", result.Report.Total)
	}

	missing := result.WarningsOf(model.WarningMissingStatus)
	if len(missing) != 1 || missing[0].Entry.DetailURL != "https://peps.example/2/" {
		t.Errorf("expected one missing status warning, got %+v", missing)
	}

	totalRows := 0
	for _, row := range result.Report.Table().Rows {
		if row[0] == model.ReportTotalLabel {
			totalRows++
		}
	}
	if totalRows != 1 {
		t.Errorf("expected exactly one total row, got %d", totalRows)
	}
}

func TestEngineProperties(t *testing.T) {
	t.Parallel()

	t.Run("matching statuses give total N and no mismatch", func(t *testing.T) {
		t.Parallel()

		const n = 25
		entries := make([]model.IndexEntry, 0, n)
		statuses := &fakeStatuses{statuses: map[string]string{}}
		for i := range n {
			url := fmt.Sprintf("https://peps.example/%d/", i)
			entries = append(entries, entry("F", url))
			statuses.statuses[url] = "Final"
		}

		result, err := NewEngine(fakeIndex{entries: entries}, statuses, config.DefaultExpectedStatusTable()).Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.TotalEntries != n || result.Report.Total != n {
			t.Errorf("total = %d/%d, want %d", result.TotalEntries, result.Report.Total, n)
		}
		if result.CountMismatch != nil || len(result.Warnings) != 0 {
			t.Errorf("expected a clean audit, got mismatch %v and %d warnings", result.CountMismatch, len(result.Warnings))
		}
	})

	t.Run("rows follow first observation", func(t *testing.T) {
		t.Parallel()

		entries := []model.IndexEntry{
			entry("W", "u1"), entry("F", "u2"), entry("W", "u3"), entry("A", "u4"), entry("F", "u5"),
		}
		statuses := &fakeStatuses{statuses: map[string]string{
			"u1": "Withdrawn", "u2": "Final", "u3": "Withdrawn", "u4": "Active", "u5": "Final",
		}}

		result, err := NewEngine(fakeIndex{entries: entries}, statuses, config.DefaultExpectedStatusTable()).Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		want := []string{"Withdrawn", "Final", "Active"}
		if got := result.Histogram.Statuses(); !slices.Equal(got, want) {
			t.Errorf("statuses = %v, want %v", got, want)
		}
	})

	t.Run("unknown code is still counted", func(t *testing.T) {
		t.Parallel()

		statuses := &fakeStatuses{statuses: map[string]string{"u1": "Final"}}
		result, err := NewEngine(fakeIndex{entries: []model.IndexEntry{entry("Q", "u1")}}, statuses,
			config.DefaultExpectedStatusTable()).Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.Histogram.Count("Final") != 1 || result.Report.Total != 1 {
			t.Errorf("expected entry with unknown code to be counted, got %+v", result.Report)
		}
	})

	t.Run("detail fetch failure is soft", func(t *testing.T) {
		t.Parallel()

		statuses := &fakeStatuses{
			statuses: map[string]string{"u1": "Final"},
			errs:     map[string]error{"u2": &transport.FetchError{URL: "u2", StatusCode: http.StatusBadGateway}},
		}
		result, err := NewEngine(fakeIndex{entries: []model.IndexEntry{entry("F", "u1"), entry("F", "u2")}}, statuses,
			config.DefaultExpectedStatusTable()).Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := kinds(result.Warnings); !slices.Equal(got, []model.WarningKind{model.WarningDetailFetch}) {
			t.Errorf("warning kinds = %v", got)
		}
		if result.TotalEntries != 2 || result.Report.Total != 1 || result.CountMismatch == nil {
			t.Errorf("unexpected totals: entries=%d total=%d mismatch=%v",
				result.TotalEntries, result.Report.Total, result.CountMismatch)
		}
	})

	t.Run("empty index gives an empty report", func(t *testing.T) {
		t.Parallel()

		result, err := NewEngine(fakeIndex{}, &fakeStatuses{}, config.DefaultExpectedStatusTable()).Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(result.Report.Rows) != 0 || result.Report.Total != 0 || result.CountMismatch != nil {
			t.Errorf("unexpected report %+v", result.Report)
		}
	})
}

func TestEngineIndexFailureIsFatal(t *testing.T) {
	t.Parallel()

	indexErr := &crawler.ParseError{Tag: "section", Attrs: map[string]string{"id": "numerical-index"}, Root: "document"}
	statuses := &fakeStatuses{}

	result, err := NewEngine(fakeIndex{err: indexErr}, statuses, config.DefaultExpectedStatusTable()).Run(t.Context())
	if result != nil {
		t.Error("expected no result")
	}
	var pe *crawler.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *crawler.ParseError, got %v", err)
	}
	if len(statuses.calls) != 0 {
		t.Error("expected no detail fetches after an index failure")
	}
}

func TestEngineConcurrency(t *testing.T) {
	t.Parallel()

	const n = 12
	entries := make([]model.IndexEntry, 0, n)
	statuses := &fakeStatuses{
		statuses: map[string]string{},
		errs:     map[string]error{},
		delays:   map[string]time.Duration{},
	}
	names := []string{"Final", "Draft", "Withdrawn", "Active"}
	for i := range n {
		url := fmt.Sprintf("u%d", i)
		entries = append(entries, entry("F", url))
		statuses.statuses[url] = names[i%len(names)]
		// Earlier entries are slower, so they complete last.
		statuses.delays[url] = time.Duration(n-i) * time.Millisecond
	}
	statuses.errs["u5"] = crawler.ErrStatusNotFound

	table := config.DefaultExpectedStatusTable()
	sequential, err := NewEngine(fakeIndex{entries: entries}, &fakeStatuses{
		statuses: statuses.statuses, errs: statuses.errs,
	}, table).Run(t.Context())
	if err != nil {
		t.Fatalf("sequential Run() error = %v", err)
	}

	var tracker countingTracker
	concurrent, err := NewEngine(fakeIndex{entries: entries}, statuses, table,
		WithConcurrency(4), WithProgress(&tracker)).Run(t.Context())
	if err != nil {
		t.Fatalf("concurrent Run() error = %v", err)
	}

	if !slices.Equal(concurrent.Report.Rows, sequential.Report.Rows) || concurrent.Report.Total != sequential.Report.Total {
		t.Errorf("concurrent report %+v differs from sequential %+v", concurrent.Report, sequential.Report)
	}
	if !slices.Equal(kinds(concurrent.Warnings), kinds(sequential.Warnings)) {
		t.Errorf("concurrent warnings differ from sequential ones")
	}
	for _, e := range entries {
		if statuses.calls[e.DetailURL] != 1 {
			t.Errorf("expected exactly one request for %s, got %d", e.DetailURL, statuses.calls[e.DetailURL])
		}
	}
	if tracker.total.Load() != n || tracker.done.Load() != n {
		t.Errorf("progress = %d/%d, want %d/%d", tracker.done.Load(), tracker.total.Load(), n, n)
	}
}

func TestEngineCancellation(t *testing.T) {
	t.Parallel()

	entries := []model.IndexEntry{entry("F", "slow1"), entry("F", "slow2")}
	statuses := &fakeStatuses{delays: map[string]time.Duration{"slow1": time.Minute, "slow2": time.Minute}}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	result, err := NewEngine(fakeIndex{entries: entries}, statuses, config.DefaultExpectedStatusTable(),
		WithConcurrency(2)).Run(ctx)
	if result != nil {
		t.Error("expected no result after cancellation")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

// TestEngineIdempotentWithCache runs the full stack twice against a local
// site: the second run must be served from the response cache and render
// byte-identical output.
func TestEngineIdempotentWithCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	pages := map[string]string{
		"/": `<section id="numerical-index"><table>
<tr><th>PEP</th></tr>
<tr><td>PA</td><td><a href="pep-0001/">1</a></td><td>Purpose</td></tr>
<tr><td>SF</td><td><a href="pep-0008/">8</a></td><td>Style</td></tr>
<tr><td>SR</td><td><a href="pep-0666/">666</a></td><td>Tabs</td></tr>
<tr><td>IA</td><td><a href="pep-0020/">20</a></td><td>Zen</td></tr>
</table></section>`,
		"/pep-0001/": detail("Active"),
		"/pep-0008/": detail("Final"),
		"/pep-0666/": detail("Rejected"),
		"/pep-0020/": detail("Active"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cacheDir := t.TempDir()
	render := func() (string, int64) {
		t.Helper()

		cache, err := transport.OpenCache(cacheDir)
		if err != nil {
			t.Fatalf("OpenCache() error = %v", err)
		}
		defer cache.Close()

		client, err := transport.NewClient(transport.WithCache(cache))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		engine := NewEngine(
			crawler.NewIndexFetcher(client, srv.URL+"/"),
			crawler.NewDetailStatusExtractor(client),
			config.DefaultExpectedStatusTable(),
			WithConcurrency(2),
		)
		result, err := engine.Run(t.Context())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var buf bytes.Buffer
		w, err := report.NewWriter(report.FormatPlain, &buf)
		if err != nil {
			t.Fatalf("NewWriter() error = %v", err)
		}
		if _, err := w.Write(result.Report.Table()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		return buf.String(), client.Requests()
	}

	first, firstRequests := render()
	hitsAfterFirst := hits.Load()
	second, secondRequests := render()

	if first != second {
		t.Errorf("reports differ:\n%s\n---\n%s", first, second)
	}
	if firstRequests != 5 {
		t.Errorf("expected 5 requests on the first run, got %d", firstRequests)
	}
	if secondRequests != 0 || hits.Load() != hitsAfterFirst {
		t.Errorf("expected the second run to be served from cache, got %d requests", secondRequests)
	}
	for _, want := range []string{"Active", "Final", "Rejected", "Total"} {
		if !strings.Contains(first, want) {
			t.Errorf("expected %q in report:\n%s", want, first)
		}
	}
}

func detail(status string) string {
	return `<dl class="rfc2822 field-list simple"><dt>Status:</dt><dd>` + status + `</dd></dl>`
}

type countingTracker struct {
	total atomic.Int64
	done  atomic.Int64
}

func (c *countingTracker) Start(total int) { c.total.Store(int64(total)) }
func (c *countingTracker) Increment()      { c.done.Add(1) }
func (c *countingTracker) Finish()         {}
