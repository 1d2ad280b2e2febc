package crawler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/pepaudit/internal/transport"
)

const indexPage = `<html><body>
<section id="numerical-index">
<table>
<thead><tr><th>PEP</th><th>Title</th></tr></thead>
<tbody>
<tr><td><abbr title="Process, Active">PA</abbr></td><td><a href="pep-0001/">1</a></td><td><a href="pep-0001/">PEP Purpose and Guidelines</a></td></tr>
<tr><td><abbr title="Standards Track, Final">SF</abbr></td><td><a href="/pep-0008/">8</a></td><td><a href="/pep-0008/">Style Guide for Python Code</a></td></tr>
<tr><td><abbr title="Informational">I</abbr></td><td><a href="pep-0020/">20</a></td><td>The Zen of Python</td></tr>
</tbody>
</table>
</section>
</body></html>`

func detailPage(status string) string {
	return `<html><body><h1>PEP</h1>
<dl class="simple rfc2822 field-list">
<dt class="field-odd">Author<span class="colon">:</span></dt><dd class="field-odd">Someone</dd>
<dt class="field-even">Status<span class="colon">:</span></dt>
<dd class="field-even"><abbr title="Accepted and implementation complete">` + status + `</abbr></dd>
<dt class="field-odd">Type<span class="colon">:</span></dt><dd class="field-odd">Process</dd>
</dl></body></html>`
}

// newSite serves the given path → HTML pages.
func newSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *transport.Client {
	t.Helper()

	client, err := transport.NewClient()
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}
