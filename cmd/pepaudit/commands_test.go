package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPEPCmd(t *testing.T) {
	t.Parallel()

	const want = "Status Count\nActive 1\nFinal 1\nDraft 1\nTotal 3\n"

	t.Run("prints status counts", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		stdout, _, err := runCLI(t, srv, t.TempDir(), "pep")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
	})

	t.Run("second run is served from cache", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		cacheDir := t.TempDir()

		first, _, err := runCLI(t, srv, cacheDir, "pep", "-n", "3")
		if err != nil {
			t.Fatalf("first run: %v", err)
		}
		served := srv.requests.Load()
		if served != 4 {
			t.Errorf("first run made %d requests, want 4", served)
		}

		second, _, err := runCLI(t, srv, cacheDir, "pep", "-n", "3")
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		if srv.requests.Load() != served {
			t.Errorf("second run made %d requests, want 0", srv.requests.Load()-served)
		}
		if first != second {
			t.Errorf("outputs differ:\n%s\n%s", first, second)
		}
	})

	t.Run("clear-cache refetches", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		cacheDir := t.TempDir()

		if _, _, err := runCLI(t, srv, cacheDir, "pep"); err != nil {
			t.Fatalf("first run: %v", err)
		}
		if _, _, err := runCLI(t, srv, cacheDir, "pep", "-C"); err != nil {
			t.Fatalf("second run: %v", err)
		}
		if got := srv.requests.Load(); got != 8 {
			t.Errorf("requests = %d, want 8", got)
		}
	})

	t.Run("writes csv file", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		outPath := filepath.Join(t.TempDir(), "results", "pep.csv")

		stdout, stderr, err := runCLI(t, srv, t.TempDir(), "pep", "-o", "csv", "-f", outPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		if !strings.Contains(stderr, outPath) {
			t.Errorf("expected stderr to mention %s, got %q", outPath, stderr)
		}

		f, err := os.Open(outPath)
		if err != nil {
			t.Fatalf("failed to open csv: %v", err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("invalid csv: %v", err)
		}
		if len(records) != 5 {
			t.Fatalf("got %d records, want 5", len(records))
		}
		if records[4][0] != "Total" || records[4][1] != "3" {
			t.Errorf("total row = %v", records[4])
		}
	})

	t.Run("tee prints plain rows next to the file", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		outPath := filepath.Join(t.TempDir(), "pep.json")

		stdout, _, err := runCLI(t, srv, t.TempDir(), "pep", "-o", "json", "-f", outPath, "--tee")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read json: %v", err)
		}
		var table struct {
			Header []string   `json:"header"`
			Rows   [][]string `json:"rows"`
		}
		if err := json.Unmarshal(data, &table); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(table.Rows) != 4 {
			t.Errorf("rows = %v", table.Rows)
		}
	})

	t.Run("tee logs only the bytes saved to the file", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		dir := t.TempDir()
		outPath := filepath.Join(dir, "pep.json")
		logPath := filepath.Join(dir, "pepaudit.log")

		stdout, _, err := runCLI(t, srv, t.TempDir(),
			"pep", "-o", "json", "-f", outPath, "--tee", "--log-file", logPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read json: %v", err)
		}
		logs, err := os.ReadFile(logPath) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read log: %v", err)
		}

		var saved string
		for _, line := range strings.Split(string(logs), "\n") {
			if strings.Contains(line, "report saved") {
				saved = line
			}
		}
		if saved == "" {
			t.Fatalf("no report saved record in log: %s", logs)
		}
		if wantBytes := fmt.Sprintf("bytes=%d", len(data)); !strings.Contains(saved, wantBytes) {
			t.Errorf("log record = %q, want %s", saved, wantBytes)
		}
	})

	t.Run("unreachable index is fatal", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		_, _, err := runCLI(t, srv, t.TempDir(), "pep", "--index-url", srv.URL+"/missing/")
		if err == nil || !strings.Contains(err.Error(), "failed to read index") {
			t.Errorf("expected index error, got %v", err)
		}
	})
}

func TestLatestVersionsCmd(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	stdout, _, err := runCLI(t, srv, t.TempDir(), "latest-versions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	want := []string{
		"Documentation link Version Status",
		"https://docs.python.org/3.14/ 3.14 in development",
		"https://docs.python.org/3.13/ 3.13 stable",
		"https://www.python.org/doc/versions/ All versions",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), stdout)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWhatsNewCmd(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	stdout, _, err := runCLI(t, srv, t.TempDir(), "whats-new", "-o", "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Article link", "New In Python 3.13", "Adam Turner", srv.URL + "/3/whatsnew/3.13.html"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestDownloadCmd(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()

	stdout, _, err := runCLI(t, srv, t.TempDir(), "download", "-d", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, "python-docs-pdf-a4.zip")
	if !strings.Contains(stdout, path) {
		t.Errorf("expected stdout to mention %s, got %q", path, stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	if string(data) != "PK\x03\x04archive" {
		t.Errorf("archive content = %q", data)
	}
}
