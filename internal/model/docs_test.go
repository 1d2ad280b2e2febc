package model

import (
	"slices"
	"testing"
)

func TestArticlesTable(t *testing.T) {
	t.Parallel()

	table := ArticlesTable([]Article{
		{URL: "https://docs.python.org/3/whatsnew/3.13.html", Title: "What's New In Python 3.13", Editors: "Editors: Adam Turner"},
		{URL: "https://docs.python.org/3/whatsnew/3.12.html", Title: "What's New In Python 3.12", Editors: "Editor: Adam Turner"},
	})

	if !slices.Equal(table.Header, []string{"Article link", "Title", "Editor, Author"}) {
		t.Errorf("unexpected header %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1][1] != "What's New In Python 3.12" {
		t.Errorf("expected input order to be kept, got %v", table.Rows[1])
	}
	if table.Chart != nil {
		t.Error("expected no chart for articles")
	}
}

func TestVersionsTable(t *testing.T) {
	t.Parallel()

	table := VersionsTable([]PythonVersion{
		{URL: "https://docs.python.org/3.14/", Version: "3.14", Status: "in development"},
		{URL: "https://www.python.org/doc/versions/", Version: "All versions"},
	})

	if table.Width() != 3 {
		t.Errorf("expected 3 columns, got %d", table.Width())
	}
	want := [][]string{
		{"Documentation link", "Version", "Status"},
		{"https://docs.python.org/3.14/", "3.14", "in development"},
		{"https://www.python.org/doc/versions/", "All versions", ""},
	}
	got := table.AllRows()
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}
