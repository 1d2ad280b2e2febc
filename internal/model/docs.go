package model

// Article is one "What's New" document of the documentation site.
type Article struct {
	// URL is the absolute link to the article.
	URL string `json:"url"`

	// Title is the article heading.
	Title string `json:"title"`

	// Editors is the article's editor and author line, flattened to one line.
	Editors string `json:"editors"`
}

// PythonVersion is one entry of the documentation version switcher.
type PythonVersion struct {
	// URL is the link to that version's documentation.
	URL string `json:"url"`

	// Version is the version number, or the raw link text when it does not
	// follow the "Python X.Y (status)" form.
	Version string `json:"version"`

	// Status is the release status, such as "stable" or "in development".
	// Empty when the link text does not carry one.
	Status string `json:"status"`
}

// ArticlesTable converts what's-new articles into a renderer table.
func ArticlesTable(articles []Article) Table {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{a.URL, a.Title, a.Editors})
	}
	return Table{
		Title:  "What's new in Python",
		Header: []string{"Article link", "Title", "Editor, Author"},
		Rows:   rows,
	}
}

// VersionsTable converts documentation versions into a renderer table.
func VersionsTable(versions []PythonVersion) Table {
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, []string{v.URL, v.Version, v.Status})
	}
	return Table{
		Title:  "Python documentation versions",
		Header: []string{"Documentation link", "Version", "Status"},
		Rows:   rows,
	}
}
