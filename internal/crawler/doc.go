// Package crawler extracts structured data from the pages of the Python
// documentation and proposal sites.
//
// Every extractor takes a Fetcher (normally a *transport.Client) and parses
// pages with goquery. Required page structure is located with FindRequired,
// which returns a *ParseError naming the missing element instead of a nil
// selection, so a redesigned page fails loudly.
//
// # Extractors
//
//   - IndexFetcher: rows of the numerical PEP index as model.IndexEntry values
//   - DetailStatusExtractor: the "Status" field of one PEP page
//   - WhatsNewExtractor: the "What's New" articles with title and editors
//   - LatestVersionsExtractor: the documentation version switcher
//   - Downloader: the A4 PDF documentation archive
//
// # Usage
//
//	index := crawler.NewIndexFetcher(client, "https://peps.python.org/")
//	entries, err := index.Fetch(ctx)
//	if err != nil {
//	    return err
//	}
//	details := crawler.NewDetailStatusExtractor(client)
//	status, err := details.FetchStatus(ctx, entries[0].DetailURL)
//	if errors.Is(err, crawler.ErrStatusNotFound) {
//	    // the page has no status field
//	}
package crawler
