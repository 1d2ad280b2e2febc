// Package report renders command results.
//
// Every command produces a model.Table. A Writer renders it in one of the
// formats listed in Formats:
//   - plain: space-separated lines (default)
//   - pretty: boxed table drawn with tablewriter
//   - csv and parquet: file exports saved under the results directory
//   - markdown: GitHub-flavored table with a mermaid pie chart for audits
//   - json: the table as a JSON object
//
//	w, err := report.NewWriter(report.FormatPretty, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	_, err = w.Write(result.Report.Table())
package report
