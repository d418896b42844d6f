// Package local implements folder search: a recursive scan of text files
// whose content contains a query.
//
// Only files with an allow-listed extension are read (.txt .md .py .js .html
// .css .json by default). Each hit is titled "File: <name>", linked as
// file://<path>, and carries up to 100 runes of context on either side of the
// first match. Scores are match density capped at 1.0.
package local
