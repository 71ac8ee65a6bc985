// Package templates provides the embedded HTML templates for the site.
package templates

import "embed"

//go:embed *.html partials/*.html
var FS embed.FS
