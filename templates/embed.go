// Package templates holds the built-in template tree. Each top-level
// directory is named after the run that uses it; _common carries the
// license texts shared by every run.
package templates

import "embed"

// FS is the built-in template tree.
//
//go:embed all:_common markdown gomodels
var FS embed.FS

// License texts inside FS.
const (
	ApacheLicense    = "_common/apache-2.0.txt"
	UnlicenseLicense = "_common/unlicense.txt"
)
