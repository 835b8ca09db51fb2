package drift

import _ "embed"

// Version exposes the library version, sourced from the VERSION file.
//
//go:embed VERSION
var Version string
