// Package pages holds the static informational content shown by the client.
package pages

import _ "embed"

//go:embed model.md
var Model string

//go:embed about.md
var About string
