package assets

import (
	"embed"
)

//go:embed discs.json
var FS embed.FS

//go:embed migrations/*.sql
var Migrations embed.FS

// DiscsJSON returns the bundled default disc catalog.
func DiscsJSON() ([]byte, error) {
	return FS.ReadFile("discs.json")
}
