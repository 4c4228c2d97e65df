// assets/embed.go
//
// Embedded static data shipped with the binary.
// Currently only the default topping catalog.

package assets

import (
	"embed"
)

//go:embed toppings.yaml
var FS embed.FS

// DefaultCatalog returns the raw YAML of the built-in topping catalog.
func DefaultCatalog() ([]byte, error) {
	return FS.ReadFile("toppings.yaml")
}
