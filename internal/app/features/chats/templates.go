// internal/app/features/chats/templates.go
package chats

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "chats",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
