package docgraph

import (
	"fmt"

	"github.com/docgraph/docgraph/docerr"
	"github.com/docgraph/docgraph/model"
)

// Theme is applied to every model currently in a document whenever the
// theme changes, and to every model newly attached thereafter would require
// reapplication on attach; this graph only reapplies on SetTheme, matching
// the scope of the system being modeled (models are responsible for
// re-requesting theme application if they care about it after being added
// to an already-themed document).
type Theme interface {
	Name() string
	ApplyToModel(m model.Model) error
}

// DefaultTheme is a no-op theme, used when a document has none configured.
type DefaultTheme struct{}

func (DefaultTheme) Name() string                        { return "default" }
func (DefaultTheme) ApplyToModel(model.Model) error       { return nil }

var themeRegistry = map[string]Theme{
	"default": DefaultTheme{},
}

// RegisterTheme makes a named theme available to SetThemeByName.
func RegisterTheme(name string, t Theme) {
	themeRegistry[name] = t
}

// SetThemeByName looks a theme up by name and applies it, returning
// ErrBadTheme for an unregistered name.
func (d *Document) SetThemeByName(name string) error {
	t, ok := themeRegistry[name]
	if !ok {
		return fmt.Errorf("document: theme %q: %w", name, docerr.ErrBadTheme)
	}
	return d.SetTheme(t)
}
