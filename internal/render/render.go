// Package render produces the HTML served to clients: the entry page
// and the role-specific fragments pushed over the websocket.
package render

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed template set.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// EntryPage renders the full entry page.
func (r *Renderer) EntryPage() (string, error) {
	return r.execute("main.html", nil)
}

// InstructorPanel renders the control panel fragment for the
// instructor connection.
func (r *Renderer) InstructorPanel() (string, error) {
	return r.execute("instructor_panel.html", nil)
}

// ParticipantPanel renders the viewer panel fragment. navigationLocked
// mirrors the room's current student navigation lock.
func (r *Renderer) ParticipantPanel(navigationLocked bool) (string, error) {
	return r.execute("participant_panel.html", map[string]any{
		"NavigationLocked": navigationLocked,
	})
}

// Nicklist renders the roster fragment in the given order. Render
// errors degrade to an empty list so a roster broadcast never fails.
func (r *Renderer) Nicklist(nicks []string) string {
	out, err := r.execute("nicklist.html", nicks)
	if err != nil {
		return "<ul></ul>"
	}
	return out
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
