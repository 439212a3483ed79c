// Package web holds the server-rendered survey pages.
package web

import (
	"embed"
	"html/template"

	"survey_wizard/internal/wizard"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is the data every survey template receives.
type Page struct {
	View wizard.View
	// Action is the path the forms post to, without the operation suffix.
	Action string
}

// Templates parses the embedded page set. Each page is addressed by its
// file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
}

var pageNames = map[wizard.Phase]string{
	wizard.PhaseLoading:             "loading.tmpl",
	wizard.PhaseInvalidSession:      "invalid.tmpl",
	wizard.PhaseAlreadyParticipated: "thank_you.tmpl",
	wizard.PhaseInProgress:          "step.tmpl",
	wizard.PhaseSubmitting:          "submitting.tmpl",
	wizard.PhaseThankYou:            "thank_you.tmpl",
	wizard.PhaseSubmitError:         "submit_error.tmpl",
}

const ErrorPage = "error.tmpl"

// PageFor returns the template that renders phase.
func PageFor(phase wizard.Phase) string {
	if name, ok := pageNames[phase]; ok {
		return name
	}
	return "invalid.tmpl"
}
