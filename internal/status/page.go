package status

import (
	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/gui"
)

// PageURI is the status bar's page-registry route. It is inserted into the
// reserved status namespace once at startup and never rebuilt afterward.
const PageURI = "status-bar"

// Element ids the status bar's facets are addressed by, shared between
// BuildPage and whatever wires a Machine's onRender callback to a renderer.
const (
	ElementSpeech    = "status-speech"
	ElementUtterance = "status-utterance"
	ElementSpinner   = "status-spinner"
)

// BuildPage constructs the status bar's document: three independently
// addressable facets (speech, utterance, spinner) that a Machine's render
// callback updates directly by id, grounded on the reference
// implementation's status overlay markup in renderer.py.
func BuildPage() *gui.PageManager {
	root := dom.NewElement("div", "status-root")

	speech := dom.NewElement("span", ElementSpeech)
	speech.SetAttributes(map[string]string{"sse-swap": ElementSpeech, "hx-swap": "innerHTML"})

	utterance := dom.NewElement("span", ElementUtterance)
	utterance.SetAttributes(map[string]string{"sse-swap": ElementUtterance, "hx-swap": "innerHTML"})

	spinner := dom.NewElement("div", ElementSpinner)
	spinner.SetAttributes(map[string]string{
		"sse-swap": ElementSpinner,
		"hx-swap":  "outerHTML",
		"class":    SpinnerClass(""),
	})

	root.AppendChild(speech)
	root.AppendChild(utterance)
	root.AppendChild(spinner)
	return gui.NewPageManager(root)
}
