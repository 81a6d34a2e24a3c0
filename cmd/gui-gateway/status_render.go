package main

import (
	"ovos-htmx-gui-gateway/internal/gui"
	"ovos-htmx-gui-gateway/internal/render"
	"ovos-htmx-gui-gateway/internal/status"
)

// statusRenderer turns the StatusMachine's combined render state into
// concrete SSE frames via the reserved status page's elements. It becomes
// the Machine's onRender callback, kept here rather than in internal/status
// so that package never needs to import render or gui.
func statusRenderer(pm *gui.PageManager, out *render.Renderer) func(status.Render) {
	root := pm.Root()
	return func(r status.Render) {
		if el := root.FindByID(status.ElementSpeech); el != nil {
			el.SetText(r.Speech)
			_ = out.UpdateStatus(status.ElementSpeech, el)
		}
		if el := root.FindByID(status.ElementUtterance); el != nil {
			el.SetText(r.Utterance)
			_ = out.UpdateStatus(status.ElementUtterance, el)
		}
		if el := root.FindByID(status.ElementSpinner); el != nil {
			el.SetAttributes(map[string]string{
				"sse-swap": status.ElementSpinner,
				"hx-swap":  "outerHTML",
				"class":    status.SpinnerClass(r.Spinner),
			})
			_ = out.UpdateStatus(status.ElementSpinner, el)
		}
	}
}
