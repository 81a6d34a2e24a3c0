package pages

import (
	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/gui"
)

// HelloWorldURI is the route the sample greeting skill page registers
// under, grounded on the reference implementation's hello_world skill page.
const HelloWorldURI = "hello-world"

// RegisterHelloWorld wires the hello-world factory into registry.
func RegisterHelloWorld(registry *Registry) {
	registry.Register(HelloWorldURI, func() (*gui.PageManager, error) {
		return buildHelloWorld(), nil
	})
}

func buildHelloWorld() *gui.PageManager {
	root := dom.NewElement("div", "hello-world")

	message := dom.NewElement("div", "hello-message")
	message.SetText("Hello, world!")
	root.AppendChild(message)

	button := dom.NewElement("button", "hello-dismiss")
	button.SetText("Dismiss")
	root.AppendChild(button)

	pm := gui.NewPageManager(root)
	pm.Bindings().RegisterInteractionParameter(&gui.InteractionParameter{
		Name:    "skill.message",
		Target:  "hello-message",
		Swap:    gui.SwapInner,
		SSEName: "hello-message",
	})

	sourceAttrs, _ := pm.Bindings().RegisterCallback(&gui.CallbackRecord{
		ID:      "hello-dismiss",
		Context: gui.CallbackLocal,
		Source:  "hello-dismiss",
		Target:  "hello-world",
		Trigger: "click",
		Swap:    gui.SwapOuter,
		Handler: func(params map[string]string) error {
			message.SetText("")
			return nil
		},
	})
	button.SetAttributes(sourceAttrs)

	return pm
}
