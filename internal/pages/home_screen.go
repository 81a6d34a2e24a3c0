package pages

import (
	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/gui"
)

// HomeScreenURI is the route the home screen page registers under,
// grounded on the reference implementation's home_screen carousel page.
const HomeScreenURI = "home-screen"

// RegisterHomeScreen wires the home screen factory into registry. clock
// feeds the page's wall-clock widget.
func RegisterHomeScreen(registry *Registry, clock *gui.Clock) {
	registry.Register(HomeScreenURI, func() (*gui.PageManager, error) {
		return buildHomeScreen(clock), nil
	})
}

func buildHomeScreen(clock *gui.Clock) *gui.PageManager {
	root := dom.NewElement("div", "home-screen")
	root.SetAttributes(map[string]string{"class": "home-screen"})

	clockEl := dom.NewElement("span", "home-clock")
	clockEl.SetText("--:--")
	root.AppendChild(clockEl)

	weatherEl := dom.NewElement("span", "home-weather-temp")
	weatherEl.SetText("--°")
	root.AppendChild(weatherEl)

	pm := gui.NewPageManager(root)
	pm.Bindings().RegisterInteractionParameter(&gui.InteractionParameter{
		Name:    "weather.temperature",
		Target:  "home-weather-temp",
		Swap:    gui.SwapInner,
		SSEName: "home-weather-temp",
	})
	clockEl.SetAttributes(map[string]string{"sse-swap": "home-clock", "hx-swap": string(gui.SwapInner)})

	if clock != nil {
		go runClockWidget(clock, clockEl)
	}
	return pm
}

// runClockWidget mutates clockEl's text on every tick. It publishes no
// frame itself: the new text reaches clients only inside the page's next
// root frame, so this goroutine does not need to know whether its page is
// currently shown.
func runClockWidget(clock *gui.Clock, clockEl *dom.Element) {
	ticks := clock.Subscribe()
	for t := range ticks {
		clockEl.SetText(t.Format("15:04:05"))
	}
}
