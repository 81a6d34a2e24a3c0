package pages

import (
	"sync"
	"testing"

	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/gui"
)

func TestRegistryBuildUnknownURI(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build("nope"); err == nil {
		t.Fatal("expected an error for an unregistered uri")
	}
}

func TestRegistryDedupesConcurrentBuilds(t *testing.T) {
	var calls int
	var mu sync.Mutex
	r := NewRegistry()
	r.Register("slow-page", func() (*gui.PageManager, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return gui.NewPageManager(dom.NewElement("div", "slow-page")), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Build("slow-page"); err != nil {
				t.Errorf("Build: %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls == 0 {
		t.Fatal("factory should have been called at least once")
	}
}

func TestHomeScreenWeatherBindingRegistered(t *testing.T) {
	registry := NewRegistry()
	clock := gui.NewClock()
	RegisterHomeScreen(registry, clock)

	pm, err := registry.Build(HomeScreenURI)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := pm.Bindings().Parameters["weather.temperature"]; !ok {
		t.Fatal("expected weather.temperature binding to be registered")
	}
}
