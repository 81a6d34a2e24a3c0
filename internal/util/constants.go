package util

import "time"

// Bus connection defaults, used when config.toml omits them.
const (
	DefaultBusURL           = "ws://localhost:8181/core"
	DefaultGUIID            = "gui-htmx-gateway"
	DefaultFramework        = "htmx"
	DefaultPingPeriod       = 20 * time.Second
	DefaultConnectionCheck  = 45 * time.Second
	DefaultReconnectBackoff = 1 * time.Second
	DefaultReconnectMax     = 30 * time.Second
)

// Session registry defaults.
const (
	DefaultSessionGraceFactor = 3
	DefaultSessionSweepPeriod = 5 * time.Second
)

// StatusNamespace is the reserved namespace created before any client
// connects, holding the always-visible status bar page group.
const StatusNamespace = "status"
