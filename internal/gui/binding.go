package gui

// SwapMode mirrors htmx's hx-swap strategies used when a bus event
// refreshes part of a page without a full page rebuild.
type SwapMode string

const (
	SwapInner     SwapMode = "innerHTML"
	SwapOuter     SwapMode = "outerHTML"
	SwapAttribute SwapMode = "attribute"
)

// CallbackContext matches the reference implementation's local/global
// callback split: a local callback only updates the element that
// triggered it, a global one is broadcast over the SSE event named after
// the callback id.
type CallbackContext int

const (
	CallbackLocal CallbackContext = iota
	CallbackGlobal
)

// InteractionParameter binds a named bus property to a target element, so
// that updates to the property re-render just that element.
type InteractionParameter struct {
	Name    string
	Target  string // element id
	Swap    SwapMode
	SSEName string // sse-swap event name when Swap != SwapAttribute
}

// CallbackRecord binds a DOM interaction to a handler invoked when the
// gateway observes that interaction, grounded on the teacher's
// placeholder-substitution action records.
type CallbackRecord struct {
	ID      string
	Context CallbackContext
	Source  string // element id carrying hx-trigger (global) or hx-get (local)
	Target  string // element id receiving the result
	Trigger string // hx-trigger value, e.g. "click"
	Swap    SwapMode
	Handler func(params map[string]string) error
}

// DialogRecord names a dialog owned by a page, addressed by the renderer's
// OpenDialog/CloseDialog.
type DialogRecord struct {
	ID     string
	Target string
}

// BindingTable collects everything a page registers so the renderer and
// the server's event endpoints can look bindings up by id.
type BindingTable struct {
	Parameters map[string]*InteractionParameter
	Callbacks  map[string]*CallbackRecord
	Dialogs    map[string]*DialogRecord
}

// NewBindingTable returns an empty binding table.
func NewBindingTable() *BindingTable {
	return &BindingTable{
		Parameters: make(map[string]*InteractionParameter),
		Callbacks:  make(map[string]*CallbackRecord),
		Dialogs:    make(map[string]*DialogRecord),
	}
}

// RegisterInteractionParameter records param and returns the attribute set
// to apply to its target element.
func (b *BindingTable) RegisterInteractionParameter(p *InteractionParameter) map[string]string {
	b.Parameters[p.Name] = p
	if p.Swap == SwapAttribute {
		return nil
	}
	return map[string]string{
		"sse-swap": p.SSEName,
		"hx-swap":  string(p.Swap),
	}
}

// RegisterCallback records cb and returns the attribute sets to apply to
// its source element and, for global callbacks, its target element.
func (b *BindingTable) RegisterCallback(cb *CallbackRecord) (sourceAttrs, targetAttrs map[string]string) {
	b.Callbacks[cb.ID] = cb
	switch cb.Context {
	case CallbackLocal:
		sourceAttrs = map[string]string{
			"hx-get":     "/local-event/" + cb.ID,
			"hx-trigger": cb.Trigger,
			"hx-target":  "#" + cb.Target,
			"hx-swap":    string(cb.Swap),
		}
		return sourceAttrs, nil
	case CallbackGlobal:
		sourceAttrs = map[string]string{
			"hx-post":    "/global-event/" + cb.ID,
			"hx-trigger": cb.Trigger,
		}
		targetAttrs = map[string]string{
			"sse-swap": cb.ID,
			"hx-swap":  string(cb.Swap),
		}
		return sourceAttrs, targetAttrs
	default:
		return nil, nil
	}
}

// RegisterDialog records d.
func (b *BindingTable) RegisterDialog(d *DialogRecord) {
	b.Dialogs[d.ID] = d
}
