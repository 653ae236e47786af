// Package mapview owns the rendering state for one map surface: the drawn
// route layers, the highlighted selection, origin/destination markers, the
// viewport, and point-picking. The map surface itself (a browser-side
// renderer) only consumes the frames this package produces.
package mapview

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Styling applied to route lines. The selected alternative is drawn heavier
// and fully opaque so it stands out from the rest.
const (
	selectedColor   = "#2bee6c"
	unselectedColor = "#94a3b8"

	selectedWidth   = 6.0
	unselectedWidth = 4.0

	selectedOpacity   = 1.0
	unselectedOpacity = 0.6
)

// defaultLocationWait bounds the one-shot wait for a device position before
// the view falls back to the default world view.
const defaultLocationWait = 8 * time.Second

// Route is one drawable alternative: its geometry as [lng, lat] pairs.
type Route struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// Layer is a rendered route line.
type Layer struct {
	ID          string       `json:"id"`
	Coordinates [][2]float64 `json:"coordinates"`
	Color       string       `json:"color"`
	Width       float64      `json:"width"`
	Opacity     float64      `json:"opacity"`
}

// Bounds is a [lng, lat] bounding box.
type Bounds struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// Viewport is either a centered view or a fit to bounds.
type Viewport struct {
	CenterLng float64 `json:"centerLng"`
	CenterLat float64 `json:"centerLat"`
	Zoom      float64 `json:"zoom"`
	Fit       *Bounds `json:"fit,omitempty"`
}

// Place is a picked or located point together with its resolved address.
type Place struct {
	Address string  `json:"address"`
	Lng     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
}

// PickTarget says which trip endpoint the next map click assigns.
type PickTarget string

const (
	PickNone        PickTarget = ""
	PickSource      PickTarget = "source"
	PickDestination PickTarget = "destination"
)

// AddressResolver resolves a coordinate to an address string. It never fails;
// the discovery service's fallback contract guarantees a usable string.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, lng, lat float64) string
}

// Frame is the full render state pushed to the map surface.
type Frame struct {
	Ready       bool       `json:"ready"`
	Layers      []Layer    `json:"layers"`
	Selected    int        `json:"selected"`
	Picking     PickTarget `json:"picking,omitempty"`
	Source      *Place     `json:"source,omitempty"`
	Destination *Place     `json:"destination,omitempty"`
	Viewport    Viewport   `json:"viewport"`
}

// View holds all state for one map surface. Route updates arriving before the
// surface reports ready land in a single pending slot; a newer update simply
// overwrites an older one, and the slot is replayed exactly once on ready.
type View struct {
	mu       sync.Mutex
	resolver AddressResolver

	ready      bool
	pending    []Route
	hasPending bool

	routes   []Route
	layers   map[string]Layer
	selected int
	viewport Viewport

	picking     PickTarget
	source      *Place
	destination *Place

	// LocationWait overrides the position-wait bound; tests shorten it.
	LocationWait time.Duration
	locateGen    int
}

func New(resolver AddressResolver) *View {
	return &View{
		resolver:     resolver,
		layers:       make(map[string]Layer),
		viewport:     worldView(),
		LocationWait: defaultLocationWait,
	}
}

func worldView() Viewport {
	return Viewport{CenterLng: 0, CenterLat: 20, Zoom: 4}
}

// Ready marks the surface loaded and replays any buffered route update.
func (v *View) Ready() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.ready = true
	if v.hasPending {
		v.apply(v.pending)
		v.pending = nil
		v.hasPending = false
	}
}

// SetRoutes replaces the displayed route set. Before the surface is ready the
// update is buffered; only the latest route set matters, so a second update
// overwrites the first.
func (v *View) SetRoutes(routes []Route) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.selected = 0
	if !v.ready {
		v.pending = routes
		v.hasPending = true
		return
	}
	v.apply(routes)
}

// apply reconciles layers against the desired route set and refits the
// viewport. Callers hold the lock.
func (v *View) apply(routes []Route) {
	v.routes = routes

	desired := make(map[string]bool, len(routes))
	for i := range routes {
		desired[layerID(i)] = true
	}
	for id := range v.layers {
		if !desired[id] {
			delete(v.layers, id)
		}
	}
	for i, route := range routes {
		id := layerID(i)
		layer := v.layers[id]
		layer.ID = id
		layer.Coordinates = route.Coordinates
		v.layers[id] = layer
	}
	v.restyle()
	v.fitViewport()
}

func layerID(i int) string {
	return fmt.Sprintf("route-%d", i)
}

func (v *View) restyle() {
	for i := range v.routes {
		id := layerID(i)
		layer := v.layers[id]
		if i == v.selected {
			layer.Color = selectedColor
			layer.Width = selectedWidth
			layer.Opacity = selectedOpacity
		} else {
			layer.Color = unselectedColor
			layer.Width = unselectedWidth
			layer.Opacity = unselectedOpacity
		}
		v.layers[id] = layer
	}
}

func (v *View) fitViewport() {
	var bounds *Bounds
	for _, route := range v.routes {
		for _, c := range route.Coordinates {
			if bounds == nil {
				bounds = &Bounds{MinLng: c[0], MinLat: c[1], MaxLng: c[0], MaxLat: c[1]}
				continue
			}
			if c[0] < bounds.MinLng {
				bounds.MinLng = c[0]
			}
			if c[0] > bounds.MaxLng {
				bounds.MaxLng = c[0]
			}
			if c[1] < bounds.MinLat {
				bounds.MinLat = c[1]
			}
			if c[1] > bounds.MaxLat {
				bounds.MaxLat = c[1]
			}
		}
	}
	if bounds == nil {
		return
	}
	v.viewport = Viewport{
		CenterLng: (bounds.MinLng + bounds.MaxLng) / 2,
		CenterLat: (bounds.MinLat + bounds.MaxLat) / 2,
		Zoom:      15,
		Fit:       bounds,
	}
}

// Select highlights one alternative. Out-of-range indexes are ignored.
func (v *View) Select(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i < 0 || i >= len(v.routes) {
		return
	}
	v.selected = i
	v.restyle()
}

// StartPicking arms the next click to assign the given trip endpoint.
func (v *View) StartPicking(target PickTarget) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.picking = target
}

// Click handles a map click. In picking mode the point is resolved to an
// address, assigned to the armed endpoint, and picking mode exits. Outside
// picking mode clicks are ignored.
func (v *View) Click(ctx context.Context, lng, lat float64) *Place {
	v.mu.Lock()
	target := v.picking
	v.mu.Unlock()

	if target == PickNone {
		return nil
	}

	// Resolve outside the lock; the resolver may hit the network.
	place := &Place{
		Address: v.resolver.ResolveAddress(ctx, lng, lat),
		Lng:     lng,
		Lat:     lat,
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	switch target {
	case PickSource:
		v.source = place
	case PickDestination:
		v.destination = place
	}
	v.picking = PickNone
	return place
}

// RequestLocation starts the one-shot wait for the device position. If no
// position arrives within the bound, the viewport resets to the world view.
func (v *View) RequestLocation() {
	v.mu.Lock()
	v.locateGen++
	gen := v.locateGen
	wait := v.LocationWait
	v.mu.Unlock()

	time.AfterFunc(wait, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.locateGen != gen {
			return // a position arrived, or a newer request superseded this one
		}
		v.viewport = worldView()
	})
}

// ProvideLocation centers the viewport on the reported device position and
// cancels the pending timeout.
func (v *View) ProvideLocation(lng, lat float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.locateGen++
	v.viewport = Viewport{CenterLng: lng, CenterLat: lat, Zoom: 14}
}

// Snapshot returns the current render state with layers in draw order.
func (v *View) Snapshot() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	layers := make([]Layer, 0, len(v.routes))
	for i := range v.routes {
		layers = append(layers, v.layers[layerID(i)])
	}
	return Frame{
		Ready:       v.ready,
		Layers:      layers,
		Selected:    v.selected,
		Picking:     v.picking,
		Source:      v.source,
		Destination: v.destination,
		Viewport:    v.viewport,
	}
}
