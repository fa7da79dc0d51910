package store

import "context"

// Zoom level bounds. Lower levels show fewer, larger thumbnails.
const (
	MinZoomLevel = -1
	MaxZoomLevel = 3
)

// Breakpoints is the number of grid columns per screen-width class.
type Breakpoints struct {
	XS int `json:"xs"`
	SM int `json:"sm"`
	MD int `json:"md"`
	LG int `json:"lg"`
	XL int `json:"xl"`
}

// DefaultBreakpoints is the column table at level 0.
var DefaultBreakpoints = Breakpoints{XS: 2, SM: 3, MD: 4, LG: 5, XL: 6}

// ComputeBreakpoints derives the column table for level. The three widest
// classes move two columns per level, the others one.
func ComputeBreakpoints(level int) Breakpoints {
	d := DefaultBreakpoints
	return Breakpoints{
		XS: d.XS + level,
		SM: d.SM + level,
		MD: d.MD + 2*level,
		LG: d.LG + 2*level,
		XL: d.XL + 2*level,
	}
}

type ZoomState struct {
	Level       int         `json:"zoomLevel"`
	Breakpoints Breakpoints `json:"zoomBreakpoints"`
}

func (s ZoomState) CanZoomIn() bool  { return s.Level > MinZoomLevel }
func (s ZoomState) CanZoomOut() bool { return s.Level < MaxZoomLevel }

func clampZoom(level int) int {
	return max(MinZoomLevel, min(MaxZoomLevel, level))
}

// Zoom is the persisted grid density.
type Zoom struct {
	rec record[ZoomState]
}

func NewZoom(p Persister) *Zoom {
	return &Zoom{rec: record[ZoomState]{
		key:   KeyZoom,
		p:     p,
		state: ZoomState{Level: 0, Breakpoints: ComputeBreakpoints(0)},
		clone: identity[ZoomState],
		normalize: func(s ZoomState) ZoomState {
			lvl := clampZoom(s.Level)
			return ZoomState{Level: lvl, Breakpoints: ComputeBreakpoints(lvl)}
		},
	}}
}

func (z *Zoom) State() ZoomState { return z.rec.get() }

// ZoomIn shows fewer columns. It is a no-op at the lower bound.
func (z *Zoom) ZoomIn(ctx context.Context) (ZoomState, error) {
	return z.step(ctx, -1)
}

// ZoomOut shows more columns. It is a no-op at the upper bound.
func (z *Zoom) ZoomOut(ctx context.Context) (ZoomState, error) {
	return z.step(ctx, +1)
}

func (z *Zoom) step(ctx context.Context, delta int) (ZoomState, error) {
	cur := z.rec.get()
	next := clampZoom(cur.Level + delta)
	if next == cur.Level {
		return cur, nil
	}
	err := z.rec.update(ctx, func(s *ZoomState) error {
		s.Level = clampZoom(s.Level + delta)
		s.Breakpoints = ComputeBreakpoints(s.Level)
		return nil
	})
	return z.rec.get(), err
}

func (z *Zoom) Hydrate(ctx context.Context) (bool, error) { return z.rec.hydrate(ctx) }
