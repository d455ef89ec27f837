package sink

import (
	"encoding/json"

	"github.com/matzehuels/flametower/pkg/render/flame/interact"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
}

// WithJSONStyle records the style name in the output so a consumer can
// re-render with the same look.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Empty   bool         `json:"empty,omitempty"`
	Zoomed  bool         `json:"zoomed,omitempty"`
	Zoom    string       `json:"zoom,omitempty"`
	Search  string       `json:"search,omitempty"`
	Total   int64        `json:"total"`
	Unit    string       `json:"unit"`
	Style   string       `json:"style,omitempty"`
	Frames  []jsonFrame  `json:"frames"`
	Tooltip *jsonTooltip `json:"tooltip,omitempty"`
}

type jsonFrame struct {
	Path        string                  `json:"path"`
	Name        string                  `json:"name"`
	Value       int64                   `json:"value"`
	Depth       int                     `json:"depth"`
	X           float64                 `json:"x"`
	Y           float64                 `json:"y"`
	Width       float64                 `json:"width"`
	Height      float64                 `json:"height"`
	Fill        string                  `json:"fill"`
	Label       string                  `json:"label,omitempty"`
	FontSize    float64                 `json:"font_size,omitempty"`
	Highlighted bool                    `json:"highlighted,omitempty"`
	Active      bool                    `json:"active,omitempty"`
	Zoomed      bool                    `json:"zoomed,omitempty"`
	Tooltip     interact.TooltipPayload `json:"tooltip"`
}

type jsonTooltip struct {
	interact.TooltipPayload
	Path string  `json:"path"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RenderJSON serializes the frame with indentation.
func RenderJSON(f interact.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  f.Width,
		Height: f.Height,
		Empty:  f.Empty,
		Zoomed: f.Zoomed,
		Zoom:   f.ZoomPath.String(),
		Search: f.Search,
		Total:  f.Total,
		Unit:   f.Unit,
		Style:  r.style,
		Frames: make([]jsonFrame, 0, len(f.Rects)),
	}
	for _, fr := range f.Rects {
		out.Frames = append(out.Frames, jsonFrame{
			Path:        f.TreePath(fr.Path).String(),
			Name:        fr.Node.Name,
			Value:       fr.Node.Value,
			Depth:       fr.Depth,
			X:           fr.X,
			Y:           fr.Y,
			Width:       fr.Width,
			Height:      fr.Height,
			Fill:        fr.Fill,
			Label:       fr.Label,
			FontSize:    fr.FontSize,
			Highlighted: fr.Highlighted,
			Active:      fr.Active,
			Zoomed:      fr.Zoomed,
			Tooltip:     fr.Tooltip,
		})
	}
	if t := f.Tooltip; t != nil {
		out.Tooltip = &jsonTooltip{TooltipPayload: t.TooltipPayload, Path: f.TreePath(t.Path).String(), X: t.X, Y: t.Y}
	}
	return json.MarshalIndent(out, "", "  ")
}
