package styles

import (
	"regexp"
	"strings"

	"github.com/matzehuels/flametower/pkg/errors"
)

// DefaultPalette is the fill palette for frames.
var DefaultPalette = []string{
	"#FFB74D", "#4FC3F7", "#81C784", "#BA68C8", "#E57373",
	"#FFD54F", "#A1887F", "#90A4AE", "#64B5F6", "#F06292",
	"#537e8b", "#c12561", "#fec91b", "#3f7350", "#408118",
	"#3ea9da", "#9fb036", "#b671c1", "#faa938",
}

// Hash is a polynomial rolling hash over the runes of s.
func Hash(s string) uint32 {
	var h uint32
	for _, r := range s {
		h = h*31 + uint32(r)
	}
	return h
}

// ColorFor returns the palette entry for name. Different names may share a
// color. An empty palette yields "".
func ColorFor(name string, palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[Hash(name)%uint32(len(palette))]
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParsePalette parses a comma-separated list of hex colors.
func ParsePalette(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		c := strings.TrimSpace(part)
		if c == "" {
			continue
		}
		if !hexColor.MatchString(c) {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "invalid palette color %q", c)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "palette is empty")
	}
	return out, nil
}
