package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/sink"
)

func ExampleRenderSVG() {
	tree := flame.New("main", 100,
		flame.New("parse", 70),
		flame.New("write", 30),
	)
	c := interact.New(tree, interact.WithWidth(600))

	svg := string(sink.RenderSVG(c.Frame()))
	fmt.Println(strings.HasPrefix(svg, "<svg"))
	fmt.Println(strings.Count(svg, "<rect id=\"frame-"))
	// Output:
	// true
	// 3
}
