// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a JSON tree or folded stacks into an [io.Document]
//  2. Frame: drive an [interact.Controller] with the requested width, search,
//     zoom and total, and take its frame
//  3. Render: encode the frame (svg, json, png, pdf) or the call graph of the
//     frame's root (dot, graph.svg)
//
// Parsed trees are cached by content hash and artifacts by tree hash plus
// every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, logger, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "cpu.folded",
//	    Formats: []string{"svg", "json"},
//	    Search:  "parse",
//	})
//	svg := result.Artifacts["svg"]
//
// [io.Document]: github.com/matzehuels/flametower/pkg/io.Document
// [interact.Controller]: github.com/matzehuels/flametower/pkg/render/flame/interact.Controller
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/units"
)

const (
	// DefaultWidth is the frame width used when none is given.
	DefaultWidth = interact.DefaultWidth

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.StyleSimple

	// DefaultUnit applies when neither the options nor the input name one.
	DefaultUnit = units.Nanoseconds

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// TTLTree is how long parsed trees stay cached.
	TTLTree = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatGraphSVG = "graph.svg"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatDOT, FormatGraphSVG}

// ValidStyles lists the supported visual styles.
var ValidStyles = []string{styles.StyleSimple, styles.StylePrint}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Input string `json:"input,omitempty"`

	// Frame options
	Width   float64  `json:"width,omitempty"`
	Search  string   `json:"search,omitempty"`
	Zoom    string   `json:"zoom,omitempty"` // node path, see flame.ParsePath
	Total   int64    `json:"total,omitempty"`
	Unit    string   `json:"unit,omitempty"`
	Palette []string `json:"palette,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	ZoomURL     string   `json:"zoom_url,omitempty"`
	Title       string   `json:"title,omitempty"`
	MinPercent  float64  `json:"min_percent,omitempty"`
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"` // bypass cached trees and artifacts
	Logger  *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TreeHash identifies the parsed tree in cache keys.
	TreeHash string

	// Frame is the controller output the artifacts were rendered from.
	Frame interact.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	Depth      int
	Rects      int
	ParseTime  time.Duration
	FrameTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool
	RenderHit bool // every requested artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	if err != nil || style == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(ValidStyles, ", "))
	}
	return nil
}

// SplitFormats parses a comma-separated format list as given on the command
// line or in a query string, dropping blanks and duplicates.
func SplitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateWidth(o.Width); err != nil {
		return err
	}
	if err := errors.ValidateTotal(o.Total); err != nil {
		return err
	}
	if err := errors.ValidateSearch(o.Search); err != nil {
		return err
	}
	if o.MinPercent < 0 || o.MinPercent > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "min percent must be between 0 and 100, got %v", o.MinPercent)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format, unit string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Width:       o.Width,
		Search:      o.Search,
		Zoom:        o.Zoom,
		Total:       o.Total,
		Unit:        unit,
		Palette:     o.Palette,
		Title:       o.Title,
		Interactive: o.Interactive,
		ZoomURL:     o.ZoomURL,
		MinPercent:  o.MinPercent,
		Scale:       o.Scale,
	}
}
