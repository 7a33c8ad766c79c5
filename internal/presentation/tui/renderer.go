package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown for a terminal with the given color
// profile. Light or dark backgrounds are detected automatically.
func NewRenderer(profile termenv.Profile, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(width),
	}
	if profile == termenv.Ascii {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
