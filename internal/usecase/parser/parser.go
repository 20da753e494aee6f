// Package parser turns free-form inference output into an EventRecord. Parsing is
// total: unexpected prose degrades to defaults instead of failing the pipeline.
package parser

import (
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
)

const (
	labelEventName        = "Event Name:"
	labelEventDescription = "Event Description:"
	labelOccasion         = "Occasion:"

	_defaultEventName         = "Untitled Event"
	_defaultEventDescription  = "No description available"
	_defaultOccasion          = "Unspecified occasion"
	_defaultMemoryDescription = "Generated from automated analysis of the image"
	_defaultCoordinate        = "0"
)

type Defaults struct {
	EventName         string
	EventDescription  string
	Occasion          string
	MemoryDescription string
}

type Parser struct {
	defaults Defaults
}

// New fills any empty default with the built-in one, so parsed records never carry
// an empty field.
func New(d Defaults) *Parser {
	return &Parser{defaults: Defaults{
		EventName:         orDefault(d.EventName, _defaultEventName),
		EventDescription:  orDefault(d.EventDescription, _defaultEventDescription),
		Occasion:          orDefault(d.Occasion, _defaultOccasion),
		MemoryDescription: orDefault(d.MemoryDescription, _defaultMemoryDescription),
	}}
}

func (p *Parser) Defaults() Defaults {
	return p.defaults
}

// Parse never fails. Coordinates are taken from the caller as is; the text cannot
// override them.
func (p *Parser) Parse(text string, coordinates entity.Coordinates) entity.EventRecord {
	var name, description, occasion string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "-*#> \t")

		switch {
		case name == "" && hasLabel(line, labelEventName):
			name = value(line, labelEventName)
		case description == "" && hasLabel(line, labelEventDescription):
			description = value(line, labelEventDescription)
		case occasion == "" && hasLabel(line, labelOccasion):
			occasion = value(line, labelOccasion)
		}
	}

	return entity.EventRecord{
		EventName:        orDefault(name, p.defaults.EventName),
		EventDescription: orDefault(description, p.defaults.EventDescription),
		Occasion:         orDefault(occasion, p.defaults.Occasion),
		LocationCoordinates: entity.Coordinates{
			orDefault(strings.TrimSpace(coordinates.Lat()), _defaultCoordinate),
			orDefault(strings.TrimSpace(coordinates.Lon()), _defaultCoordinate),
		},
		MemoryDescription: p.defaults.MemoryDescription,
	}
}

func hasLabel(line, label string) bool {
	return len(line) >= len(label) && strings.EqualFold(line[:len(label)], label)
}

// value strips the label and the markdown emphasis models like to wrap it in.
func value(line, label string) string {
	return strings.Trim(line[len(label):], " \t*_")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
