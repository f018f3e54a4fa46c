package schema

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed ingestion.yaml
var defaultRules []byte

// Unbounded is the max occurrence value allowing any number of children.
const Unbounded = -1

// Schema is a set of structural rules for an XML document.
type Schema struct {
	// Root is the required document element.
	Root string `yaml:"root"`
	// Elements maps an element name to its rules.
	Elements map[string]*Element `yaml:"elements"`
}

// Element holds the rules of one element.
type Element struct {
	Attributes []Attribute `yaml:"attributes"`
	Children   []Child     `yaml:"children"`
	// Choices are groups of children of which at most one may appear.
	Choices [][]string `yaml:"choices"`
	Text    *Text      `yaml:"text"`
	// Open elements accept any content.
	Open bool `yaml:"open"`

	children map[string]Child
	attrs    map[string]*Attribute
}

// Attribute restricts one attribute.
type Attribute struct {
	Name     string   `yaml:"name"`
	Required bool     `yaml:"required"`
	Enum     []string `yaml:"enum"`
	Pattern  string   `yaml:"pattern"`

	re *regexp.Regexp
}

// Child declares an allowed child element and its occurrence bounds.
type Child struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// Text restricts the character data of a leaf element.
type Text struct {
	Enum    []string `yaml:"enum"`
	Pattern string   `yaml:"pattern"`

	re *regexp.Regexp
}

// Default returns the embedded ingestion feed schema.
func Default() (*Schema, error) {
	return Parse(defaultRules)
}

// Load reads a schema from path. An empty path loads the embedded schema.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and compiles a YAML rule document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if s.Root == "" {
		return nil, fmt.Errorf("schema has no root element")
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) compile() error {
	if s.Elements == nil {
		s.Elements = make(map[string]*Element)
	}
	for name, el := range s.Elements {
		if el == nil {
			el = &Element{}
			s.Elements[name] = el
		}
		el.children = make(map[string]Child, len(el.Children))
		for _, c := range el.Children {
			if c.Max == 0 {
				c.Max = 1
			}
			if c.Max != Unbounded && c.Min > c.Max {
				return fmt.Errorf("element %s: child %s has min %d above max %d", name, c.Name, c.Min, c.Max)
			}
			el.children[c.Name] = c
		}
		el.attrs = make(map[string]*Attribute, len(el.Attributes))
		for i := range el.Attributes {
			a := &el.Attributes[i]
			if a.Pattern != "" {
				re, err := regexp.Compile(a.Pattern)
				if err != nil {
					return fmt.Errorf("element %s: attribute %s: %w", name, a.Name, err)
				}
				a.re = re
			}
			el.attrs[a.Name] = a
		}
		if el.Text != nil && el.Text.Pattern != "" {
			re, err := regexp.Compile(el.Text.Pattern)
			if err != nil {
				return fmt.Errorf("element %s: text: %w", name, err)
			}
			el.Text.re = re
		}
	}
	return nil
}
