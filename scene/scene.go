// Package scene loads entity trees from YAML descriptions and builds them
// in a world. A scene file is a list of root nodes; each node may name
// itself, list classes and components, and nest children.
package scene

import (
	"bytes"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"ecss/ecs"
)

// Node is one entity description.
type Node struct {
	Name       string   `yaml:"name,omitempty"`
	Classes    string   `yaml:"classes,omitempty"`
	Components []string `yaml:"components,omitempty"`
	Text       string   `yaml:"text,omitempty"`
	Hovered    bool     `yaml:"hovered,omitempty"`
	Children   []Node   `yaml:"children,omitempty"`
}

// Parse decodes a scene description, rejecting unknown fields.
func Parse(data []byte) ([]Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var nodes []Node
	if err := dec.Decode(&nodes); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return nodes, nil
}

// Load reads and parses a scene file.
func Load(path string) ([]Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read scene: %w", err)
	}
	return Parse(data)
}

// Build spawns the described entities under parent and returns the roots of
// the spawned subtrees.
func Build(w *ecs.World, parent ecs.Entity, nodes []Node) ([]ecs.Entity, error) {
	var roots []ecs.Entity
	for _, n := range nodes {
		e, err := build(w, parent, n)
		if err != nil {
			return nil, err
		}
		roots = append(roots, e)
	}
	return roots, nil
}

func build(w *ecs.World, parent ecs.Entity, n Node) (ecs.Entity, error) {
	e := w.Spawn(parent, n.Name)
	if n.Classes != "" {
		w.SetClassList(e, n.Classes)
	}
	for _, tag := range n.Components {
		c, err := component(tag, n)
		if err != nil {
			return ecs.None, fmt.Errorf("entity %q: %w", n.Name, err)
		}
		w.Insert(e, c)
	}
	if n.Text != "" && !w.Has(e, ecs.TagText) {
		w.Insert(e, &ecs.Text{Content: n.Text})
	}
	if _, err := Build(w, e, n.Children); err != nil {
		return ecs.None, err
	}
	return e, nil
}

func component(tag string, n Node) (ecs.Component, error) {
	switch tag {
	case ecs.TagLayout:
		return &ecs.Layout{}, nil
	case ecs.TagText:
		return &ecs.Text{Content: n.Text}, nil
	case ecs.TagBackground:
		return &ecs.Background{}, nil
	case ecs.TagImage:
		return &ecs.Image{}, nil
	case ecs.TagInteraction:
		return &ecs.Interaction{Hovered: n.Hovered}, nil
	}
	return nil, fmt.Errorf("unknown component %q", tag)
}
