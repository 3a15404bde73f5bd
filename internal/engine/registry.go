package engine

import (
	"fmt"
	"slices"
)

// Serializable is implemented by components that can be saved to and loaded
// from a scene file.
type Serializable interface {
	Component
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any)
}

// ComponentFactory creates an empty component ready for Deserialize.
type ComponentFactory func() Serializable

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent registers a component type under its scene-file name.
// Registering the same name twice panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent builds a registered component and applies data to it.
// Returns nil if name is unknown.
func CreateComponent(name string, data map[string]any) Serializable {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil
	}
	c := factory()
	c.Deserialize(data)
	return c
}

// RegisteredComponents returns the sorted names of all registered components.
func RegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
