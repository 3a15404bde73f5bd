package springbone

import (
	"fmt"
	"strings"
)

// LayerMask selects collision layers. A bone tests a collider only when their
// masks share a bit.
type LayerMask uint32

const (
	DefaultLayer LayerMask = 1
	AllLayers    LayerMask = ^LayerMask(0)
)

const maxLayers = 32

func (m LayerMask) Overlaps(other LayerMask) bool {
	return m&other != 0
}

// LayerTable names the 32 layer bits.
type LayerTable struct {
	names [maxLayers]string
}

// NewLayerTable assigns names to bits in order, starting at bit 0.
// Empty names leave a bit unnamed.
func NewLayerTable(names ...string) (*LayerTable, error) {
	if len(names) > maxLayers {
		return nil, fmt.Errorf("%d layers: %w", len(names), ErrTooManyLayers)
	}
	t := &LayerTable{}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate layer name %q", name)
		}
		seen[name] = true
		t.names[i] = name
	}
	return t, nil
}

// Bit returns the single-bit mask for name.
func (t *LayerTable) Bit(name string) (LayerMask, bool) {
	if t == nil {
		return 0, false
	}
	for i, n := range t.names {
		if n != "" && n == name {
			return LayerMask(1) << i, true
		}
	}
	return 0, false
}

// Name returns the name of bit index i, or "" when unnamed or out of range.
func (t *LayerTable) Name(i int) string {
	if t == nil || i < 0 || i >= maxLayers {
		return ""
	}
	return t.names[i]
}

// ParseLayerMask ORs together the bits for names. "all" and "*" select every layer.
func (t *LayerTable) ParseLayerMask(names []string) (LayerMask, error) {
	var mask LayerMask
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "all" || name == "*" {
			return AllLayers, nil
		}
		bit, ok := t.Bit(name)
		if !ok {
			return 0, fmt.Errorf("%q: %w", name, ErrUnknownLayer)
		}
		mask |= bit
	}
	return mask, nil
}

// Names lists the named layers present in mask, in bit order.
func (t *LayerTable) Names(mask LayerMask) []string {
	var result []string
	if t == nil {
		return result
	}
	for i, n := range t.names {
		if n != "" && mask&(LayerMask(1)<<i) != 0 {
			result = append(result, n)
		}
	}
	return result
}
