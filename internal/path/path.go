// Package path implements the canonical widget-path addressing scheme: a
// structural, serializable address for a live widget and the resolution of
// such an address back to a widget in a (possibly reconstructed) tree.
package path

import (
	"fmt"
	"strings"
)

// PathElement is one hop in a structural address. Index is the position of
// the widget among same-typed siblings at that tree level, Type is the
// reversible type reference and Name the optional user-assigned identifier.
type PathElement struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
}

func (e PathElement) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%d %q %s", e.Index, e.Name, e.Type)
	}
	return fmt.Sprintf("%d %s", e.Index, e.Type)
}

// ObjectPath is a structural address, root window first, target last. A
// one-element path addresses a top-level window itself.
type ObjectPath []PathElement

// Key returns a canonical string form usable as a map key.
func (p ObjectPath) Key() string {
	var sb strings.Builder
	for i, el := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		fmt.Fprintf(&sb, "%d:%s:%s", el.Index, el.Type, el.Name)
	}
	return sb.String()
}

func (p ObjectPath) String() string {
	parts := make([]string, len(p))
	for i, el := range p {
		parts[i] = el.String()
	}
	return strings.Join(parts, " -> ")
}
