package path

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/uireplay/uireplay/pkg/ui"
)

// Resolver converts live widget references to object paths and back. It is
// stateless apart from a memoized type-string cache and is safe to share
// between recorder and replayer because all access happens on the UI thread.
type Resolver struct {
	app    ui.App
	fuzzy  bool
	logger *slog.Logger

	mu        sync.Mutex
	typeNames map[reflect.Type]string
}

// Options configures a Resolver.
type Options struct {
	// Fuzzy enables subtree search by type during structural descent,
	// trading positional precision for resilience to structural drift.
	Fuzzy  bool
	Logger *slog.Logger
}

// NewResolver constructs a resolver bound to the given runtime context.
func NewResolver(app ui.App, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		app:       app,
		fuzzy:     opts.Fuzzy,
		logger:    logger,
		typeNames: make(map[reflect.Type]string),
	}
}

// Children enumerates w's children through every capability the widget
// exposes: splitter panes and handles first, then layout-managed widgets,
// then generic object children. A nil widget enumerates the top-level
// windows. The same enumeration is used by serialization and resolution, so
// duplicates across capabilities are harmless as long as the order is stable.
func (r *Resolver) Children(w ui.Widget) []ui.Widget {
	if w == nil {
		return r.app.TopLevelWidgets()
	}
	var out []ui.Widget
	if s, ok := w.(ui.Splitter); ok {
		out = append(out, s.Panes()...)
		out = append(out, s.Handles()...)
	}
	if l, ok := w.(ui.Layouter); ok {
		out = append(out, l.LayoutWidgets()...)
	}
	if c, ok := w.(ui.Container); ok {
		out = append(out, c.ObjectChildren()...)
	}
	return out
}

func (r *Resolver) typeName(w ui.Widget) string {
	t := ui.ConcreteType(w)
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.typeNames[t]; ok {
		return name
	}
	name := ui.TypeName(w)
	r.typeNames[t] = name
	return name
}

// SerializeWidget walks the ancestor chain of w and returns its structural
// address, or nil if the widget cannot be addressed. Partial paths are never
// returned: any unresolvable hop abandons the whole path with a warning.
func (r *Resolver) SerializeWidget(w ui.Widget) ObjectPath {
	if w == nil {
		return nil
	}
	var reversed []PathElement
	current := w
	for current != nil {
		widget := current
		parent := current.Parent()
		index := r.typedIndex(widget, r.Children(parent))
		if index < 0 {
			r.logger.Warn("skipping unreachable object path",
				slog.String("widget", r.typeName(w)),
				slog.Int("depth", len(reversed)),
			)
			return nil
		}
		typeName := r.typeName(widget)
		if typeName == "" {
			r.logger.Warn("widget type is not serializable",
				slog.String("name", widget.ObjectName()),
			)
			return nil
		}
		reversed = append(reversed, PathElement{
			Index: index,
			Type:  typeName,
			Name:  widget.ObjectName(),
		})
		current = parent
	}
	path := make(ObjectPath, len(reversed))
	for i, el := range reversed {
		path[len(reversed)-1-i] = el
	}
	r.logger.Debug("serialized object path", slog.String("path", path.String()))
	return path
}

// typedIndex returns the position of w among children of the same concrete
// type, or -1 if w does not appear in children at all.
func (r *Resolver) typedIndex(w ui.Widget, children []ui.Widget) int {
	want := ui.ConcreteType(w)
	i := 0
	for _, c := range children {
		if ui.ConcreteType(c) != want {
			continue
		}
		if c == w {
			return i
		}
		i++
	}
	return -1
}

// typedNth returns the n-th child of exactly the given type, or nil.
func typedNth(n int, want reflect.Type, children []ui.Widget) ui.Widget {
	i := 0
	for _, c := range children {
		if ui.ConcreteType(c) != want {
			continue
		}
		if i == n {
			return c
		}
		i++
	}
	return nil
}

// DeserializeWidget resolves a structural address to a live widget, or nil.
// A named target is first looked up application-wide by name; otherwise the
// path is descended structurally from the top-level windows, exactly by
// typed sibling index, or by first-in-subtree type match when fuzzy matching
// is enabled.
func (r *Resolver) DeserializeWidget(path ObjectPath) ui.Widget {
	if len(path) == 0 {
		return nil
	}
	target := path[len(path)-1]

	if target.Name != "" {
		if w := r.findByName(target); w != nil {
			return w
		}
		r.logger.Warn("no widget found by recorded name; falling back to structural search",
			slog.String("name", target.Name),
		)
	}

	return r.descend(path, 0, r.app.TopLevelWidgets())
}

func (r *Resolver) findByName(target PathElement) ui.Widget {
	wantType, _ := ui.TypeByName(target.Type)
	var byNameOnly ui.Widget
	for _, w := range r.app.AllWidgets() {
		if w.ObjectName() != target.Name {
			continue
		}
		if wantType != nil && ui.ConcreteType(w) == wantType {
			return w
		}
		if byNameOnly == nil {
			byNameOnly = w
		}
	}
	if byNameOnly != nil {
		// Names are not guaranteed unique or stable, so a type mismatch may
		// mean the widget moved, or that the match is simply wrong.
		r.logger.Warn("widget found by name but its type does not match the recording; the result may be invalid",
			slog.String("name", target.Name),
			slog.String("recorded_type", target.Type),
		)
	}
	return byNameOnly
}

func (r *Resolver) descend(path ObjectPath, depth int, candidates []ui.Widget) ui.Widget {
	element := path[depth]
	wantType, ok := ui.TypeByName(element.Type)
	if !ok {
		r.logger.Warn("recorded type is not registered with this build",
			slog.String("type", element.Type),
		)
		return nil
	}

	var widget ui.Widget
	if r.fuzzy {
		widget = firstInSubtrees(r, wantType, candidates)
	} else {
		widget = typedNth(element.Index, wantType, candidates)
	}
	if widget == nil || depth == len(path)-1 {
		return widget
	}
	return r.descend(path, depth+1, r.Children(widget))
}

// firstInSubtrees searches candidates and their full descendant subtrees,
// depth first in order, for the first widget of exactly the wanted type.
func firstInSubtrees(r *Resolver, want reflect.Type, candidates []ui.Widget) ui.Widget {
	for _, c := range candidates {
		if ui.ConcreteType(c) == want {
			return c
		}
	}
	for _, c := range candidates {
		if w := firstInSubtrees(r, want, r.Children(c)); w != nil {
			return w
		}
	}
	return nil
}
