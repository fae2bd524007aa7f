package uitest

import (
	"github.com/uireplay/uireplay/pkg/ui"
)

func init() {
	ui.RegisterType(&Window{})
	ui.RegisterType(&Panel{})
	ui.RegisterType(&Button{})
	ui.RegisterType(&Label{})
	ui.RegisterType(&Splitter{})
	ui.RegisterType(&SplitterHandle{})
}

type eventHandler interface {
	HandleEvent(ev ui.Event) bool
}

// WidgetBase supplies the ui.Widget plumbing shared by all uitest widgets.
type WidgetBase struct {
	app      *App
	self     ui.Widget
	parent   ui.Widget
	name     string
	children []ui.Widget
}

func (b *WidgetBase) init(app *App, self, parent ui.Widget, name string) {
	b.app = app
	b.self = self
	b.parent = parent
	b.name = name
	if parent == nil {
		app.addTopLevel(self)
	} else if pb, ok := parent.(interface{ addChild(ui.Widget) }); ok {
		pb.addChild(self)
	}
}

func (b *WidgetBase) addChild(w ui.Widget) {
	b.children = append(b.children, w)
}

func (b *WidgetBase) Parent() ui.Widget      { return b.parent }
func (b *WidgetBase) ObjectName() string     { return b.name }
func (b *WidgetBase) SetObjectName(n string) { b.name = n }
func (b *WidgetBase) IsTopLevel() bool       { return b.parent == nil }

func (b *WidgetBase) IsActiveWindow() bool {
	return b.app != nil && b.app.active != nil && windowOf(b.self) == b.app.active
}

// ObjectChildren returns the generic object-tree children.
func (b *WidgetBase) ObjectChildren() []ui.Widget {
	out := make([]ui.Widget, len(b.children))
	copy(out, b.children)
	return out
}

// windowOf walks to the top-level ancestor of w.
func windowOf(w ui.Widget) ui.Widget {
	for w != nil && w.Parent() != nil {
		w = w.Parent()
	}
	return w
}

// Window is a top-level widget with a single vertical layout.
type Window struct {
	WidgetBase
	Title   string
	visible bool
	layout  []ui.Widget
}

// NewWindow creates a hidden top-level window.
func NewWindow(app *App, title, name string) *Window {
	w := &Window{Title: title}
	w.init(app, w, nil, name)
	return w
}

// AddWidget places w into the window's layout. Layout items are also object
// children, mirroring how toolkits parent layout-managed widgets.
func (w *Window) AddWidget(child ui.Widget) {
	w.layout = append(w.layout, child)
}

// LayoutWidgets returns the layout-managed children in insertion order.
func (w *Window) LayoutWidgets() []ui.Widget {
	out := make([]ui.Widget, len(w.layout))
	copy(out, w.layout)
	return out
}

// Show makes the window visible.
func (w *Window) Show() { w.visible = true }

// Visible reports whether the window is shown.
func (w *Window) Visible() bool { return w.visible }

// HandleEvent hides the window on Close; hiding the last visible window ends
// the event loop.
func (w *Window) HandleEvent(ev ui.Event) bool {
	if ev.Kind() == ui.KindClose {
		w.visible = false
		w.app.windowHidden()
		return true
	}
	return false
}

// Panel is a plain child container.
type Panel struct {
	WidgetBase
}

// NewPanel creates a child container widget.
func NewPanel(app *App, parent ui.Widget, name string) *Panel {
	p := &Panel{}
	p.init(app, p, parent, name)
	return p
}

// Button is a clickable widget counting presses.
type Button struct {
	WidgetBase
	Text    string
	OnClick func()
	presses int
}

// NewButton creates a button under parent.
func NewButton(app *App, parent ui.Widget, text, name string) *Button {
	b := &Button{Text: text}
	b.init(app, b, parent, name)
	return b
}

// Presses returns how many mouse presses the button received.
func (b *Button) Presses() int { return b.presses }

// HandleEvent counts presses and fires OnClick.
func (b *Button) HandleEvent(ev ui.Event) bool {
	if me, ok := ev.(*ui.MouseEvent); ok && me.Kind() == ui.KindMouseButtonPress {
		b.presses++
		if b.OnClick != nil {
			b.OnClick()
		}
		return true
	}
	return false
}

// Label is an inert text widget.
type Label struct {
	WidgetBase
	Text string
}

// NewLabel creates a label under parent.
func NewLabel(app *App, parent ui.Widget, text, name string) *Label {
	l := &Label{Text: text}
	l.init(app, l, parent, name)
	return l
}

// Splitter is a split container exposing panes and handles.
type Splitter struct {
	WidgetBase
	panes   []ui.Widget
	handles []ui.Widget
}

// NewSplitter creates a splitter under parent.
func NewSplitter(app *App, parent ui.Widget, name string) *Splitter {
	s := &Splitter{}
	s.init(app, s, parent, name)
	return s
}

// AddPane appends a pane and grows the handle list to match.
func (s *Splitter) AddPane(w ui.Widget) {
	s.panes = append(s.panes, w)
	h := &SplitterHandle{}
	h.init(s.app, h, s, "")
	s.handles = append(s.handles, h)
}

// Panes returns the pane widgets in order.
func (s *Splitter) Panes() []ui.Widget {
	out := make([]ui.Widget, len(s.panes))
	copy(out, s.panes)
	return out
}

// Handles returns the splitter handles in order.
func (s *Splitter) Handles() []ui.Widget {
	out := make([]ui.Widget, len(s.handles))
	copy(out, s.handles)
	return out
}

// SplitterHandle is the draggable divider between two panes.
type SplitterHandle struct {
	WidgetBase
}
