// Package explainer renders a scenario's contents for human audit: the
// decoded event plus a breadcrumb of the resolved object path per entry, in
// recorded order. It never touches a live widget tree.
package explainer

import (
	"fmt"
	"io"
	"strings"

	"github.com/uireplay/uireplay/internal/scenario"
)

// Explainer prints a loaded scenario to an output stream.
type Explainer struct {
	sc  *scenario.Scenario
	out io.Writer
}

// New constructs an explainer for a loaded scenario.
func New(sc *scenario.Scenario, out io.Writer) *Explainer {
	return &Explainer{sc: sc, out: out}
}

// Run prints every entry.
func (e *Explainer) Run() error {
	for i, entry := range e.sc.Events {
		if err := e.printEntry(i, entry); err != nil {
			return err
		}
	}
	return nil
}

func (e *Explainer) printEntry(i int, entry scenario.Entry) error {
	if _, err := fmt.Fprintf(e.out, "Event %d: %s\n", i, entry.Event); err != nil {
		return err
	}
	objPath, ok := e.sc.PathOf(entry)
	if !ok {
		_, err := fmt.Fprintf(e.out, "Object: <unknown id %d>\n\n", entry.ObjectID)
		return err
	}
	if _, err := fmt.Fprintln(e.out, "Object:"); err != nil {
		return err
	}
	for indent, el := range objPath {
		name := ""
		if el.Name != "" {
			name = fmt.Sprintf(" %q", el.Name)
		}
		if _, err := fmt.Fprintf(e.out, "%s %d%s %s\n",
			strings.Repeat("  ", indent+1), el.Index, name, el.Type); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(e.out)
	return err
}
