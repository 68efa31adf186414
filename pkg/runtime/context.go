package runtime

import (
	"context"
	"fmt"

	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/state"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// Page is the ordered element output of one rerun.
type Page struct {
	Title    string
	Elements []element.Element
}

// Context is the ambient state of one script execution: session identity,
// rerun generation, container nesting, form grouping, and the element
// output. It is not safe for concurrent use; scripts are linear by contract.
type Context struct {
	ctx     context.Context
	session *Session
	gen     uint64
	run     *state.Run
	page    *Page

	path  []string
	forms []string
}

// SessionID returns the owning session's identity.
func (c *Context) SessionID() string { return c.session.id }

// Generation returns this rerun's generation number.
func (c *Context) Generation() uint64 { return c.gen }

// Err reports the cancellation state of the run.
func (c *Context) Err() error { return c.ctx.Err() }

// SetTitle names the page being built.
func (c *Context) SetTitle(title string) { c.page.Title = title }

// Path returns a copy of the current container nesting path.
func (c *Context) Path() []string {
	out := make([]string, len(c.path))
	copy(out, c.path)
	return out
}

// EnterContainer pushes a container segment onto the nesting path. Widget
// identities computed inside differ from those outside.
func (c *Context) EnterContainer(name string) {
	c.path = append(c.path, name)
}

// ExitContainer pops the innermost container.
func (c *Context) ExitContainer() {
	if len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// EnterForm opens a form grouping named by the caller's key and returns its
// identity. Widgets declared before the matching ExitForm carry this
// identity in their element specs.
func (c *Context) EnterForm(key string) string {
	id := string(widgetid.Compute(widgetid.Params{
		Kind:  "form",
		Label: key,
		Path:  c.path,
	}))
	c.forms = append(c.forms, id)
	return id
}

// ExitForm closes the innermost form grouping.
func (c *Context) ExitForm() {
	if len(c.forms) > 0 {
		c.forms = c.forms[:len(c.forms)-1]
	}
}

// FormID returns the identity of the enclosing form, or "" outside any form.
func (c *Context) FormID() string {
	if len(c.forms) == 0 {
		return ""
	}
	return c.forms[len(c.forms)-1]
}

// Register reconciles a widget's value with the session store. See
// state.Run.Register for precedence.
func (c *Context) Register(id widgetid.ID, def []int, callback func()) ([]int, error) {
	return c.run.Register(id, def, callback)
}

// Emit appends an element to the page. This is a cancellation checkpoint: a
// superseded run fails here and its page is discarded.
func (c *Context) Emit(el element.Element) error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("runtime: emit: %w", err)
	}
	c.page.Elements = append(c.page.Elements, el)
	return nil
}
