package xdgshell

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wlcore/compositor-core/api/pkg/cerrors"
)

// ForeignHandle is the 32-character alphanumeric handle exporter.export
// hands back (spec §4.3 "Foreign toplevel export/import").
type ForeignHandle string

func newForeignHandle() ForeignHandle {
	return ForeignHandle(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// export is one live exported toplevel: the handle clients import by, and
// the set of imports currently referencing it so destruction can reverse
// parent-of relationships.
type export struct {
	handle   ForeignHandle
	toplevel *Toplevel
	imports  map[*Import]struct{}
}

// Exporter issues foreign-toplevel handles for toplevel-equivalent
// surfaces, and tracks them so a client can later destroy its export.
type Exporter struct {
	mu      sync.Mutex
	byTop   map[*Toplevel]*export
	handles map[ForeignHandle]*export
}

// NewExporter constructs an empty Exporter.
func NewExporter() *Exporter {
	return &Exporter{byTop: make(map[*Toplevel]*export), handles: make(map[ForeignHandle]*export)}
}

// Export yields a handle for surface. Exporting the same toplevel twice
// returns its existing handle.
func (e *Exporter) Export(toplevel *Toplevel) ForeignHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ex, ok := e.byTop[toplevel]; ok {
		return ex.handle
	}
	ex := &export{handle: newForeignHandle(), toplevel: toplevel, imports: make(map[*Import]struct{})}
	e.byTop[toplevel] = ex
	e.handles[ex.handle] = ex
	return ex.handle
}

// Unexport destroys an export. Every live Import referencing it is
// transitioned to destroyed, and any child toplevel whose parent still
// points at the exported surface has its parent cleared.
func (e *Exporter) Unexport(toplevel *Toplevel) {
	e.mu.Lock()
	ex, ok := e.byTop[toplevel]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.byTop, toplevel)
	delete(e.handles, ex.handle)
	imports := make([]*Import, 0, len(ex.imports))
	for imp := range ex.imports {
		imports = append(imports, imp)
	}
	e.mu.Unlock()

	for _, imp := range imports {
		imp.destroy(ex)
	}
}

// Import is the importing client's handle on an exported toplevel.
type Import struct {
	mu        sync.Mutex
	exporter  *Exporter
	handle    ForeignHandle
	destroyed bool
	children  map[*Toplevel]struct{}
}

// Import resolves handle to an Import. A handle with no matching export
// returns an already-destroyed Import, per spec §4.3 ("mismatched
// handles return an already-destroyed import").
func (e *Exporter) Import(handle ForeignHandle) *Import {
	e.mu.Lock()
	ex, ok := e.handles[handle]
	imp := &Import{exporter: e, handle: handle, children: make(map[*Toplevel]struct{})}
	if !ok {
		imp.destroyed = true
		e.mu.Unlock()
		return imp
	}
	ex.imports[imp] = struct{}{}
	e.mu.Unlock()
	return imp
}

// SetParentOf sets the exported surface as child's parent. On a destroyed
// import it leaves child unchanged and returns a defunct-role-object
// protocol error.
func (i *Import) SetParentOf(child *Toplevel) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return cerrors.NewDefunctRoleObject("foreign_import")
	}
	i.exporter.mu.Lock()
	ex := i.exporter.handles[i.handle]
	i.exporter.mu.Unlock()
	if ex == nil {
		return cerrors.NewDefunctRoleObject("foreign_import")
	}

	child.Pending.Parent = ex.toplevel
	i.children[child] = struct{}{}
	return nil
}

// Destroy releases this import, clearing any child's parent that still
// points to the exported surface (intervening reassignments win, per
// spec §4.3).
func (i *Import) Destroy() {
	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.destroyed = true
	ex := i.exporter.handles[i.handle]
	i.mu.Unlock()

	if ex != nil {
		i.exporter.mu.Lock()
		delete(ex.imports, i)
		i.exporter.mu.Unlock()
	}
	i.clearChildren(ex)
}

func (i *Import) destroy(ex *export) {
	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.destroyed = true
	i.mu.Unlock()
	i.clearChildren(ex)
}

func (i *Import) clearChildren(ex *export) {
	i.mu.Lock()
	children := make([]*Toplevel, 0, len(i.children))
	for c := range i.children {
		children = append(children, c)
	}
	i.children = make(map[*Toplevel]struct{})
	i.mu.Unlock()

	if ex == nil {
		return
	}
	for _, child := range children {
		if child.Pending.Parent == ex.toplevel {
			child.Pending.Parent = nil
		}
		if child.Current.Parent == ex.toplevel {
			child.Current.Parent = nil
		}
	}
}
