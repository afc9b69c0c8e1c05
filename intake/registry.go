package intake

import (
	"sync"

	"beautyconsult-backend/catalog"
)

// Registry owns one Form per user.
type Registry struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	forms   map[string]*Form
}

func NewRegistry(c *catalog.Catalog) *Registry {
	return &Registry{catalog: c, forms: make(map[string]*Form)}
}

// Form returns the owner's form, creating an empty one on first use.
func (r *Registry) Form(owner string) *Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[owner]
	if !ok {
		f = NewForm(owner, r.catalog)
		r.forms[owner] = f
	}
	return f
}

func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *Registry) Drop(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, owner)
}
