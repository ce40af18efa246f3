// Package stage models a resolved scene-description prim tree: typed prims
// with time-sampled attributes, as produced by an external composition
// engine. The projection engine reads this tree; it never parses source
// documents itself.
package stage

// Prim is one node of the resolved prim tree.
type Prim struct {
	Path       string
	TypeName   string
	Properties map[string]*Attribute
	Children   map[string]*Prim
	Metadata   map[string]any
}

// Stage is a resolved prim tree rooted at the pseudo-root "/".
type Stage struct {
	Root *Prim
}

// New returns an empty stage with a pseudo-root prim.
func New() *Stage {
	return &Stage{Root: newPrim(PathSep, "")}
}

func newPrim(path, typeName string) *Prim {
	return &Prim{
		Path:       path,
		TypeName:   typeName,
		Properties: make(map[string]*Attribute),
		Children:   make(map[string]*Prim),
		Metadata:   make(map[string]any),
	}
}

// Define creates (or retypes) the prim at an absolute path, creating untyped
// ancestors as needed, and returns it.
func (s *Stage) Define(path, typeName string) *Prim {
	cur := s.Root
	curPath := ""
	for _, seg := range SplitPath(path) {
		curPath = JoinPath(curPath, seg)
		child, ok := cur.Children[seg]
		if !ok {
			child = newPrim(curPath, "")
			cur.Children[seg] = child
		}
		cur = child
	}
	if typeName != "" {
		cur.TypeName = typeName
	}
	return cur
}

// PrimAt returns the prim at an absolute path, or nil.
func (s *Stage) PrimAt(path string) *Prim {
	cur := s.Root
	for _, seg := range SplitPath(path) {
		child, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// Attr returns the named property, or nil.
func (p *Prim) Attr(name string) *Attribute {
	if p == nil {
		return nil
	}
	return p.Properties[name]
}

// Child returns the named child prim, or nil.
func (p *Prim) Child(name string) *Prim {
	if p == nil {
		return nil
	}
	return p.Children[name]
}

// Active reports whether the prim participates in the scene. Absent
// metadata means active.
func (p *Prim) Active() bool {
	if v, ok := p.Metadata["active"].(bool); ok {
		return v
	}
	return true
}

// Relationship returns the first target path of a relationship property.
func (p *Prim) Relationship(name string) (string, bool) {
	a := p.Attr(name)
	if a == nil {
		return "", false
	}
	switch v := a.Default.(type) {
	case string:
		return v, v != ""
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// RelationshipTargets returns all target paths of a relationship property.
func (p *Prim) RelationshipTargets(name string) []string {
	a := p.Attr(name)
	if a == nil {
		return nil
	}
	switch v := a.Default.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []string:
		return v
	}
	return nil
}

// Builder helpers. The stage is normally produced by the composition
// engine; tests and host tools assemble trees with these.

// Set assigns a default-only attribute value and returns the prim.
func (p *Prim) Set(name string, value any) *Prim {
	a := p.Properties[name]
	if a == nil {
		a = &Attribute{}
		p.Properties[name] = a
	}
	a.Default = value
	return p
}

// SetSampled assigns time samples to an attribute. Samples must be given in
// ascending time order.
func (p *Prim) SetSampled(name string, samples ...TimeSample) *Prim {
	a := p.Properties[name]
	if a == nil {
		a = &Attribute{}
		p.Properties[name] = a
	}
	a.Samples = samples
	if a.Default == nil && len(samples) > 0 {
		a.Default = samples[0].Value
	}
	return p
}

// SetPrimvar assigns a geometry attribute with an interpolation class.
func (p *Prim) SetPrimvar(name string, value any, interpolation string) *Prim {
	p.Set(name, value)
	p.Properties[name].Interpolation = interpolation
	return p
}

// SetElementSize records the per-element width of an already-set array
// attribute, such as joint influences per point.
func (p *Prim) SetElementSize(name string, n int) *Prim {
	if a := p.Properties[name]; a != nil {
		a.ElementSize = n
	}
	return p
}

// SetMetadata assigns a metadata entry.
func (p *Prim) SetMetadata(key string, value any) *Prim {
	p.Metadata[key] = value
	return p
}
