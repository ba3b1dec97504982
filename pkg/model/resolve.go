package model

import (
	"github.com/regio-project/regio-go/pkg/path"
)

// Outcome is the result of resolving a path against an entity.
// Entity is set only when Result is path.Resolved.
type Outcome struct {
	Entity Entity
	Result path.Result
	Path   path.Path
	From   Entity
}

// OK reports whether the path resolved to exactly one entity.
func (o Outcome) OK() bool { return o.Result == path.Resolved }

// Err returns a *ResolveError for failed outcomes, nil otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	from := ""
	if o.From != nil {
		from = o.From.Name()
	}
	return &ResolveError{From: from, Path: o.Path, Result: o.Result}
}

// Resolve finds the unique descendant of e (or e itself) denoted by p.
//
// When the first segment names e, the remaining segments are resolved
// against e's children. Otherwise the whole path is searched for among the
// children, so both "reg.field" and a bare "field" resolve from a group.
// Exactly one matching child is required.
func Resolve(e Entity, p path.Path) Outcome {
	out := resolve(e, p)
	out.Path = p
	out.From = e
	return out
}

func resolve(e Entity, p path.Path) Outcome {
	if p.IsEmpty() {
		return Outcome{Entity: e, Result: path.Resolved}
	}

	search := p
	if p.Root() == e.Name() {
		search = p.WithoutRoot()
		if search.IsEmpty() {
			return Outcome{Entity: e, Result: path.Resolved}
		}
	}

	children := e.Children()
	if len(children) == 0 {
		if p.Root() == e.Name() {
			return Outcome{Result: path.TooLong}
		}
		return Outcome{Result: path.Mismatch}
	}

	var (
		match   Outcome
		count   int
		tooLong bool
	)
	for _, c := range children {
		o := resolve(c, search)
		switch o.Result {
		case path.Resolved, path.Ambiguous:
			match = o
			count++
		case path.TooLong:
			tooLong = true
		}
	}

	switch {
	case count == 1:
		return match
	case count > 1:
		return Outcome{Result: path.Ambiguous}
	case tooLong:
		return Outcome{Result: path.TooLong}
	default:
		return Outcome{Result: path.Unresolved}
	}
}

// ResolveString parses s and resolves it against e.
func ResolveString(e Entity, s string) (Entity, error) {
	p, err := path.Parse(s)
	if err != nil {
		return nil, err
	}
	o := Resolve(e, p)
	if err := o.Err(); err != nil {
		return nil, err
	}
	return o.Entity, nil
}

// Resolve resolves p against the group.
func (g *Group) Resolve(p path.Path) Outcome { return Resolve(g, p) }
