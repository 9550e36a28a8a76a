package scaffold

import (
	"fmt"
	"path"
	"sort"

	"github.com/gammazero/toposort"

	"github.com/arthur-debert/mlskel/pkg/manifest"
)

// StepKind is the filesystem action a step performs. Kinds double as
// phases: every mkdir runs before every write, every write before every
// chmod.
type StepKind int

const (
	StepMkdir StepKind = iota
	StepWrite
	StepChmod
)

func (k StepKind) String() string {
	switch k {
	case StepMkdir:
		return "mkdir"
	case StepWrite:
		return "write"
	case StepChmod:
		return "chmod"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// StepID identifies a step within a plan.
type StepID string

// Step is a single action of a plan.
type Step struct {
	ID      StepID
	Kind    StepKind
	Path    string
	Content string
	Deps    []StepID
}

// NewStepID returns the conventional ID for a kind and path.
func NewStepID(kind StepKind, p string) StepID {
	return StepID(kind.String() + ":" + p)
}

// Plan is an ordered list of steps derived from a manifest.
type Plan struct {
	steps    []Step
	index    map[StepID]int
	resolved bool
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{index: make(map[StepID]int)}
}

// Add appends steps. IDs must be unique within the plan.
func (p *Plan) Add(steps ...Step) error {
	for _, s := range steps {
		if s.ID == "" {
			s.ID = NewStepID(s.Kind, s.Path)
		}
		if _, exists := p.index[s.ID]; exists {
			return fmt.Errorf("step with ID '%s' already exists in the plan", s.ID)
		}
		p.index[s.ID] = len(p.steps)
		p.steps = append(p.steps, s)
		p.resolved = false
	}
	return nil
}

// Steps returns a copy of the plan's steps. After Resolve they are in
// execution order.
func (p *Plan) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Resolved reports whether Resolve has run since the last Add.
func (p *Plan) Resolved() bool {
	return p.resolved
}

// Resolve checks that every dependency exists and is acyclic, then orders
// the steps by phase. Within a phase a step runs after everything it depends
// on; remaining ties keep declaration order.
func (p *Plan) Resolve() error {
	edges := make([]toposort.Edge, 0)
	for _, s := range p.steps {
		var missing []StepID
		for _, dep := range s.Deps {
			if _, ok := p.index[dep]; !ok {
				missing = append(missing, dep)
				continue
			}
			// Edge is [2]interface{} where element 0 comes before element 1
			edges = append(edges, toposort.Edge{string(dep), string(s.ID)})
		}
		if len(missing) > 0 {
			return &DependencyError{Step: s.ID, Missing: missing}
		}
	}

	sortedIDs, err := toposort.Toposort(edges)
	if err != nil {
		return &OrderError{Reason: "circular dependency detected", Cause: err}
	}

	// depth is the longest chain of same-phase dependencies leading to a
	// step. Walking the topological order settles every dependency first.
	// Steps without edges never appear in sortedIDs and keep depth 0.
	depth := make(map[StepID]int, len(p.steps))
	for _, raw := range sortedIDs {
		id := StepID(raw.(string))
		step := p.steps[p.index[id]]
		for _, dep := range step.Deps {
			if p.steps[p.index[dep]].Kind != step.Kind {
				continue
			}
			if d := depth[dep] + 1; d > depth[id] {
				depth[id] = d
			}
		}
	}

	position := make(map[StepID]int, len(p.steps))
	for i, s := range p.steps {
		position[s.ID] = i
	}
	ordered := p.Steps()
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if depth[a.ID] != depth[b.ID] {
			return depth[a.ID] < depth[b.ID]
		}
		return position[a.ID] < position[b.ID]
	})

	newIndex := make(map[StepID]int, len(ordered))
	for i, s := range ordered {
		newIndex[s.ID] = i
	}
	for i, s := range ordered {
		for _, dep := range s.Deps {
			if newIndex[dep] >= i {
				return &OrderError{Step: s.ID, Reason: fmt.Sprintf("dependency %s runs in a later phase", dep)}
			}
		}
	}

	p.steps = ordered
	p.index = newIndex
	p.resolved = true
	return nil
}

// BuildPlan converts a rendered manifest into a resolved plan.
//
// Each write depends on the mkdir step that creates its nearest declared
// ancestor, and each chmod depends on the write of the same path when the
// manifest declares that file. Allow-listed paths the manifest does not
// declare get a chmod without dependencies; it fails at run time unless the
// file already exists.
func BuildPlan(m manifest.Manifest) (*Plan, error) {
	p := NewPlan()

	// creator maps every declared directory and each of its ancestors to
	// the first mkdir step that brings it into existence.
	creator := make(map[string]StepID)
	for _, d := range m.Directories() {
		id := NewStepID(StepMkdir, d.Path)
		if err := p.Add(Step{ID: id, Kind: StepMkdir, Path: d.Path}); err != nil {
			return nil, err
		}
		for dir := d.Path; dir != "."; dir = path.Dir(dir) {
			if _, ok := creator[dir]; !ok {
				creator[dir] = id
			}
		}
	}

	for _, f := range m.Files() {
		step := Step{ID: NewStepID(StepWrite, f.Path), Kind: StepWrite, Path: f.Path, Content: f.Content}
		for dir := path.Dir(f.Path); dir != "."; dir = path.Dir(dir) {
			if id, ok := creator[dir]; ok {
				step.Deps = []StepID{id}
				break
			}
		}
		if err := p.Add(step); err != nil {
			return nil, err
		}
	}

	for _, e := range m.Executables() {
		step := Step{ID: NewStepID(StepChmod, e), Kind: StepChmod, Path: e}
		if _, ok := m.File(e); ok {
			step.Deps = []StepID{NewStepID(StepWrite, e)}
		}
		if err := p.Add(step); err != nil {
			return nil, err
		}
	}

	if err := p.Resolve(); err != nil {
		return nil, err
	}
	return p, nil
}
