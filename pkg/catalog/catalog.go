package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed problems.yaml
var embedded []byte

// Difficulty grades a problem.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Example is one worked input/output pair.
type Example struct {
	Input       string `yaml:"input" json:"input"`
	Output      string `yaml:"output" json:"output"`
	Explanation string `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// Solution is the reference implementation shown in the code pane.
type Solution struct {
	Method   string `yaml:"method" json:"method"`
	Language string `yaml:"language" json:"language"`
	Code     string `yaml:"code" json:"code" validate:"required"`
	KeyLines []int  `yaml:"key_lines" json:"key_lines"`
	Time     string `yaml:"time" json:"time"`
	Space    string `yaml:"space" json:"space"`
}

// Problem is a catalog entry. ID is the numeric key progress is recorded under.
type Problem struct {
	ID          int        `yaml:"id" json:"id" validate:"gte=0"`
	Slug        string     `yaml:"slug" json:"slug" validate:"required"`
	LeetCode    int        `yaml:"leetcode" json:"leetcode_number" validate:"gt=0"`
	Title       string     `yaml:"title" json:"title" validate:"required"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty" validate:"oneof=easy medium hard"`
	Categories  []string   `yaml:"categories" json:"categories"`
	Methods     []string   `yaml:"methods" json:"methods"`
	Description string     `yaml:"description" json:"description"`
	Examples    []Example  `yaml:"examples" json:"examples,omitempty"`
	Constraints []string   `yaml:"constraints" json:"constraints,omitempty"`
	Hints       []string   `yaml:"hints" json:"hints,omitempty"`
	Solution    Solution   `yaml:"solution" json:"solution"`

	// Template is set when an adapter is registered for the slug.
	Template problems.Template `yaml:"-" json:"template,omitempty"`
}

// Visualizable reports whether the problem has a registered adapter.
func (p Problem) Visualizable() bool { return p.Template != "" }

// CodeLines splits the solution into lines (1-based positions map to index+1).
func (p Problem) CodeLines() []string {
	return strings.Split(strings.TrimRight(p.Solution.Code, "\n"), "\n")
}

// Highlight returns the lines to emphasise for a step: the step's own code
// reference, or the solution's key lines when the step has none.
func (p Problem) Highlight(step *domain.Step) []int {
	if step != nil && step.CodeRef != nil && len(step.CodeRef.Lines) > 0 {
		return step.CodeRef.Lines
	}
	return p.Solution.KeyLines
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Difficulty   Difficulty
	Category     string
	Visualizable bool
}

func (f Filter) match(p Problem) bool {
	if f.Difficulty != "" && p.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" {
		found := false
		for _, c := range p.Categories {
			if c == f.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return !f.Visualizable || p.Visualizable()
}

// Catalog joins problem metadata with the adapter registry.
type Catalog struct {
	problems []Problem
	bySlug   map[string]int
	byID     map[int]int
	registry *registry.Registry
}

type file struct {
	Problems []Problem `yaml:"problems" validate:"dive"`
}

// Load parses a catalog document and binds it to reg.
func Load(data []byte, reg *registry.Registry) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		bySlug:   make(map[string]int, len(f.Problems)),
		byID:     make(map[int]int, len(f.Problems)),
		registry: reg,
	}
	sort.SliceStable(f.Problems, func(i, j int) bool { return f.Problems[i].ID < f.Problems[j].ID })
	for i, p := range f.Problems {
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate slug %q", p.Slug)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate id %d", p.ID)
		}
		if def, ok := reg.Lookup(p.Slug); ok {
			p.Template = def.Template
		}
		c.problems = append(c.problems, p)
		c.bySlug[p.Slug] = i
		c.byID[p.ID] = i
	}
	return c, nil
}

// Default loads the embedded catalog bound to the built-in adapters.
func Default() (*Catalog, error) {
	return Load(embedded, registry.NewBuiltin())
}

// Registry returns the adapters the catalog is bound to.
func (c *Catalog) Registry() *registry.Registry { return c.registry }

// Len returns the number of problems.
func (c *Catalog) Len() int { return len(c.problems) }

// List returns the problems matching f, ordered by ID.
func (c *Catalog) List(f Filter) []Problem {
	out := make([]Problem, 0, len(c.problems))
	for _, p := range c.problems {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Get finds a problem by slug or numeric ID.
func (c *Catalog) Get(key string) (Problem, error) {
	if i, ok := c.bySlug[key]; ok {
		return c.problems[i], nil
	}
	if id, err := strconv.Atoi(key); err == nil {
		if i, ok := c.byID[id]; ok {
			return c.problems[i], nil
		}
	}
	return Problem{}, fmt.Errorf("%w: %s", domain.ErrProblemNotFound, key)
}

// Definition returns the adapter behind a problem.
func (c *Catalog) Definition(key string) (Problem, problems.Definition, error) {
	p, err := c.Get(key)
	if err != nil {
		return Problem{}, problems.Definition{}, err
	}
	def, ok := c.registry.Lookup(p.Slug)
	if !ok {
		return p, problems.Definition{}, fmt.Errorf("%w: %s has no visualizer", domain.ErrProblemNotFound, p.Slug)
	}
	return p, def, nil
}

// Open starts a driver session on the problem's default input.
func (c *Catalog) Open(key string, opts ...driver.Option) (Problem, driver.Session, error) {
	p, def, err := c.Definition(key)
	if err != nil {
		return p, nil, err
	}
	return p, def.Open(opts...), nil
}
