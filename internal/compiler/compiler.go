// Package compiler turns validated scene documents into rule trees.
package compiler

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/aretw0/immense/pkg/scene"
)

// Option overrides scene settings at compile time.
type Option func(*options)

type options struct {
	seed     int64
	seedSet  bool
	depth    int
	depthSet bool
}

// WithSeed overrides the scene's seed for choose nodes.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seedSet = true
	}
}

// WithDepth overrides the scene's recursion budget.
func WithDepth(depth int) Option {
	return func(o *options) {
		o.depth = depth
		o.depthSet = true
	}
}

// builder produces a rule with the given recursion budget left.
type builder func(budget int) rule.Rule

type compiler struct {
	rng   *rand.Rand
	rules map[string]builder
}

// Compile validates s and builds the rule tree for its entry rule.
//
// References are deferred: each one resolves when evaluation reaches it and
// spends one unit of the depth budget, so recursive scenes stay bounded and
// only the branch being evaluated is ever materialized. A reference reached
// with no budget left expands to nothing. Choose nodes are deferred as well
// and pick a fresh alternative at every occurrence from a generator seeded
// with the scene's seed (or the clock when the seed is zero).
//
// The returned rule owns its random generator, and the generator advances
// with every evaluation. A fixed seed reproduces a render only on the first
// evaluation of a fresh Compile; evaluating the same rule again continues
// the sequence. The rule must not be evaluated by several goroutines at once.
func Compile(s *scene.Scene, opts ...Option) (rule.Rule, error) {
	o := options{seed: s.Seed, depth: s.EffectiveDepth()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.Validate(); err != nil {
		return rule.Rule{}, err
	}
	if o.depth < 0 || o.depth > scene.MaxDepth {
		return rule.Rule{}, fmt.Errorf("compile: depth %d out of range [0, %d]", o.depth, scene.MaxDepth)
	}

	seed := o.seed
	if seed == 0 && !o.seedSet {
		seed = time.Now().UnixNano()
	}
	c := &compiler{
		rng:   rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32)),
		rules: make(map[string]builder, len(s.Rules)),
	}
	for _, name := range s.RuleNames() {
		b, err := c.body(s.Rules[name])
		if err != nil {
			return rule.Rule{}, fmt.Errorf("compile rule %q: %w", name, err)
		}
		c.rules[name] = b
	}
	return c.rules[s.Entry](o.depth), nil
}

func (c *compiler) body(nodes []scene.Node) (builder, error) {
	parts := make([]builder, len(nodes))
	for i, n := range nodes {
		b, err := c.node(n)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		parts[i] = b
	}
	return func(budget int) rule.Rule {
		children := make([]rule.Rule, len(parts))
		for i, p := range parts {
			children[i] = p(budget)
		}
		return rule.New().Push(children...)
	}, nil
}

func (c *compiler) node(n scene.Node) (builder, error) {
	base, err := c.kind(n)
	if err != nil {
		return nil, err
	}

	tf, err := scene.DecodeTransforms(n.Transforms)
	if err != nil {
		return nil, fmt.Errorf("transforms%w", err)
	}
	var rep geom.Transformer
	if n.Replicate != nil {
		step, err := scene.DecodeTransforms(n.Replicate.Step)
		if err != nil {
			return nil, fmt.Errorf("replicate step%w", err)
		}
		rep = geom.Replicate(n.Replicate.Count, step)
	}

	return func(budget int) rule.Rule {
		r := base(budget)
		if !tf.IsIdentity() {
			r = r.Tf(tf)
		}
		if rep != nil {
			r = r.Tf(rep)
		}
		return r
	}, nil
}

func (c *compiler) kind(n scene.Node) (builder, error) {
	switch n.Kind() {
	case "shape":
		m, err := shape(n.Shape, n.Subdivisions)
		if err != nil {
			return nil, err
		}
		return func(int) rule.Rule { return rule.Leaf(m) }, nil

	case "ref":
		name := n.Ref
		return func(budget int) rule.Rule {
			if budget <= 0 {
				return rule.New()
			}
			return rule.FromFunc(func() rule.Rule {
				return c.rules[name](budget - 1)
			})
		}, nil

	case "group":
		return c.body(n.Group)

	case "choose":
		alts := make([]builder, len(n.Choose))
		for i, alt := range n.Choose {
			b, err := c.node(alt)
			if err != nil {
				return nil, fmt.Errorf("choose[%d]: %w", i, err)
			}
			alts[i] = b
		}
		return func(budget int) rule.Rule {
			return rule.FromFunc(func() rule.Rule {
				return alts[c.rng.IntN(len(alts))](budget)
			})
		}, nil
	}
	return nil, fmt.Errorf("node must set exactly one of shape, ref, group or choose")
}

// shape builds a primitive once; leaves share it since evaluation never
// mutates a leaf's mesh.
func shape(name string, subdivisions int) (*mesh.Mesh, error) {
	switch name {
	case "cube":
		return mesh.Cube(), nil
	case "tetrahedron":
		return mesh.Tetrahedron(), nil
	case "quad":
		return mesh.Quad(), nil
	case "icosahedron":
		return mesh.Icosahedron(), nil
	case "icosphere":
		return mesh.Icosphere(subdivisions), nil
	}
	return nil, fmt.Errorf("unknown shape %q", name)
}
