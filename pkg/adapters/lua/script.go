package lua

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Shopify/go-lua"
	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/aretw0/immense/pkg/scene"
)

// ErrScriptResult is returned when a script or a deferred function does not
// return a rule.
var ErrScriptResult = errors.New("script did not return a rule")

const (
	ruleTypeName      = "immense.Rule"
	transformTypeName = "immense.Transform"
	maxRecordedErrors = 16
)

type ruleValue struct {
	rule rule.Rule
}

type transformValue struct {
	tf geom.Transformer
}

// Script owns a Lua state preloaded with the rule builders.
// A Script and the rules it returns must be used from one goroutine at a time.
type Script struct {
	state   *lua.State
	logger  *slog.Logger
	nextRef int
	errs    []error
	dropped int
}

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger used to report deferred failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) {
		s.logger = logger
	}
}

// New creates a Script with the standard libraries and the rule builders
// installed.
func New(opts ...Option) *Script {
	s := &Script{state: lua.NewState()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	lua.OpenLibraries(s.state)
	s.register()
	return s
}

// DoString runs src and returns the rule it yields.
func (s *Script) DoString(src string) (rule.Rule, error) {
	if err := lua.LoadString(s.state, src); err != nil {
		return rule.Rule{}, fmt.Errorf("failed to load script: %w", err)
	}
	return s.run()
}

// DoFile runs the script at path and returns the rule it yields.
func (s *Script) DoFile(path string) (rule.Rule, error) {
	if err := lua.LoadFile(s.state, path, ""); err != nil {
		return rule.Rule{}, fmt.Errorf("failed to load script %s: %w", path, err)
	}
	return s.run()
}

func (s *Script) run() (rule.Rule, error) {
	l := s.state
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return rule.Rule{}, fmt.Errorf("script failed: %w", err)
	}
	defer l.Pop(1)
	rv, ok := lua.TestUserData(l, -1, ruleTypeName).(*ruleValue)
	if !ok {
		return rule.Rule{}, ErrScriptResult
	}
	return rv.rule, nil
}

// Err reports the errors raised by deferred functions so far, joined, or
// nil when there were none.
func (s *Script) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	errs := s.errs
	if s.dropped > 0 {
		errs = append(errs[:len(errs):len(errs)], fmt.Errorf("%d more deferred errors", s.dropped))
	}
	return errors.Join(errs...)
}

func (s *Script) record(err error) {
	s.logger.Warn("deferred rule failed", "err", err)
	if len(s.errs) >= maxRecordedErrors {
		s.dropped++
		return
	}
	s.errs = append(s.errs, err)
}

// deferredFunc resolves a Lua function stored in the registry.
type deferredFunc struct {
	script *Script
	key    string
}

func (d *deferredFunc) ToRule() rule.Rule {
	l := d.script.state
	l.Field(lua.RegistryIndex, d.key)
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		d.script.record(fmt.Errorf("deferred: %w", err))
		return rule.New()
	}
	defer l.Pop(1)
	rv, ok := lua.TestUserData(l, -1, ruleTypeName).(*ruleValue)
	if !ok {
		d.script.record(fmt.Errorf("deferred: %w", ErrScriptResult))
		return rule.New()
	}
	return rv.rule
}

func (s *Script) register() {
	l := s.state

	lua.NewMetaTable(l, ruleTypeName)
	l.NewTable()
	lua.SetFunctions(l, ruleMethods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)

	lua.NewMetaTable(l, transformTypeName)
	l.NewTable()
	lua.SetFunctions(l, transformMethods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)

	globals := slices.Concat(builders, []lua.RegistryFunction{{Name: "deferred", Function: s.deferred}})
	for _, fn := range globals {
		l.PushGoFunction(fn.Function)
		l.SetGlobal(fn.Name)
	}
}

func (s *Script) deferred(l *lua.State) int {
	lua.CheckType(l, 1, lua.TypeFunction)
	s.nextRef++
	key := fmt.Sprintf("immense.deferred.%d", s.nextRef)
	l.PushValue(1)
	l.SetField(lua.RegistryIndex, key)
	pushRule(l, rule.From(&deferredFunc{script: s, key: key}))
	return 1
}

var builders = []lua.RegistryFunction{
	{Name: "cube", Function: leaf(rule.Cube)},
	{Name: "tetrahedron", Function: leaf(rule.Tetrahedron)},
	{Name: "quad", Function: leaf(rule.Quad)},
	{Name: "icosahedron", Function: leaf(rule.Icosahedron)},
	{Name: "icosphere", Function: icosphere},
	{Name: "rule", Function: leaf(rule.New)},
	{Name: "translate", Function: translate},
	{Name: "tx", Function: axis(geom.TranslateX)},
	{Name: "ty", Function: axis(geom.TranslateY)},
	{Name: "tz", Function: axis(geom.TranslateZ)},
	{Name: "scale", Function: scale},
	{Name: "replicate", Function: replicate},
}

var ruleMethods = []lua.RegistryFunction{
	{Name: "push", Function: rulePush},
	{Name: "tf", Function: ruleTf},
}

var transformMethods = []lua.RegistryFunction{
	{Name: "andthen", Function: transformThen},
}

func leaf(build func() rule.Rule) lua.Function {
	return func(l *lua.State) int {
		pushRule(l, build())
		return 1
	}
}

func icosphere(l *lua.State) int {
	n := lua.OptInteger(l, 1, 1)
	if n < 0 || n > scene.MaxSubdivisions {
		lua.ArgumentError(l, 1, fmt.Sprintf("subdivisions must be between 0 and %d", scene.MaxSubdivisions))
	}
	pushRule(l, rule.Icosphere(n))
	return 1
}

func translate(l *lua.State) int {
	x := float32(lua.CheckNumber(l, 1))
	y := float32(lua.CheckNumber(l, 2))
	z := float32(lua.CheckNumber(l, 3))
	pushTransform(l, geom.Translate(x, y, z))
	return 1
}

func axis(build func(float32) geom.Transform) lua.Function {
	return func(l *lua.State) int {
		pushTransform(l, build(float32(lua.CheckNumber(l, 1))))
		return 1
	}
}

func scale(l *lua.State) int {
	if l.Top() >= 3 {
		pushTransform(l, geom.ScaleXYZ(
			float32(lua.CheckNumber(l, 1)),
			float32(lua.CheckNumber(l, 2)),
			float32(lua.CheckNumber(l, 3)),
		))
		return 1
	}
	pushTransform(l, geom.ScaleBy(float32(lua.CheckNumber(l, 1))))
	return 1
}

func replicate(l *lua.State) int {
	n := lua.CheckInteger(l, 1)
	if n > scene.MaxReplicate {
		lua.ArgumentError(l, 1, fmt.Sprintf("count must not exceed %d", scene.MaxReplicate))
	}
	step := checkSingle(l, 2)
	pushTransform(l, geom.Replicate(n, step))
	return 1
}

func rulePush(l *lua.State) int {
	r := checkRule(l, 1)
	children := make([]rule.Rule, 0, l.Top()-1)
	for i := 2; i <= l.Top(); i++ {
		children = append(children, checkRule(l, i))
	}
	pushRule(l, r.Push(children...))
	return 1
}

func ruleTf(l *lua.State) int {
	r := checkRule(l, 1)
	tv, ok := lua.CheckUserData(l, 2, transformTypeName).(*transformValue)
	if !ok {
		lua.ArgumentError(l, 2, "transform expected")
	}
	pushRule(l, r.Tf(tv.tf))
	return 1
}

func transformThen(l *lua.State) int {
	first := checkSingle(l, 1)
	second := checkSingle(l, 2)
	pushTransform(l, first.Then(second))
	return 1
}

func checkRule(l *lua.State, index int) rule.Rule {
	rv, ok := lua.CheckUserData(l, index, ruleTypeName).(*ruleValue)
	if !ok {
		lua.ArgumentError(l, index, "rule expected")
	}
	return rv.rule
}

func checkSingle(l *lua.State, index int) geom.Transform {
	tv, ok := lua.CheckUserData(l, index, transformTypeName).(*transformValue)
	if !ok {
		lua.ArgumentError(l, index, "transform expected")
	}
	t, ok := tv.tf.(geom.Transform)
	if !ok {
		lua.ArgumentError(l, index, "single transform expected, got a replication")
	}
	return t
}

func pushRule(l *lua.State, r rule.Rule) {
	l.PushUserData(&ruleValue{rule: r})
	lua.SetMetaTableNamed(l, ruleTypeName)
}

func pushTransform(l *lua.State, tf geom.Transformer) {
	l.PushUserData(&transformValue{tf: tf})
	lua.SetMetaTableNamed(l, transformTypeName)
}
