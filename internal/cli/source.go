package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/immense/internal/compiler"
	"github.com/aretw0/immense/pkg/adapters/lua"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/aretw0/immense/pkg/scene"
)

// CompileOptions override scene settings. Lua scripts ignore them.
type CompileOptions struct {
	Seed  *int64
	Depth *int
}

// Source is a scene file compiled into a rule.
type Source struct {
	Path  string
	Scene *scene.Scene // nil for Lua scripts
	Rule  rule.Rule

	script *lua.Script
}

// Err returns errors raised by Lua deferred functions during the last
// evaluation. Always nil for scene documents.
func (s *Source) Err() error {
	if s.script == nil {
		return nil
	}
	return s.script.Err()
}

// IsScript reports whether path names a Lua script.
func IsScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".lua")
}

// LoadSource reads a scene document (.yaml, .yml, .json) or a Lua script
// (.lua) and compiles it.
func LoadSource(path string, opts CompileOptions, logger *slog.Logger) (*Source, error) {
	if IsScript(path) {
		if opts.Seed != nil || opts.Depth != nil {
			logger.Warn("seed and depth are ignored for Lua scripts", "path", path)
		}
		script := lua.New(lua.WithLogger(logger))
		r, err := script.DoFile(path)
		if err != nil {
			return nil, err
		}
		return &Source{Path: path, Rule: r, script: script}, nil
	}

	sc, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	var copts []compiler.Option
	if opts.Seed != nil {
		copts = append(copts, compiler.WithSeed(*opts.Seed))
	}
	if opts.Depth != nil {
		copts = append(copts, compiler.WithDepth(*opts.Depth))
	}
	r, err := compiler.Compile(sc, copts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{Path: path, Scene: sc, Rule: r}, nil
}
