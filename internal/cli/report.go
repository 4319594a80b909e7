package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/immense/internal/presentation/graph"
	"github.com/aretw0/immense/internal/presentation/tui"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/aretw0/immense/pkg/scene"
)

// ValidateResult summarizes a successful validation.
type ValidateResult struct {
	Meshes      int
	Unreachable []string // rules the entry never references
}

// Validate parses, validates and evaluates the scene or script at path.
// Validation problems come back as a *scene.AggregateError.
func Validate(path string, logger *slog.Logger) (ValidateResult, error) {
	src, err := LoadSource(path, CompileOptions{}, logger)
	if err != nil {
		return ValidateResult{}, err
	}
	res := ValidateResult{Meshes: rule.Count(src.Rule)}
	if err := src.Err(); err != nil {
		return res, fmt.Errorf("deferred rules failed: %w", err)
	}
	if src.Scene != nil {
		res.Unreachable = graph.Unreachable(src.Scene)
	}
	return res, nil
}

// Describe writes a rendered markdown summary of the scene at path.
func Describe(path string, w io.Writer, logger *slog.Logger) error {
	if IsScript(path) {
		return errors.New("describe needs a scene document; Lua scripts have no static structure")
	}
	src, err := LoadSource(path, CompileOptions{}, logger)
	if err != nil {
		return err
	}
	return renderMarkdown(w, tui.DescribeScene(src.Scene, rule.Count(src.Rule)))
}

// Graph writes a Mermaid diagram of the rule references of the scene at path.
func Graph(path string, w io.Writer) error {
	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(sc))
	return err
}

// Inspect decodes the OBJ file at path and writes its counts and bounds.
func Inspect(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := obj.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return renderMarkdown(w, tui.DescribeOBJ(filepath.Base(path), doc))
}

// renderMarkdown styles md for terminals and writes it raw elsewhere.
func renderMarkdown(w io.Writer, md string) error {
	out := md
	if isTerminal(w) {
		rendered, err := tui.NewRenderer()(md)
		if err == nil {
			out = rendered
		}
	}
	_, err := io.WriteString(w, out)
	return err
}
