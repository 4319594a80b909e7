package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/immense/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultDepth is the recursion budget used when a scene leaves depth unset.
const DefaultDepth = 8

// Format is a serialization format for scene documents.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension. Anything other than
// .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Scene is a named set of rules with an entry point.
type Scene struct {
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Seed        int64             `yaml:"seed,omitempty" json:"seed,omitempty"`
	Depth       int               `yaml:"depth,omitempty" json:"depth,omitempty"`
	Entry       string            `yaml:"entry" json:"entry"`
	Rules       map[string][]Node `yaml:"rules" json:"rules"`
}

// Node is one element of a rule body. Exactly one of Shape, Ref, Group or
// Choose must be set.
type Node struct {
	Shape        string `yaml:"shape,omitempty" json:"shape,omitempty"`
	Subdivisions int    `yaml:"subdivisions,omitempty" json:"subdivisions,omitempty"`
	Ref          string `yaml:"ref,omitempty" json:"ref,omitempty"`
	Group        []Node `yaml:"group,omitempty" json:"group,omitempty"`
	Choose       []Node `yaml:"choose,omitempty" json:"choose,omitempty"`

	// Transforms are raw entries such as {translate: [1, 0, 0]}; see
	// DecodeTransform.
	Transforms []map[string]any `yaml:"transforms,omitempty" json:"transforms,omitempty"`
	Replicate  *Replicate       `yaml:"replicate,omitempty" json:"replicate,omitempty"`
}

// Replicate repeats a node Count times, each copy one Step further.
type Replicate struct {
	Count int              `yaml:"count" json:"count"`
	Step  []map[string]any `yaml:"step" json:"step"`
}

// Kind reports which node kind is set, or "" when none or several are.
func (n Node) Kind() string {
	var kinds []string
	if n.Shape != "" {
		kinds = append(kinds, "shape")
	}
	if n.Ref != "" {
		kinds = append(kinds, "ref")
	}
	if n.Group != nil {
		kinds = append(kinds, "group")
	}
	if n.Choose != nil {
		kinds = append(kinds, "choose")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// EffectiveDepth returns Depth, or DefaultDepth when it is zero.
func (s *Scene) EffectiveDepth() int {
	if s.Depth == 0 {
		return DefaultDepth
	}
	return s.Depth
}

// RuleNames returns the rule names in sorted order.
func (s *Scene) RuleNames() []string {
	names := make([]string, 0, len(s.Rules))
	for name := range s.Rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parse decodes a scene document. Unknown fields are rejected. The result is
// not validated; call Validate before compiling it.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: json: %v", domain.ErrInvalidScene, err)
		}
	case FormatYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidScene)
			}
			return nil, fmt.Errorf("%w: yaml: %v", domain.ErrInvalidScene, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene format %q", format)
	}
	return &s, nil
}

// Load reads and parses a scene file, choosing the format from its
// extension. A scene without a name takes the file's base name.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Marshal encodes s in the given format.
func Marshal(s *Scene, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported scene format %q", format)
}
