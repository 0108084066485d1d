package canopy

import (
	"github.com/arvel0/canopy/pkg/nodes"
	"github.com/arvel0/canopy/pkg/schema"
)

// FieldManifest is the serializable form of one declared input or output,
// shaped for host registration and widget rendering.
type FieldManifest struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required" yaml:"required"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Multiline   bool     `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Choices     []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeManifest is the serializable declaration of one node.
type NodeManifest struct {
	Name     string          `json:"name" yaml:"name"`
	Category string          `json:"category" yaml:"category"`
	Inputs   []FieldManifest `json:"inputs" yaml:"inputs"`
	Outputs  []FieldManifest `json:"outputs" yaml:"outputs"`
}

// Nodes returns the manifest of every registered node, sorted by name.
func (h *Host) Nodes() ([]NodeManifest, error) {
	names := h.registry.Names()
	manifests := make([]NodeManifest, 0, len(names))
	for _, name := range names {
		m, err := h.Node(name)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Node returns the manifest for a single registered node.
func (h *Host) Node(name string) (NodeManifest, error) {
	node, err := h.registry.Node(name, h.caller)
	if err != nil {
		return NodeManifest{}, err
	}
	return manifestFor(node), nil
}

func manifestFor(node nodes.Node) NodeManifest {
	m := NodeManifest{
		Name:     node.Name(),
		Category: node.Category(),
		Inputs:   make([]FieldManifest, 0, len(node.Inputs())),
		Outputs:  make([]FieldManifest, 0, len(node.Outputs())),
	}
	for _, f := range node.Inputs() {
		m.Inputs = append(m.Inputs, manifestField(f))
	}
	for _, f := range node.Outputs() {
		m.Outputs = append(m.Outputs, manifestField(f))
	}
	return m
}

func manifestField(f schema.NamedField) FieldManifest {
	out := FieldManifest{
		Name:        f.Name,
		Type:        f.Type.Name(),
		Required:    f.Required,
		Default:     f.Default,
		Multiline:   f.Multiline,
		Description: f.Description,
	}
	if choice, ok := f.Type.(*schema.ChoiceType); ok {
		out.Choices = choice.Options()
	}
	return out
}
