package schema

// Field describes one declared node input or output.
type Field struct {
	Type Type
	// Required marks fields the host must supply. Optional fields fall back
	// to Default (which may be nil, meaning "absent").
	Required bool
	Default  any
	// Multiline hints host UIs to render a textarea instead of a single line.
	Multiline bool
	// Description is surfaced in manifests and tool schemas.
	Description string
}

// NamedField pairs a field with its declared name. Order is preserved so
// hosts render inputs in declaration order.
type NamedField struct {
	Name string
	Field
}

// Inputs is the ordered input declaration of a node.
type Inputs []NamedField

// Outputs is the ordered output declaration of a node.
type Outputs []NamedField

// Get returns the field declared under name.
func (in Inputs) Get(name string) (NamedField, bool) {
	for _, f := range in {
		if f.Name == name {
			return f, true
		}
	}
	return NamedField{}, false
}

// Names returns the declared field names in order.
func (in Inputs) Names() []string {
	names := make([]string, len(in))
	for i, f := range in {
		names[i] = f.Name
	}
	return names
}

// Resolve checks data against the declared inputs and returns the effective
// values: defaults applied for absent optional fields, every present value
// validated against its type. Unknown keys in data are rejected so typos
// surface before a paid API call. All failures are reported together.
func Resolve(inputs Inputs, data map[string]any) (map[string]any, error) {
	var errs []error
	resolved := make(map[string]any, len(inputs))

	for _, f := range inputs {
		value, exists := data[f.Name]
		if !exists {
			if f.Required {
				errs = append(errs, &ValidationError{Key: f.Name, Reason: "required"})
				continue
			}
			if f.Default != nil {
				resolved[f.Name] = f.Default
			}
			continue
		}
		if err := f.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: f.Name, Reason: err.Error(), Value: value})
			continue
		}
		resolved[f.Name] = value
	}

	for key := range data {
		if _, ok := inputs.Get(key); !ok {
			errs = append(errs, &ValidationError{Key: key, Reason: "not declared by this node"})
		}
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return resolved, nil
}
