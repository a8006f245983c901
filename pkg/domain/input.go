package domain

// FieldType describes how an editable input field is parsed.
type FieldType string

const (
	FieldArray  FieldType = "array"  // comma separated integers
	FieldNumber FieldType = "number" // a single integer
	FieldString FieldType = "string" // free text
)

// InputField declares one editable field of a problem's input form.
type InputField struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// Lenient drops unparseable array entries instead of rejecting the whole field.
	Lenient bool `json:"lenient,omitempty" yaml:"lenient,omitempty"`
}

// TestCase is a named preset input offered as a one-click regeneration.
type TestCase[I any] struct {
	Label string `json:"label" yaml:"label"`
	Value I      `json:"value" yaml:"value"`
}
