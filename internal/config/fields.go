package config

import "github.com/conn-castle/ladder/internal/messages"

// FieldType classifies the kind of value a config field accepts.
type FieldType string

const (
	// FieldBool accepts true or false.
	FieldBool FieldType = "bool"
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
	// FieldFreetext accepts arbitrary string input.
	FieldFreetext FieldType = "freetext"
	// FieldNonNegativeInt accepts zero or a positive integer.
	FieldNonNegativeInt FieldType = "non_negative_int"
	// FieldGlobList accepts a list of glob patterns.
	FieldGlobList FieldType = "glob_list"
)

// FieldOption describes a single selectable value for a field.
type FieldOption struct {
	Value       string
	Description string
}

// FieldDef describes a single config field's type and valid options.
type FieldDef struct {
	Key     string
	Type    FieldType
	Options []FieldOption
}

// fields is the ordered registry of every supported config key.
var fields = []FieldDef{
	{Key: "upgrade.base_branch", Type: FieldFreetext},
	{Key: "upgrade.remote", Type: FieldFreetext},
	{
		Key:  "upgrade.validation",
		Type: FieldEnum,
		Options: []FieldOption{
			{Value: ValidationWarn, Description: messages.ConfigValidationWarnDescription},
			{Value: ValidationStrict, Description: messages.ConfigValidationStrictDescription},
		},
	},
	{Key: "upgrade.cascade_dependencies", Type: FieldBool},
	{Key: "github.token_env", Type: FieldFreetext},
	{Key: "github.api_url", Type: FieldFreetext},
	{Key: "output.diff_lines", Type: FieldNonNegativeInt},
	{Key: "scan.exclude", Type: FieldGlobList},
}

// Fields returns a copy of the config field registry.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		f.Options = append([]FieldOption(nil), f.Options...)
		out[i] = f
	}
	return out
}

// LookupField returns the field definition for key.
func LookupField(key string) (FieldDef, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDef{}, false
}

// optionValues returns the option values of an enum field.
func optionValues(key string) []string {
	field, ok := LookupField(key)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		values = append(values, opt.Value)
	}
	return values
}
