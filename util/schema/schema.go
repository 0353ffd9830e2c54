// Package schema provides utilities for generating tool input schemas from
// Go structs and validating argument payloads against them.
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/agoralabs/agora/protocol"
	"github.com/mitchellh/mapstructure"
)

// goKindToSchemaType maps Go kinds to the closed schema kind set.
func goKindToSchemaType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// FromStruct generates a protocol.InputSchema from struct tags. Field names
// come from the `json` tag, descriptions from the `description` tag, and
// allowed values from the `enum` tag. Non-pointer fields are required;
// optional arguments are declared as pointers.
func FromStruct(v interface{}) protocol.InputSchema {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	props := map[string]protocol.PropertyDetail{}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		isPtr := field.Type.Kind() == reflect.Ptr
		fieldType := field.Type
		if isPtr {
			fieldType = fieldType.Elem()
		}
		if !isPtr {
			required = append(required, name)
		}

		detail := protocol.PropertyDetail{
			Type:        goKindToSchemaType(fieldType.Kind()),
			Description: field.Tag.Get("description"),
		}

		if detail.Type == "array" {
			detail.Items = &protocol.PropertyDetail{
				Type: goKindToSchemaType(fieldType.Elem().Kind()),
			}
		}

		if enumTag := field.Tag.Get("enum"); enumTag != "" {
			for _, ev := range strings.Split(enumTag, ",") {
				detail.Enum = append(detail.Enum, strings.TrimSpace(ev))
			}
		}

		props[name] = detail
	}

	return protocol.InputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// kindOf reports the schema kind of a decoded JSON value.
func kindOf(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ValidateArguments checks an argument payload against a declared input
// schema. All missing required fields are reported in a single failure, and
// every present declared field must match its declared kind. Fields not
// declared in the schema are ignored. The returned error, if any, is a
// *protocol.Error with kind InvalidParams.
func ValidateArguments(s protocol.InputSchema, args map[string]interface{}) error {
	var missing []string
	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}

	var problems []string
	if len(missing) > 0 {
		sort.Strings(missing)
		problems = append(problems, fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")))
	}

	// Deterministic order for mismatch reports.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		detail, declared := s.Properties[name]
		if !declared {
			continue
		}
		value := args[name]
		actual := kindOf(value)
		if actual != detail.Type {
			problems = append(problems, fmt.Sprintf("field %q: expected %s, got %s", name, detail.Type, actual))
			continue
		}
		if detail.Type == "array" && detail.Items != nil {
			items, _ := value.([]interface{})
			for i, item := range items {
				if itemKind := kindOf(item); itemKind != detail.Items.Type {
					problems = append(problems, fmt.Sprintf("field %q[%d]: expected %s, got %s", name, i, detail.Items.Type, itemKind))
				}
			}
		}
	}

	if len(problems) > 0 {
		return protocol.NewInvalidParamsError(strings.Join(problems, "; "))
	}
	return nil
}

// DecodeArguments decodes a validated argument map into a typed struct using
// the same `json` tags the schema was generated from.
func DecodeArguments(args map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	})
	if err != nil {
		return fmt.Errorf("internal error creating argument decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
