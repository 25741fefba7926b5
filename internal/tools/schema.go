package tools

import (
	"math"

	"foundry/pkg/errors"
)

// ParamType enumerates the JSON types a tool parameter may declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Parameter describes one named tool argument.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	Default     interface{}
}

// Schema renders the parameter list as a JSON-Schema-style object for
// presentation to the agent runtime.
func Schema(params []Parameter) map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}

	for _, p := range params {
		prop := map[string]interface{}{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ValidateArgs checks required presence and basic type compatibility of the
// supplied arguments. Extra arguments are tolerated: the remote endpoint
// owns its payload shape. Validation failures must never reach the network.
func ValidateArgs(params []Parameter, args map[string]interface{}) error {
	for _, p := range params {
		val, present := args[p.Name]
		if !present {
			if p.Required {
				return errors.NewValidationError(p.Name, "required argument is missing", nil)
			}
			continue
		}

		if err := checkType(p, val); err != nil {
			return err
		}

		if len(p.Enum) > 0 {
			s, ok := val.(string)
			if !ok || !contains(p.Enum, s) {
				return errors.NewValidationError(p.Name, "value is not one of the allowed options", val)
			}
		}
	}
	return nil
}

func checkType(p Parameter, val interface{}) error {
	if val == nil {
		return errors.NewValidationError(p.Name, "argument must not be null", val)
	}

	switch p.Type {
	case TypeString:
		if _, ok := val.(string); !ok {
			return errors.NewValidationError(p.Name, "expected a string", val)
		}
	case TypeBoolean:
		if _, ok := val.(bool); !ok {
			return errors.NewValidationError(p.Name, "expected a boolean", val)
		}
	case TypeNumber:
		if !isNumeric(val) {
			return errors.NewValidationError(p.Name, "expected a number", val)
		}
	case TypeInteger:
		if !isIntegral(val) {
			return errors.NewValidationError(p.Name, "expected an integer", val)
		}
	case TypeObject:
		if _, ok := val.(map[string]interface{}); !ok {
			return errors.NewValidationError(p.Name, "expected an object", val)
		}
	case TypeArray:
		if _, ok := val.([]interface{}); !ok {
			return errors.NewValidationError(p.Name, "expected an array", val)
		}
	}
	return nil
}

func isNumeric(val interface{}) bool {
	switch val.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

// isIntegral accepts ints and floats without a fractional part; JSON
// decoding turns every number into float64.
func isIntegral(val interface{}) bool {
	switch v := val.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == math.Trunc(v)
	case float32:
		return float64(v) == math.Trunc(float64(v))
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
