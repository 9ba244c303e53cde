package modules

import "fmt"

// Argument coercion for boundary procedures. The script runtime hands over
// exported values (string, bool, int64, float64, []interface{},
// map[string]interface{}); these helpers keep per-module argument handling
// uniform.

func argString(args []interface{}, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", name, args[i])
	}
	return s, nil
}

func optString(args []interface{}, i int, def string) (string, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("optional argument %d must be a string, got %T", i, args[i])
	}
	return s, nil
}

func argNumber(args []interface{}, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch v := args[i].(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", name, args[i])
	}
}

func argInt(args []interface{}, i int, name string) (int64, error) {
	f, err := argNumber(args, i, name)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func optInt(args []interface{}, i int, def int64) (int64, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	f, err := argNumber(args, i, fmt.Sprintf("argument %d", i))
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func argStrings(args []interface{}, i int, name string) ([]string, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %q", name)
	}
	raw, ok := args[i].([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %q must be an array, got %T", name, args[i])
	}
	out := make([]string, len(raw))
	for j, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q element %d must be a string, got %T", name, j, v)
		}
		out[j] = s
	}
	return out, nil
}

func argMap(args []interface{}, i int, name string) (map[string]interface{}, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %q", name)
	}
	m, ok := args[i].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %q must be an object, got %T", name, args[i])
	}
	return m, nil
}
