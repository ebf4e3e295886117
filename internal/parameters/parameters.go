// Package parameters handles generic configuration Params, a map[string]string that the
// user can set.
package parameters

import (
	"slices"
	"strconv"
	"strings"

	"github.com/janpfeifer/connect4go/internal/generics"
	"github.com/pkg/errors"
)

// Params represent generic configuration parameters.
type Params map[string]string

// ListSeparator separates the values of list parameters, e.g.: "piece_count=0/1/2/3".
const ListSeparator = "/"

// NewFromConfigString create params from user's configuration string: a comma-separated list of
// "key=value" or simply "key" (for booleans) entries.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2) // Split into up to 2 parts to handle '=' in values
		if len(subParts) == 1 {
			params[subParts[0]] = ""
		} else {
			params[subParts[0]] = subParts[1]
		}
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T interface {
	bool | int | uint64 | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T interface {
	bool | int | uint64 | float64 | string
}](params Params, key string, defaultValue T) (T, error) {
	vAny := (any)(defaultValue)
	var t T
	toT := func(v any) T { return v.(T) }
	switch vAny.(type) {
	case string:
		if value, exists := params[key]; exists {
			return toT(value), nil
		}
	case int:
		if value, exists := params[key]; exists && value != "" {
			parsedValue, err := strconv.Atoi(value)
			if err != nil {
				return t, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
			}
			return toT(parsedValue), nil
		}
	case uint64:
		if value, exists := params[key]; exists && value != "" {
			parsedValue, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return t, errors.Wrapf(err, "failed to parse configuration %s=%q to uint64", key, value)
			}
			return toT(parsedValue), nil
		}
	case float64:
		if value, exists := params[key]; exists && value != "" {
			parsedValue, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return t, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
			}
			return toT(parsedValue), nil
		}
	case bool:
		if value, exists := params[key]; exists {
			if value == "" || strings.ToLower(value) == "true" || value == "1" { // Empty value is considered "true"
				return toT(true), nil
			}
			if strings.ToLower(value) == "false" || value == "0" {
				return toT(false), nil
			}
			return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
		}
	}
	return defaultValue, nil
}

// PopListOr parses a list of values separated by ListSeparator (e.g. "0/1/2/3") and deletes the key
// from params. If the key is not present it returns a copy of defaultValue. An empty list is an error.
func PopListOr[T interface{ int | float64 }](params Params, key string, defaultValue []T) ([]T, error) {
	value, exists := params[key]
	if !exists {
		return slices.Clone(defaultValue), nil
	}
	if value == "" {
		return nil, errors.Errorf("configuration %q requires a list of values separated by %q", key, ListSeparator)
	}
	parts := strings.Split(value, ListSeparator)
	list := make([]T, 0, len(parts))
	for _, part := range parts {
		var e T
		switch any(e).(type) {
		case int:
			parsed, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse configuration %s=%q to a list of ints", key, value)
			}
			e = T(parsed)
		case float64:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse configuration %s=%q to a list of floats", key, value)
			}
			e = T(parsed)
		}
		list = append(list, e)
	}
	delete(params, key)
	return list, nil
}

// CheckAllConsumed returns an error listing the parameters left in params. It should be called after
// all known parameters were popped.
func CheckAllConsumed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := slices.Collect(generics.SortedKeys(params))
	return errors.Errorf("unknown parameters \"%s\" passed", strings.Join(keys, "\", \""))
}
