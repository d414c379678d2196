// Package parameters handles generic configuration Params, a map[string]string set by the user
// with a configuration string like "max_steps_factor=8,islands=false".
package parameters

import (
	"slices"
	"strconv"
	"strings"

	"github.com/janpfeifer/hexdomains/internal/generics"
	"github.com/pkg/errors"
)

// Params represent generic configuration parameters.
type Params map[string]string

// NewFromConfigString create params from user's configuration string: comma separated
// "key=value" pairs. A key without "=" is stored with an empty value.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=") // Only the first "=" separates, values may hold others.
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// Values accepted by GetParamOr and PopParamOr.
type Values interface {
	bool | int | float32 | float64 | string
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Values](params Params, key string, defaultValue T) (T, error) {
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
func GetParamOr[T Values](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		parsed = value
	case int:
		if value == "" {
			return defaultValue, nil
		}
		parsed, err = strconv.Atoi(value)
	case float32:
		if value == "" {
			return defaultValue, nil
		}
		var f float64
		f, err = strconv.ParseFloat(value, 32)
		parsed = float32(f)
	case float64:
		if value == "" {
			return defaultValue, nil
		}
		parsed, err = strconv.ParseFloat(value, 64)
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1": // Empty value is considered "true"
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.New("not a bool")
		}
	}
	if err != nil {
		return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to %T", key, value, defaultValue)
	}
	return parsed.(T), nil
}

// CheckAllUsed returns an error listing the keys left in params, typically after all known
// parameters were popped.
func CheckAllUsed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := slices.Collect(generics.SortedKeys(params))
	return errors.Errorf("unknown configuration parameter(s): %s", strings.Join(keys, ", "))
}
