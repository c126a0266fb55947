package config

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// AttributeMap is a convenience wrapper for pulling out typed information from a map.
type AttributeMap map[string]interface{}

// Has returns whether or not the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String attempts to return a string present in the map with the given name; returns an empty
// string otherwise.
func (am AttributeMap) String(name string) string {
	if x, has := am[name]; has {
		if s, ok := x.(string); ok {
			return s
		}
		panic(errors.Errorf("wanted a string for (%s) but got (%v) %T", name, x, x))
	}
	return ""
}

// Int attempts to return an integer present in the map with the given name; returns the given
// default otherwise. Numbers written as strings, hex included, are accepted.
func (am AttributeMap) Int(name string, def int) int {
	x, has := am[name]
	if !has {
		return def
	}
	v, err := cast.ToIntE(x)
	if err != nil {
		panic(errors.Errorf("wanted an int for (%s) but got (%v) %T", name, x, x))
	}
	return v
}

// Bool attempts to return a boolean present in the map with the given name; returns the given
// default otherwise.
func (am AttributeMap) Bool(name string, def bool) bool {
	x, has := am[name]
	if !has {
		return def
	}
	if v, ok := x.(bool); ok {
		return v
	}
	panic(errors.Errorf("wanted a bool for (%s) but got (%v) %T", name, x, x))
}

// TransformAttributeMap decodes attributes into a value of type T using the json field tags.
// Integer fields also accept strings such as "0x70".
func TransformAttributeMap[T any](attributes AttributeMap) (T, error) {
	var out T

	var forResult interface{}
	toT := reflect.TypeOf(out)
	if toT.Kind() == reflect.Ptr {
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     forResult,
		DecodeHook: stringToIntHook,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return out, err
	}
	return out, nil
}

func stringToIntHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(data)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToUint64E(data)
	default:
		return data, nil
	}
}
