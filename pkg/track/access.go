package track

import (
	"fmt"
	"reflect"
	"strings"
)

// Get reads a named property from an entity. Supported shapes are structs,
// pointers to structs, and map[string]V. Struct fields match by exact name
// first, then case-insensitively.
func Get(entity any, property string) (any, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("property %q: entity is nil", property)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("property %q: map keys must be strings", property)
		}
		mv := v.MapIndex(reflect.ValueOf(property).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	case reflect.Struct:
		fv := fieldByName(v, property)
		if !fv.IsValid() {
			return nil, fmt.Errorf("property %q: no such field on %s", property, v.Type())
		}
		return fv.Interface(), nil
	default:
		return nil, fmt.Errorf("property %q: unsupported entity kind %s", property, v.Kind())
	}
}

// Set writes a named property and returns the updated entity. Pointers and
// maps are mutated in place; struct values are copied, modified, and the copy
// returned, so callers must store the result back.
func Set(entity any, property string, value any) (any, error) {
	v := reflect.ValueOf(entity)

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("property %q: entity is nil", property)
		}
		elem := v.Elem()
		if elem.Kind() != reflect.Struct {
			return nil, fmt.Errorf("property %q: unsupported entity kind *%s", property, elem.Kind())
		}
		if err := setField(elem, property, value); err != nil {
			return nil, err
		}
		return entity, nil
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("property %q: map keys must be strings", property)
		}
		if v.IsNil() {
			return nil, fmt.Errorf("property %q: entity map is nil", property)
		}
		key := reflect.ValueOf(property).Convert(v.Type().Key())
		val, err := coerce(reflect.ValueOf(value), v.Type().Elem())
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", property, err)
		}
		v.SetMapIndex(key, val)
		return entity, nil
	case reflect.Struct:
		// Copy into an addressable value before mutating.
		copied := reflect.New(v.Type()).Elem()
		copied.Set(v)
		if err := setField(copied, property, value); err != nil {
			return nil, err
		}
		return copied.Interface(), nil
	default:
		return nil, fmt.Errorf("property %q: unsupported entity kind %s", property, v.Kind())
	}
}

func setField(structVal reflect.Value, property string, value any) error {
	fv := fieldByName(structVal, property)
	if !fv.IsValid() {
		return fmt.Errorf("property %q: no such field on %s", property, structVal.Type())
	}
	if !fv.CanSet() {
		return fmt.Errorf("property %q: field is not settable", property)
	}
	val, err := coerce(reflect.ValueOf(value), fv.Type())
	if err != nil {
		return fmt.Errorf("property %q: %w", property, err)
	}
	fv.Set(val)
	return nil
}

func fieldByName(structVal reflect.Value, property string) reflect.Value {
	if fv := structVal.FieldByName(property); fv.IsValid() {
		return fv
	}
	return structVal.FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, property)
	})
}

func coerce(val reflect.Value, target reflect.Type) (reflect.Value, error) {
	if !val.IsValid() {
		// nil for nilable targets, zero otherwise.
		return reflect.Zero(target), nil
	}
	if val.Type().AssignableTo(target) {
		return val, nil
	}
	if val.Type().ConvertibleTo(target) {
		return val.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", val.Type(), target)
}
