package motemplate

import (
	"fmt"
	"reflect"
)

// Getter is implemented by context values that resolve their own keys, for
// example values that populate lazily. A nil result means the key is absent.
type Getter interface {
	Get(key string) interface{}
}

// lookupKey fetches key from a map-like value. Returns nil when the value has
// no key capability or the key is absent. Absent and null are not
// distinguished: a nil entry resolves like a missing one.
func lookupKey(value interface{}, key string) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return v[key]
	case Getter:
		return v.Get(key)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		mv := rv.MapIndex(reflect.ValueOf(key))
		if mv.IsValid() {
			return mv.Interface()
		}
	}
	return nil
}

// canLookup reports whether a value supports key lookup, which also makes it
// pushable as a section context.
func canLookup(value interface{}) bool {
	switch value.(type) {
	case nil:
		return false
	case map[string]interface{}:
		return true
	case Getter:
		return true
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// asList reports whether a value is iterable by a section, and if so returns
// its elements.
func asList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return v, true
	case string:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// shouldRender is the truthiness test shared by verted and inverted sections:
// absent is false, a boolean is itself, a list is "non-empty", anything else
// is true.
func shouldRender(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	if items, ok := asList(value); ok {
		return len(items) > 0
	}
	return true
}

// stringify converts an interpolated value to text. Strings pass through;
// everything else uses its default formatting.
func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
