package output

import "reflect"

// ApplyLimit truncates a list to at most limit elements. For a struct (or
// pointer to one) the first slice field tagged `output:"list"` is
// truncated on a copy. The input is never modified.
func ApplyLimit(data interface{}, limit int) interface{} {
	if data == nil || limit <= 0 {
		return data
	}

	v := reflect.ValueOf(data)
	isPtr := v.Kind() == reflect.Ptr
	if isPtr {
		if v.IsNil() {
			return data
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() <= limit {
			return data
		}
		return v.Slice(0, limit).Interface()
	case reflect.Struct:
		idx := listField(v.Type())
		if idx < 0 {
			return data
		}
		field := v.Field(idx)
		if field.Len() <= limit {
			return data
		}
		copied := reflect.New(v.Type())
		copied.Elem().Set(v)
		copied.Elem().Field(idx).Set(field.Slice(0, limit))
		if isPtr {
			return copied.Interface()
		}
		return copied.Elem().Interface()
	default:
		return data
	}
}

func listField(t reflect.Type) int {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Type.Kind() == reflect.Slice && f.Tag.Get("output") == "list" {
			return i
		}
	}
	return -1
}
