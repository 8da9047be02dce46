package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// StructTagValues lists the column tags of input in field order. Anonymous
// embedded structs without a tag are flattened into the parent.
func StructTagValues(input any) []string {

	targetValue := indirectStruct(input)

	result := make([]string, 0, targetValue.NumField())
	walkColumns(targetValue, func(tag string, _ reflect.Value) {
		result = append(result, tag)
	})

	return result

}

func StructToMap(input any) map[string]any {

	result := make(map[string]any)
	walkColumns(indirectStruct(input), func(tag string, field reflect.Value) {
		result[tag] = field.Interface()
	})

	return result

}

// StructToMapNonNil is StructToMap without the nil pointer, slice and map
// fields. It backs merge-style updates where a nil field means "leave the
// stored value alone".
func StructToMapNonNil(input any) map[string]any {

	result := make(map[string]any)
	walkColumns(indirectStruct(input), func(tag string, field reflect.Value) {
		switch field.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if field.IsNil() {
				return
			}
		}
		result[tag] = field.Interface()
	})

	return result

}

func indirectStruct(input any) reflect.Value {
	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return itemValue
}

func walkColumns(itemValue reflect.Value, fn func(tag string, field reflect.Value)) {
	itemType := itemValue.Type()

	for i := 0; i < itemValue.NumField(); i++ {

		structField := itemType.Field(i)
		tagValue := structField.Tag.Get(ColumnTag)

		if structField.Anonymous && tagValue == "" && structField.Type.Kind() == reflect.Struct {
			walkColumns(itemValue.Field(i), fn)
			continue
		}

		if structField.PkgPath != "" {
			continue
		}

		if tagValue == "" || tagValue == "-" {
			continue
		}

		fn(tagValue, itemValue.Field(i))

	}
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)

}
