package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect:"widget[,fmt:...][,max:...]"` struct tag.
type Tag struct {
	Widget Widget
	Format string  // fmt verb for labels, empty = default formatting
	Max    float64 // full-scale value for bars
}

// ParseTag parses an inspect struct tag. Unknown widgets and options are ignored.
func ParseTag(tag string) Tag {
	t := Tag{Max: 1}
	name, rest, _ := strings.Cut(tag, ",")
	t.Widget = widgetNames[strings.TrimSpace(name)]

	for _, opt := range strings.Split(rest, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			t.Format = val
		case "max":
			if m, err := strconv.ParseFloat(val, 64); err == nil && m > 0 {
				t.Max = m
			}
		}
	}
	return t
}

// Field is one exported component field ready to draw.
type Field struct {
	Name  string
	Value reflect.Value
	Tag   Tag
}

// Text formats the field value for a label.
func (f Field) Text() string {
	if f.Tag.Format != "" {
		return fmt.Sprintf(f.Tag.Format, f.Value.Interface())
	}
	if f.Value.CanFloat() {
		return strconv.FormatFloat(f.Value.Float(), 'f', 2, 64)
	}
	return fmt.Sprint(f.Value.Interface())
}

// Number returns the field as a float64 for bars.
func (f Field) Number() (float64, bool) {
	switch {
	case f.Value.CanFloat():
		return f.Value.Float(), true
	case f.Value.CanInt():
		return float64(f.Value.Int()), true
	case f.Value.CanUint():
		return float64(f.Value.Uint()), true
	}
	return 0, false
}

// ExtractFields lists the exported, non-skipped fields of a struct component.
// Non-struct values yield nil.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || len(sf.Index) > 1 {
			continue
		}
		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetSkip {
			continue
		}
		fv := v.FieldByIndex(sf.Index)
		if tag.Widget == WidgetAuto {
			tag.Widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				tag.Widget = WidgetBool
			}
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv, Tag: tag})
	}
	return fields
}

// ComponentName returns the type name of a component value.
func ComponentName(component any) string {
	t := reflect.TypeOf(component)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
