// Package jsonfmt renders JSON values as indented, colorized text for
// terminal output. Colors degrade to plain text automatically when the
// output is not a TTY.
package jsonfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

const indentStep = "  "

var (
	keyColor    = color.New(color.FgCyan)
	stringColor = color.New(color.FgGreen)
	numberColor = color.New(color.FgYellow)
	boolColor   = color.New(color.FgMagenta)
	nullColor   = color.New(color.Faint)
)

// Disable turns off color output for the whole process.
func Disable() {
	color.NoColor = true
}

// Format renders a decoded JSON value as an indented, colorized string.
// Object keys are emitted in sorted order so output is stable.
func Format(value any) (string, error) {
	var b strings.Builder
	if err := writeValue(&b, value, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint renders a decoded JSON value to w, followed by a newline.
func Fprint(w io.Writer, value any) error {
	out, err := Format(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// FormatRaw decodes raw JSON bytes and renders them. Numbers are kept
// verbatim so large IDs don't lose precision through float64.
func FormatRaw(data []byte) (string, error) {
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return Format(value)
}

func writeValue(b *strings.Builder, value any, depth int) error {
	switch v := value.(type) {
	case nil:
		b.WriteString(nullColor.Sprint("null"))
	case bool:
		b.WriteString(boolColor.Sprintf("%t", v))
	case string:
		b.WriteString(stringColor.Sprint(quote(v)))
	case json.Number:
		b.WriteString(numberColor.Sprint(v.String()))
	case float64:
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.WriteString(numberColor.Sprint(string(encoded)))
	case map[string]any:
		return writeObject(b, v, depth)
	case []any:
		return writeArray(b, v, depth)
	default:
		// Structs and other marshalable values go through a decode
		// round trip so they render like plain JSON data.
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("unsupported value %T: %w", value, err)
		}
		var decoded any
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			return err
		}
		return writeValue(b, decoded, depth)
	}
	return nil
}

func writeObject(b *strings.Builder, object map[string]any, depth int) error {
	if len(object) == 0 {
		b.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inner := strings.Repeat(indentStep, depth+1)
	b.WriteString("{\n")
	for i, key := range keys {
		b.WriteString(inner)
		b.WriteString(keyColor.Sprint(quote(key)))
		b.WriteString(": ")
		if err := writeValue(b, object[key], depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(indentStep, depth))
	b.WriteString("}")
	return nil
}

func writeArray(b *strings.Builder, items []any, depth int) error {
	if len(items) == 0 {
		b.WriteString("[]")
		return nil
	}

	inner := strings.Repeat(indentStep, depth+1)
	b.WriteString("[\n")
	for i, item := range items {
		b.WriteString(inner)
		if err := writeValue(b, item, depth+1); err != nil {
			return err
		}
		if i < len(items)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(indentStep, depth))
	b.WriteString("]")
	return nil
}

func quote(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return string(encoded)
}
