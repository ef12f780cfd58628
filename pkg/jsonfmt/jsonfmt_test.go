package jsonfmt

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Tests compare plain text output
	color.NoColor = true
}

func TestFormat_Object(t *testing.T) {
	out, err := Format(map[string]any{
		"name":   "blog",
		"count":  float64(3),
		"active": true,
		"note":   nil,
	})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := `{
  "active": true,
  "count": 3,
  "name": "blog",
  "note": null
}`
	if out != expected {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestFormat_NestedStructures(t *testing.T) {
	out, err := Format(map[string]any{
		"items": []any{
			map[string]any{"_id": "abc"},
			"plain",
		},
		"empty_obj": map[string]any{},
		"empty_arr": []any{},
	})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := `{
  "empty_arr": [],
  "empty_obj": {},
  "items": [
    {
      "_id": "abc"
    },
    "plain"
  ]
}`
	if out != expected {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestFormat_Scalar(t *testing.T) {
	out, err := Format("hello")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if out != `"hello"` {
		t.Errorf("Expected quoted string, got %s", out)
	}
}

func TestFormatRaw_PreservesLargeNumbers(t *testing.T) {
	out, err := FormatRaw([]byte(`{"rev":9007199254740993}`))
	if err != nil {
		t.Fatalf("FormatRaw failed: %v", err)
	}
	if !strings.Contains(out, "9007199254740993") {
		t.Errorf("Expected number preserved verbatim, got:\n%s", out)
	}
}

func TestFormatRaw_InvalidJSON(t *testing.T) {
	if _, err := FormatRaw([]byte(`{"a":`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestFormat_EscapesStrings(t *testing.T) {
	out, err := Format(map[string]any{"title": "line\nbreak \"quoted\""})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, `"line\nbreak \"quoted\""`) {
		t.Errorf("Expected escaped string, got:\n%s", out)
	}
}
