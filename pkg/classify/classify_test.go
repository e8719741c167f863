package classify

import (
	"reflect"
	"testing"

	"github.com/Blimmp/miro-svg-dl/pkg/miro"
)

func imageItem(id string, data map[string]interface{}) miro.Item {
	return miro.Item{ID: id, Type: miro.ItemTypeImage, Data: data}
}

func TestClassifyImage(t *testing.T) {
	item := imageItem("img1", map[string]interface{}{
		"imageUrl": "https://cdn.example.com/resources/img1",
		"title":    "diagram.svg",
	})

	c, ok := Classify(item)
	if !ok {
		t.Fatal("expected image with imageUrl to be a candidate")
	}
	if c.ItemID != "img1" || c.ItemType != "image" {
		t.Errorf("unexpected identity: %+v", c)
	}
	if c.DeclaredName != "diagram.svg" {
		t.Errorf("declared name = %q, want diagram.svg", c.DeclaredName)
	}
	if len(c.URLs) != 1 || c.URLs[0] != "https://cdn.example.com/resources/img1" {
		t.Errorf("unexpected URLs: %v", c.URLs)
	}
}

func TestClassifyImageWithoutURL(t *testing.T) {
	item := imageItem("img2", map[string]interface{}{"title": "no url here"})
	if _, ok := Classify(item); ok {
		t.Error("image without any URL field must be rejected")
	}
}

func TestClassifyDocument(t *testing.T) {
	item := miro.Item{
		ID:   "doc1",
		Type: miro.ItemTypeDocument,
		Data: map[string]interface{}{
			"documentUrl": "https://cdn.example.com/docs/doc1",
			"title":       "uploaded",
		},
	}

	c, ok := Classify(item)
	if !ok {
		t.Fatal("expected document with documentUrl to be a candidate")
	}
	if c.DeclaredName != "uploaded" {
		t.Errorf("declared name = %q", c.DeclaredName)
	}
}

func TestClassifyURLOrderAndDedup(t *testing.T) {
	item := imageItem("img3", map[string]interface{}{
		"url":      "https://cdn.example.com/b",
		"imageUrl": "https://cdn.example.com/a",
		"data":     "https://cdn.example.com/a", // duplicate of imageUrl
	})

	c, ok := Classify(item)
	if !ok {
		t.Fatal("expected candidate")
	}
	want := []string{"https://cdn.example.com/a", "https://cdn.example.com/b"}
	if !reflect.DeepEqual(c.URLs, want) {
		t.Errorf("URLs = %v, want %v (fixed field order, deduplicated)", c.URLs, want)
	}
}

func TestClassifyRejectsNonHTTPValues(t *testing.T) {
	item := imageItem("img4", map[string]interface{}{
		"imageUrl": "data:image/png;base64,AAAA",
		"url":      42,
	})
	if _, ok := Classify(item); ok {
		t.Error("non-fetchable URL values must not produce a candidate")
	}
}

func TestClassifyShapeRequiresAttachment(t *testing.T) {
	plain := miro.Item{
		ID:   "shape1",
		Type: miro.ItemTypeShape,
		Data: map[string]interface{}{"shape": "rectangle", "content": "hello"},
	}
	if _, ok := Classify(plain); ok {
		t.Error("plain shape must be rejected")
	}

	withImage := miro.Item{
		ID:   "shape2",
		Type: miro.ItemTypeShape,
		Data: map[string]interface{}{
			"shape":    "rectangle",
			"imageUrl": "https://cdn.example.com/fills/shape2",
		},
	}
	if _, ok := Classify(withImage); !ok {
		t.Error("shape with explicit image reference must be a candidate")
	}
}

func TestClassifyFillImage(t *testing.T) {
	item := miro.Item{
		ID:   "frame1",
		Type: miro.ItemTypeFrame,
		Data: map[string]interface{}{
			"fill": map[string]interface{}{
				"imageUrl": "https://cdn.example.com/fills/frame1",
			},
		},
	}

	c, ok := Classify(item)
	if !ok {
		t.Fatal("frame with image fill must be a candidate")
	}
	if c.URLs[0] != "https://cdn.example.com/fills/frame1" {
		t.Errorf("unexpected URLs: %v", c.URLs)
	}
}

func TestClassifyUnknownType(t *testing.T) {
	item := miro.Item{
		ID:   "x",
		Type: "mind_map_node",
		Data: map[string]interface{}{"imageUrl": "https://cdn.example.com/x"},
	}
	if _, ok := Classify(item); ok {
		t.Error("unknown item types must be rejected")
	}
}

func TestClassifyIsPure(t *testing.T) {
	item := imageItem("same", map[string]interface{}{
		"imageUrl": "https://cdn.example.com/same",
		"title":    "name.svg",
	})

	first, ok1 := Classify(item)
	second, ok2 := Classify(item)
	if ok1 != ok2 || !reflect.DeepEqual(first, second) {
		t.Error("classification of the same record must be identical on every call")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with/slash", "with_slash"},
		{`back\slash`, "back_slash"},
		{"nul\x00byte", "nul_byte"},
		{`angry<>:"|?*name`, "angry_______name"},
		{"  .trimmed. ", "trimmed"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
