package types

import "testing"

func TestImageListRoundTrip(t *testing.T) {
	value, err := ImageList{"a.png", "b.png"}.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != `["a.png","b.png"]` {
		t.Fatalf("unexpected value %v", value)
	}

	var list ImageList
	if err := list.Scan([]byte(`["c.png"]`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(list) != 1 || list[0] != "c.png" {
		t.Fatalf("unexpected list %v", list)
	}
}

func TestImageListScanEdgeCases(t *testing.T) {
	var list ImageList
	if err := list.Scan(nil); err != nil || list == nil || len(list) != 0 {
		t.Fatalf("nil scan should produce empty list, got %v %v", list, err)
	}
	if err := list.Scan(""); err != nil || len(list) != 0 {
		t.Fatalf("empty scan should produce empty list, got %v %v", list, err)
	}
	if err := list.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if value, _ := ImageList(nil).Value(); value != "[]" {
		t.Fatalf("nil list should marshal to [], got %v", value)
	}
}
