package valueobject

import (
	"errors"
	"testing"
)

func TestJSONMapValueScanRoundTrip(t *testing.T) {
	in := JSONMap{"filename": "photo.jpg", "size": float64(1024), "final": true}

	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out JSONMap
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if out.GetString("filename") != "photo.jpg" {
		t.Errorf("filename = %q", out.GetString("filename"))
	}
	if out.GetInt64("size") != 1024 {
		t.Errorf("size = %d", out.GetInt64("size"))
	}
	if !out.GetBool("final") {
		t.Error("final = false")
	}
}

func TestJSONMapScanNil(t *testing.T) {
	var m JSONMap
	if err := m.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("scan nil gave %v", m)
	}
}

func TestJSONMapScanRejectsNonJSON(t *testing.T) {
	var m JSONMap
	if err := m.Scan(42); !errors.Is(err, ErrScanValue) {
		t.Fatalf("got %v, want ErrScanValue", err)
	}
}

func TestJSONMapGettersOnMissingKeys(t *testing.T) {
	m := JSONMap{}
	if m.GetString("x") != "" || m.GetInt64("x") != 0 || m.GetBool("x") {
		t.Fatal("missing keys must return zero values")
	}
}
