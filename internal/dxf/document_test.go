package dxf

import (
	"bytes"
	"strings"
	"testing"
)

func TestDocument_Empty(t *testing.T) {
	var doc Document

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	text := string(data)
	for _, want := range []string{"$ACADVER", "AC1024", "ENTITIES", "EOF"} {
		if !strings.Contains(text, want) {
			t.Errorf("drawing is missing %q", want)
		}
	}
	if doc.EntityCount() != 0 {
		t.Errorf("entity count = %d; want 0", doc.EntityCount())
	}
	if strings.Contains(text, "LWPOLYLINE") {
		t.Error("empty drawing should not contain polylines")
	}
}

func TestDocument_AddPolyline(t *testing.T) {
	var doc Document
	doc.AddPolyline("0", 12.5, []Point{
		{X: 100, Y: 200},
		{X: 150.25, Y: 250.75},
		{X: 200, Y: 200},
	})

	if doc.EntityCount() != 1 {
		t.Fatalf("entity count = %d; want 1", doc.EntityCount())
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	text := string(data)

	// Group codes of one LWPOLYLINE: layer, vertex count, flags,
	// elevation, then the coordinate pairs.
	for _, want := range []string{
		"0\nLWPOLYLINE\n",
		"8\n0\n",
		"90\n3\n",
		"70\n0\n",
		"38\n12.5\n",
		"10\n100\n",
		"20\n200\n",
		"10\n150.25\n",
		"20\n250.75\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("drawing is missing %q", want)
		}
	}
}

func TestDocument_ShortPolylineIgnored(t *testing.T) {
	var doc Document
	doc.AddPolyline("0", 1, nil)
	doc.AddPolyline("0", 1, []Point{{X: 1, Y: 2}})

	if doc.EntityCount() != 0 {
		t.Errorf("entity count = %d; want 0", doc.EntityCount())
	}
}

func TestDocument_BytesDeterministic(t *testing.T) {
	var doc Document
	doc.AddPolyline("0", 5, []Point{{X: 1, Y: 2}, {X: 3, Y: 4}})

	first, err := doc.Bytes()
	if err != nil {
		t.Fatalf("first Bytes: %v", err)
	}
	second, err := doc.Bytes()
	if err != nil {
		t.Fatalf("second Bytes: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated renders of the same drawing differ")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: 100, want: "100"},
		{in: 12.5, want: "12.5"},
		{in: -3.25, want: "-3.25"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
