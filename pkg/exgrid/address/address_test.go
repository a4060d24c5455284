package address

import (
	"errors"
	"slices"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		col, row int
		expected string
	}{
		{1, 1, "A1"},
		{26, 1, "Z1"},
		{27, 1, "AA1"},
		{52, 10, "AZ10"},
		{702, 3, "ZZ3"},
		{703, 3, "AAA3"},
		{16384, 1048576, "XFD1048576"},
	}

	for _, tt := range tests {
		got, err := Encode(tt.col, tt.row)
		if err != nil {
			t.Fatalf("Encode(%d, %d) failed: %v", tt.col, tt.row, err)
		}
		if got != tt.expected {
			t.Errorf("Encode(%d, %d) = %q, expected %q", tt.col, tt.row, got, tt.expected)
		}
	}
}

func TestEncodeInvalid(t *testing.T) {
	for _, c := range [][2]int{{0, 1}, {1, 0}, {-1, 5}, {3, -2}} {
		if _, err := Encode(c[0], c[1]); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Encode(%d, %d): expected ErrInvalidAddress, got %v", c[0], c[1], err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for col := 1; col <= 20000; col += 7 {
		for _, row := range []int{1, 2, 99, 1048576, 5000000} {
			text, err := Encode(col, row)
			if err != nil {
				t.Fatalf("Encode(%d, %d) failed: %v", col, row, err)
			}
			got, err := Decode(text)
			if err != nil {
				t.Fatalf("Decode(%q) failed: %v", text, err)
			}
			if got.Col != col || got.Row != row {
				t.Fatalf("Decode(%q) = %+v, expected (%d, %d)", text, got, col, row)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		input   string
		want    Address
		wantErr bool
	}{
		{"A1", Address{1, 1}, false},
		{"b2", Address{2, 2}, false},
		{"aA10", Address{27, 10}, false},
		{"", Address{}, true},
		{"A", Address{}, true},
		{"12", Address{}, true},
		{"A0", Address{}, true},
		{"A-1", Address{}, true},
		{"$A$1", Address{}, true},
		{"A1B", Address{}, true},
		{"Ä1", Address{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("expected ErrInvalidAddress, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeRange(t *testing.T) {
	tests := []struct {
		input   string
		want    Range
		wantErr bool
	}{
		{"A1:D20", Range{Address{1, 1}, Address{4, 20}}, false},
		{"$A$1:$D$20", Range{Address{1, 1}, Address{4, 20}}, false},
		{"D20:A1", Range{Address{1, 1}, Address{4, 20}}, false},
		{"C1:A3", Range{Address{1, 1}, Address{3, 3}}, false},
		{"B2", Range{Address{2, 2}, Address{2, 2}}, false},
		{"A1:", Range{}, true},
		{":B2", Range{}, true},
		{"A1:B2:C3", Range{}, true},
		{"", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeRange(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestToAbsolute(t *testing.T) {
	got, err := ToAbsolute(28, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != "$AB$7" {
		t.Errorf("Expected $AB$7, got %s", got)
	}
	if _, err := ToAbsolute(0, 7); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Expected ErrInvalidAddress, got %v", err)
	}
}

func TestRangeHelpers(t *testing.T) {
	r, err := DecodeRange("B2")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Single() || r.String() != "B2" {
		t.Errorf("Expected single B2, got %s", r)
	}

	grown := r.Offset(1, 1)
	if grown.String() != "B2:C3" {
		t.Errorf("Expected B2:C3, got %s", grown)
	}
	if grown.Absolute() != "$B$2:$C$3" {
		t.Errorf("Expected $B$2:$C$3, got %s", grown.Absolute())
	}
	if got := r.Offset(-3, -3); got != r {
		t.Errorf("Expected clamped offset to stay at B2, got %s", got)
	}

	other, _ := DecodeRange("C3:D4")
	if !grown.Overlaps(other) {
		t.Error("Expected B2:C3 to overlap C3:D4")
	}
	far, _ := DecodeRange("E5:F6")
	if grown.Overlaps(far) {
		t.Error("Expected B2:C3 not to overlap E5:F6")
	}
	if !grown.Contains(Address{3, 2}) || grown.Contains(Address{4, 2}) {
		t.Error("Contains returned wrong result")
	}

	got := slices.Collect(grown.Each())
	want := []Address{{2, 2}, {3, 2}, {2, 3}, {3, 3}}
	if !slices.Equal(got, want) {
		t.Errorf("Each() = %v, expected %v", got, want)
	}
}
