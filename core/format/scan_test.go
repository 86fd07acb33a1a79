// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package format

import (
	"errors"
	"testing"
)

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     []Slot
	}{
		{
			name:     "no placeholders",
			template: "Settings",
			want:     nil,
		},
		{
			name:     "literal percent only",
			template: "100%% done",
			want:     nil,
		},
		{
			name:     "single text placeholder",
			template: "Hi %@",
			want:     []Slot{{Position: 1, Type: TextLike}},
		},
		{
			name:     "implicit sequential positions",
			template: "%@ sent %d of %f",
			want: []Slot{
				{Position: 1, Type: TextLike},
				{Position: 2, Type: Integer},
				{Position: 3, Type: FloatingPoint},
			},
		},
		{
			name:     "explicit positions sorted",
			template: "%2$@ %1$d",
			want: []Slot{
				{Position: 1, Type: Integer, Explicit: true},
				{Position: 2, Type: TextLike, Explicit: true},
			},
		},
		{
			name:     "implicit continues after highest explicit",
			template: "%2$@ then %d",
			want: []Slot{
				{Position: 2, Type: TextLike, Explicit: true},
				{Position: 3, Type: Integer},
			},
		},
		{
			name:     "repeated explicit position with same type",
			template: "%1$@ and again %1$@",
			want:     []Slot{{Position: 1, Type: TextLike, Explicit: true}},
		},
		{
			name:     "length prefixes",
			template: "%ld rows, %lld cols",
			want: []Slot{
				{Position: 1, Type: Integer},
				{Position: 2, Type: Integer},
			},
		},
		{
			name:     "width and precision accepted",
			template: "%05d is %.2f",
			want: []Slot{
				{Position: 1, Type: Integer},
				{Position: 2, Type: FloatingPoint},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Scan(tt.template)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got.Slots) != len(tt.want) {
				t.Fatalf("got %d slots, want %d", len(got.Slots), len(tt.want))
			}

			for i, s := range got.Slots {
				if s != tt.want[i] {
					t.Errorf("slot %d: got %+v, want %+v", i, s, tt.want[i])
				}
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown specifier", func(t *testing.T) {
		t.Parallel()

		_, err := Scan("count: %x")

		var specErr *UnknownSpecifierError
		if !errors.As(err, &specErr) {
			t.Fatalf("got %v, want UnknownSpecifierError", err)
		}

		if specErr.Spec != "x" {
			t.Errorf("got spec %q, want %q", specErr.Spec, "x")
		}
	})

	t.Run("unterminated placeholder", func(t *testing.T) {
		t.Parallel()

		_, err := Scan("dangling %")

		var specErr *UnknownSpecifierError
		if !errors.As(err, &specErr) {
			t.Fatalf("got %v, want UnknownSpecifierError", err)
		}
	})

	t.Run("zero position", func(t *testing.T) {
		t.Parallel()

		_, err := Scan("%0$d")

		var specErr *UnknownSpecifierError
		if !errors.As(err, &specErr) {
			t.Fatalf("got %v, want UnknownSpecifierError", err)
		}
	})

	t.Run("position type conflict", func(t *testing.T) {
		t.Parallel()

		_, err := Scan("%1$@ vs %1$d")

		var conflict *PositionTypeConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("got %v, want PositionTypeConflictError", err)
		}

		if conflict.Position != 1 || conflict.First != TextLike || conflict.Second != Integer {
			t.Errorf("unexpected conflict detail: %+v", conflict)
		}
	})
}

func TestScannerSinglePass(t *testing.T) {
	t.Parallel()

	sc := NewScanner("%@ %d")

	var order []int

	for {
		slot, ok := sc.Next()
		if !ok {
			break
		}

		order = append(order, slot.Position)
	}

	if sc.Err() != nil {
		t.Fatalf("unexpected error: %v", sc.Err())
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("got order %v, want [1 2]", order)
	}

	// A drained scanner stays drained.
	if _, ok := sc.Next(); ok {
		t.Error("expected exhausted scanner to keep returning false")
	}
}

func TestScanOrder(t *testing.T) {
	t.Parallel()

	a, err := Scan("%2$@ %1$d %2$@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{2, 1, 2}
	if len(a.Order) != len(want) {
		t.Fatalf("got order %v, want %v", a.Order, want)
	}

	for i := range want {
		if a.Order[i] != want[i] {
			t.Fatalf("got order %v, want %v", a.Order, want)
		}
	}
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"plain text", "Settings", "Settings"},
		{"implicit", "Hi %@", "Hi %[1]s"},
		{"reordered explicit", "%2$@ %1$d", "%[2]s %[1]d"},
		{"literal percent kept", "100%%", "100%%"},
		{"precision kept", "pi is %.2f", "pi is %.2[1]f"},
		{"length prefix dropped", "%lld bytes", "%[1]d bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Rewrite(tt.template)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
