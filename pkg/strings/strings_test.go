package strings

import (
	"strings"
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestClone(t *testing.T) {
	src := strings.Repeat("x", 16)
	cloned := Clone(src)

	if cloned != src {
		t.Errorf("expected clone to equal source, got '%s'", cloned)
	}
	if Clone("") != "" {
		t.Error("expected empty clone for empty string")
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}
}

func TestBuilderReset(t *testing.T) {
	builder := NewBuilder(32)
	builder.WriteString("test")

	if builder.Len() != 4 {
		t.Errorf("expected length 4, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestBuilderWrite(t *testing.T) {
	builder := NewBuilder(8)

	n, err := builder.Write([]byte("abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 bytes written, got %d", n)
	}
	if builder.String() != "abc" {
		t.Errorf("expected 'abc', got '%s'", builder.String())
	}
}

func TestGetPutBuilder(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large} {
		builder := GetBuilder(size)
		if builder.Len() != 0 {
			t.Errorf("expected fresh builder for size %d, got length %d", size, builder.Len())
		}
		builder.WriteString("data")
		PutBuilder(builder, size)

		again := GetBuilder(size)
		if again.Len() != 0 {
			t.Errorf("expected reset builder for size %d, got length %d", size, again.Len())
		}
		PutBuilder(again, size)
	}

	// Putting nil must not panic
	PutBuilder(nil, Small)
}

func TestSprintf(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []interface{}
		expected string
	}{
		{"no args", "plain", nil, "plain"},
		{"string arg", "mode:%s", []interface{}{"row"}, "mode:row"},
		{"mixed args", "%s=%d", []interface{}{"rows", 42}, "rows=42"},
		{"value arg", "got %v", []interface{}{nil}, "got <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sprintf(tt.format, tt.args...)
			if got != tt.expected {
				t.Errorf("Sprintf(%q) = %q, expected %q", tt.format, got, tt.expected)
			}
		})
	}
}

func TestIntern(t *testing.T) {
	intern := NewIntern()

	a := intern.Get("Name")
	b := intern.Get("Name")

	if a != b {
		t.Errorf("expected equal interned strings, got %q and %q", a, b)
	}
	if intern.Size() != 1 {
		t.Errorf("expected 1 interned string, got %d", intern.Size())
	}

	intern.Get("Value")
	if intern.Size() != 2 {
		t.Errorf("expected 2 interned strings, got %d", intern.Size())
	}

	intern.Clear()
	if intern.Size() != 0 {
		t.Errorf("expected 0 interned strings after clear, got %d", intern.Size())
	}
}

func TestValueToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint", uint(9), "9"},
		{"float", 3.25, "3.25"},
		{"bool", true, "true"},
		{"bytes", []byte("raw"), "raw"},
		{"fallback", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueToString(tt.value); got != tt.expected {
				t.Errorf("ValueToString(%v) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}
