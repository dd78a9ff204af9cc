package field

import (
	"testing"
	"time"
)

func TestZeroValueIsUnset(t *testing.T) {
	t.Parallel()

	var v Value
	if v.IsSet() {
		t.Fatalf("zero value must be unset")
	}
	if v.IsNull() {
		t.Fatalf("zero value must not be null")
	}
	if v.Interface() != nil {
		t.Fatalf("unset value must yield nil, got %v", v.Interface())
	}
}

func TestNullIsSetButNil(t *testing.T) {
	t.Parallel()

	v := Null()
	if !v.IsSet() {
		t.Fatalf("explicit null must count as set")
	}
	if !v.IsNull() {
		t.Fatalf("explicit null must report null")
	}
	if v.Interface() != nil {
		t.Fatalf("explicit null must yield nil, got %v", v.Interface())
	}
}

func TestOfCarriesValue(t *testing.T) {
	t.Parallel()

	v := Of(int64(42))
	if !v.IsSet() || v.IsNull() {
		t.Fatalf("concrete value must be set and non-null")
	}
	if got := v.Interface(); got != int64(42) {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestOfStringBlankIsUnset(t *testing.T) {
	t.Parallel()

	if OfString("   ").IsSet() {
		t.Fatalf("blank string must be unset")
	}
	v := OfString(" Europe ")
	if got := v.Interface(); got != "Europe" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
}

func TestFromPtr(t *testing.T) {
	t.Parallel()

	if FromPtr[string](nil).IsSet() {
		t.Fatalf("nil pointer must be unset")
	}
	s := "active"
	if got := FromPtr(&s).Interface(); got != "active" {
		t.Fatalf("expected active, got %v", got)
	}
}

func TestOfDateTruncates(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 16, 18, 30, 0, 0, time.UTC)
	v := OfDate(&ts)
	got, ok := v.Interface().(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", v.Interface())
	}
	if got.Hour() != 0 || got.Day() != 16 {
		t.Fatalf("expected date-only value, got %v", got)
	}
	if OfDate(nil).IsSet() {
		t.Fatalf("nil date must be unset")
	}
}
