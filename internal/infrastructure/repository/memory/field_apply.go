package memory

import (
	"time"

	"github.com/aresdata/esports-etl/internal/platform/field"
)

func applyString(dst **string, v field.Value) {
	if !v.IsSet() {
		return
	}
	if v.IsNull() {
		*dst = nil
		return
	}
	s := v.Interface().(string)
	*dst = &s
}

func applyBool(dst *bool, v field.Value) {
	if !v.IsSet() || v.IsNull() {
		return
	}
	*dst = v.Interface().(bool)
}

func applyDate(dst **time.Time, v field.Value) {
	if !v.IsSet() {
		return
	}
	if v.IsNull() {
		*dst = nil
		return
	}
	t := v.Interface().(time.Time)
	*dst = &t
}

func applyFloat(dst **float64, v field.Value) {
	if !v.IsSet() {
		return
	}
	if v.IsNull() {
		*dst = nil
		return
	}
	f := v.Interface().(float64)
	*dst = &f
}
