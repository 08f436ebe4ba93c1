package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "json envelope", raw: `{"compatibilidades": ["m2", "m1"]}`, want: []string{"m1", "m2"}},
		{name: "bare array", raw: `["m1"]`, want: []string{"m1"}},
		{name: "legacy single", raw: "m1", want: []string{"m1"}},
		{name: "legacy comma separated", raw: "m1, m2,m1", want: []string{"m1", "m2"}},
		{name: "universal sentinel", raw: `{"compatibilidades": ["universal"]}`, want: nil},
		{name: "legacy universal", raw: "universal", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestMarshalCanonicalForm(t *testing.T) {
	got, err := Marshal([]string{"m2", "m1", "universal", "m2"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"compatibilidades": ["m1", "m2"]}`, got)

	got, err = Marshal(nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"compatibilidades": []}`, got)
}

func TestIsCompatible(t *testing.T) {
	assert.True(t, IsCompatible(nil, "m1"), "empty set is universal")
	assert.True(t, IsCompatible([]string{"universal"}, "m1"), "sentinel set is universal")
	assert.True(t, IsCompatible([]string{"m1", "m2"}, "m1"))
	assert.False(t, IsCompatible([]string{"m1", "m2"}, "m3"))
}
