package fieldvalue_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/stretchr/testify/require"
)

func TestFieldValueRoundTrip(t *testing.T) {
	for name, v := range map[string]fieldvalue.FieldValue{
		"bool_true":  fieldvalue.Bool(true),
		"bool_false": fieldvalue.Bool(false),
		"int":        fieldvalue.Int(-42),
		"int_zero":   fieldvalue.Int(0),
		"float":      fieldvalue.Float(3.5),
		"str":        fieldvalue.Str("hello"),
		"str_empty":  fieldvalue.Str(""),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(v)
			require.NoError(t, err)

			var decoded fieldvalue.FieldValue
			require.NoError(t, json.Unmarshal(data, &decoded))
			require.True(t, v.Equal(decoded), "%v != %v", v, decoded)
		})
	}
}

func TestFieldValueNaNBitwiseEquality(t *testing.T) {
	nan1 := fieldvalue.Float(math.NaN())
	nan2 := fieldvalue.Float(math.NaN())
	require.True(t, nan1.Equal(nan2))
}

func TestFieldValueIntFloatDoNotCollide(t *testing.T) {
	i := fieldvalue.Int(1)
	f := fieldvalue.Float(1.0)
	require.False(t, i.Equal(f))

	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.Equal(t, "1.0", string(data))

	var decoded fieldvalue.FieldValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, fieldvalue.KindFloat, decoded.Kind(), "an integral Float must decode as Float, not Int")
}

func TestFieldValueUintWraps(t *testing.T) {
	v := fieldvalue.Uint(math.MaxUint64)
	i, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(-1), i)
}

func TestFieldValueIsUntagged(t *testing.T) {
	data, err := json.Marshal(fieldvalue.Str("mao"))
	require.NoError(t, err)
	require.Equal(t, `"mao"`, string(data))

	data, err = json.Marshal(fieldvalue.Bool(true))
	require.NoError(t, err)
	require.Equal(t, "true", string(data))
}

func TestFieldsPreservesInsertionOrder(t *testing.T) {
	f := fieldvalue.NewFields()
	f.Set("cat", fieldvalue.Bool(true))
	f.Set("bacon", fieldvalue.Int(4))
	f.Set("foo", fieldvalue.Str("mao"))
	f.Set("message", fieldvalue.Str("hello"))

	require.Equal(t, []string{"cat", "bacon", "foo", "message"}, f.Names())

	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.Equal(t, `{"cat":true,"bacon":4,"foo":"mao","message":"hello"}`, string(data))

	decoded := fieldvalue.NewFields()
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, f.Names(), decoded.Names())
	require.True(t, f.Equal(decoded))
}

func TestFieldsOverwritePreservesPosition(t *testing.T) {
	f := fieldvalue.NewFields()
	f.Set("a", fieldvalue.Int(1))
	f.Set("b", fieldvalue.Int(2))
	f.Set("a", fieldvalue.Int(3))

	require.Equal(t, []string{"a", "b"}, f.Names())
	v, ok := f.Get("a")
	require.True(t, ok)
	got, _ := v.AsInt()
	require.Equal(t, int64(3), got)
}
