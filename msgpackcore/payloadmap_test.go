package msgpackcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadMapStrFastPath(t *testing.T) {
	m := NewPayloadMap()
	require.NoError(t, m.Put(StrPayload([]byte("a")), IntPayload(1)))
	require.NoError(t, m.Put(StrPayload([]byte("b")), IntPayload(2)))
	require.Equal(t, 2, m.Len())

	v, ok := m.Get(StrPayload([]byte("a")))
	require.True(t, ok)
	got, _ := v.AsInt()
	require.Equal(t, int64(1), got)

	_, ok = m.Get(StrPayload([]byte("missing")))
	require.False(t, ok)
}

func TestPayloadMapPutOverwritesExistingKey(t *testing.T) {
	m := NewPayloadMap()
	require.NoError(t, m.Put(StrPayload([]byte("a")), IntPayload(1)))
	require.NoError(t, m.Put(StrPayload([]byte("a")), IntPayload(2)))
	require.Equal(t, 1, m.Len())

	v, ok := m.Get(StrPayload([]byte("a")))
	require.True(t, ok)
	got, _ := v.AsInt()
	require.Equal(t, int64(2), got)
}

func TestPayloadMapNonStringKeys(t *testing.T) {
	m := NewPayloadMap()
	require.NoError(t, m.Put(IntPayload(42), StrPayload([]byte("answer"))))
	require.NoError(t, m.Put(BoolPayload(true), StrPayload([]byte("yes"))))

	v, ok := m.Get(IntPayload(42))
	require.True(t, ok)
	got, _ := v.AsStr()
	require.Equal(t, []byte("answer"), got)

	_, ok = m.Get(IntPayload(43))
	require.False(t, ok)
}

func TestPayloadMapRejectsNaNKey(t *testing.T) {
	m := NewPayloadMap()
	nan := 0.0
	nan = nan / nan
	err := m.Put(FloatPayload(nan), IntPayload(1))
	require.ErrorIs(t, err, ErrInvalidType)
	require.Equal(t, 0, m.Len())
}

func TestPayloadMapRangePreservesInsertionOrder(t *testing.T) {
	m := NewPayloadMap()
	require.NoError(t, m.Put(StrPayload([]byte("z")), IntPayload(1)))
	require.NoError(t, m.Put(StrPayload([]byte("a")), IntPayload(2)))

	var keys []string
	m.Range(func(k, v Payload) bool {
		s, _ := k.AsStr()
		keys = append(keys, string(s))
		return true
	})
	require.Equal(t, []string{"z", "a"}, keys)
}

func TestPayloadMapRangeStopsEarly(t *testing.T) {
	m := NewPayloadMap()
	require.NoError(t, m.Put(StrPayload([]byte("a")), IntPayload(1)))
	require.NoError(t, m.Put(StrPayload([]byte("b")), IntPayload(2)))

	count := 0
	m.Range(func(k, v Payload) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

// TestPayloadMapMapValuedKeyOrderIndependent covers the generic-key model
// permitting a map itself as a key (§4.2): two structurally-equal map
// keys built with different insertion order must still land in the same
// hash bucket, so Get finds the existing entry and Put updates it in
// place instead of silently inserting a duplicate.
func TestPayloadMapMapValuedKeyOrderIndependent(t *testing.T) {
	keyAB := NewPayloadMap()
	require.NoError(t, keyAB.Put(StrPayload([]byte("a")), IntPayload(1)))
	require.NoError(t, keyAB.Put(StrPayload([]byte("b")), IntPayload(2)))

	keyBA := NewPayloadMap()
	require.NoError(t, keyBA.Put(StrPayload([]byte("b")), IntPayload(2)))
	require.NoError(t, keyBA.Put(StrPayload([]byte("a")), IntPayload(1)))

	require.True(t, StructurallyEqual(MapPayloadFromMap(keyAB), MapPayloadFromMap(keyBA)))

	m := NewPayloadMap()
	require.NoError(t, m.Put(MapPayloadFromMap(keyAB), StrPayload([]byte("first"))))

	v, ok := m.Get(MapPayloadFromMap(keyBA))
	require.True(t, ok)
	got, _ := v.AsStr()
	require.Equal(t, []byte("first"), got)

	require.NoError(t, m.Put(MapPayloadFromMap(keyBA), StrPayload([]byte("second"))))
	require.Equal(t, 1, m.Len())

	v, ok = m.Get(MapPayloadFromMap(keyAB))
	require.True(t, ok)
	got, _ = v.AsStr()
	require.Equal(t, []byte("second"), got)
}

func TestPayloadMapDistinctArrayKeys(t *testing.T) {
	m := NewPayloadMap()
	k1 := ArrPayload(IntPayload(1))
	k2 := ArrPayload(IntPayload(2))
	require.NoError(t, m.Put(k1, StrPayload([]byte("one"))))
	require.NoError(t, m.Put(k2, StrPayload([]byte("two"))))

	v1, ok := m.Get(ArrPayload(IntPayload(1)))
	require.True(t, ok)
	got1, _ := v1.AsStr()
	require.Equal(t, []byte("one"), got1)

	v2, ok := m.Get(ArrPayload(IntPayload(2)))
	require.True(t, ok)
	got2, _ := v2.AsStr()
	require.Equal(t, []byte("two"), got2)
}
