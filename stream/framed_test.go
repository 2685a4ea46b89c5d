package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFramedSink(NewSink(&buf))
	require.NoError(t, sink.WriteFrame([]byte("hello")))

	src := NewFramedSource(NewSource(&buf))
	body, err := src.ReadFrame(1024)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)
}

func TestFramedDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFramedSink(NewSink(&buf))
	require.NoError(t, sink.WriteFrame([]byte("hello")))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	src := NewFramedSource(NewSource(bytes.NewReader(corrupted)))
	_, err := src.ReadFrame(1024)
	require.ErrorIs(t, err, ErrFrameCRCMismatch)
}

func TestFramedRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFramedSink(NewSink(&buf))
	require.NoError(t, sink.WriteFrame(make([]byte, 100)))

	src := NewFramedSource(NewSource(&buf))
	_, err := src.ReadFrame(10)
	require.Error(t, err)
}
