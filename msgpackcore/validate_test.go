package msgpackcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassesWithinDefaults(t *testing.T) {
	p := ArrPayload(IntPayload(1), StrPayload([]byte("ok")))
	require.NoError(t, p.Validate(nil))
}

func TestValidateReportsStringTooLong(t *testing.T) {
	p := StrPayload(make([]byte, 10))
	err := p.Validate(&Limits{MaxStringLen: 5})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestValidateReportsMultipleViolations(t *testing.T) {
	inner := ArrPayload(StrPayload(make([]byte, 10)), BinPayload(make([]byte, 10)))
	err := inner.Validate(&Limits{MaxStringLen: 1, MaxBinLen: 1})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStringTooLong)
	require.ErrorIs(t, err, ErrBinDataTooLarge)
}

func TestValidateReportsDepthExceeded(t *testing.T) {
	p := ArrPayload(ArrPayload(ArrPayload(IntPayload(1))))
	err := p.Validate(&Limits{MaxDepth: 1})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMaxDepthExceeded)
}
