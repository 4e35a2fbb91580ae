package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToFatalWithMessage(t *testing.T) {
	err := New(CodeInvalidPrice, WithContext("efficient_price=-1"))

	require.True(t, err.IsFatal())
	require.Equal(t, "INVALID_PRICE: price must be strictly positive and finite (efficient_price=-1)", err.Error())
}

func TestNew_UnknownCodeUsesCode(t *testing.T) {
	require.Equal(t, "SOMETHING: SOMETHING", New(Code("SOMETHING")).Error())
}

func TestWarning_IsNonFatal(t *testing.T) {
	err := Warning(CodeSubmittedFeeOutOfRange, "fee=0.5")
	require.False(t, err.IsFatal())
	require.True(t, IsWarning(fmt.Errorf("trade: %w", err)))
	require.Equal(t, CodeSubmittedFeeOutOfRange, GetCode(err))
	require.False(t, IsWarning(Validation(CodeInvalidGas, "gas=-1")))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(CodeInvalidGas)
	require.ErrorIs(t, a, New(CodeInvalidGas, WithContext("other")))
	require.NotErrorIs(t, a, New(CodeInvalidPrice))
}

func TestWrap(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeInternalError, "x"))

	cause := errors.New("dial tcp: refused")
	wrapped := Wrap(cause, CodeOrderbookFetchFailed, "cex")
	require.ErrorIs(t, wrapped, cause)
	require.Contains(t, wrapped.Error(), "dial tcp: refused")

	again := Wrap(wrapped, CodeInternalError, "ignored")
	require.Equal(t, CodeOrderbookFetchFailed, again.Code)
	require.Equal(t, CodeUnknownError, GetCode(cause))
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeInvalidSimulation, "paths=%d", 0)
	require.Equal(t, "paths=0", err.Context)
}

func TestLogArgs(t *testing.T) {
	args := New(CodeCircuitOpen, WithContext("cex"), WithCause(errors.New("open"))).LogArgs()
	require.Equal(t, []any{"code", "CIRCUIT_OPEN", "severity", "fatal", "context", "cex", "cause", "open"}, args)
}
