package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

var (
	errInner    = errors.New("inner")
	errPlain    = errors.New("plain error")
	errUserDeny = errors.New("User rejected the request.")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, ballerr.ExitSuccess},
		{"general error", ballerr.ErrGeneral, ballerr.ExitGeneral},
		{"input error", ballerr.ErrInvalidInput, ballerr.ExitInput},
		{"provider missing", ballerr.ErrProviderMissing, ballerr.ExitProvider},
		{"no accounts", ballerr.ErrNoAccounts, ballerr.ExitProvider},
		{"network", ballerr.ErrNetwork, ballerr.ExitNetwork},
		{"not found", ballerr.ErrNotFound, ballerr.ExitNotFound},
		{"plain error", errPlain, ballerr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ballerr.ExitCode(tt.err))
		})
	}
}

func TestWrapPreservesIdentity(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []*ballerr.BallotError{
		ballerr.ErrProviderMissing,
		ballerr.ErrNetwork,
		ballerr.ErrNoAccounts,
		ballerr.ErrConfigInvalid,
	} {
		wrapped := ballerr.Wrap(sentinel, "connect")
		require.ErrorIs(t, wrapped, sentinel)
		assert.Equal(t, sentinel.ExitCode, ballerr.ExitCode(wrapped))
	}
}

func TestWrap_edgeCases(t *testing.T) {
	t.Parallel()

	t.Run("nil input", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ballerr.Wrap(nil, "context"))
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		wrapped := ballerr.Wrap(errPlain, "dial %s", "ws://127.0.0.1:1248")
		var be *ballerr.BallotError
		require.ErrorAs(t, wrapped, &be)
		assert.Equal(t, "GENERAL_ERROR", be.Code)
		assert.Equal(t, "dial ws://127.0.0.1:1248", be.Message)
		assert.Equal(t, errPlain, be.Cause)
	})
}

func TestWithMessage(t *testing.T) {
	t.Parallel()

	err := ballerr.WithMessage(ballerr.ErrNetwork, "Please switch to Ganache Local network in your wallet", errInner)
	require.ErrorIs(t, err, ballerr.ErrNetwork)
	require.ErrorIs(t, err, errInner)
	assert.Equal(t, "Please switch to Ganache Local network in your wallet", ballerr.UserMessage(err))
	assert.Equal(t, ballerr.ExitNetwork, ballerr.ExitCode(err))

	assert.NoError(t, ballerr.WithMessage(nil, "ignored", nil))
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"sentinel", ballerr.ErrProviderMissing, "MetaMask is not installed"},
		{"sentinel with cause keeps message only", &ballerr.BallotError{Code: "X", Message: "outer", Cause: errInner}, "outer"},
		{"opaque provider error keeps wording", errUserDeny, "User rejected the request."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ballerr.UserMessage(tc.err))
		})
	}
}

func TestBallotError_Error(t *testing.T) {
	t.Parallel()

	t.Run("details sorted", func(t *testing.T) {
		t.Parallel()
		err := &ballerr.BallotError{
			Code:    "TEST",
			Message: "failed",
			Details: map[string]string{"beta": "2", "alpha": "1"},
		}
		assert.Equal(t, "failed (alpha: 1) (beta: 2)", err.Error())
	})

	t.Run("details and cause", func(t *testing.T) {
		t.Parallel()
		err := &ballerr.BallotError{
			Code:    "TEST",
			Message: "outer",
			Details: map[string]string{"key": "val"},
			Cause:   errInner,
		}
		assert.Equal(t, "outer (key: val): inner", err.Error())
	})
}

func TestBallotError_Is(t *testing.T) {
	t.Parallel()

	a := &ballerr.BallotError{Code: "SAME_CODE", Message: "a"}
	b := &ballerr.BallotError{Code: "SAME_CODE", Message: "b"}
	c := &ballerr.BallotError{Code: "OTHER", Message: "c"}
	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(errPlain))
}

func TestWithDetailsAndSuggestion(t *testing.T) {
	t.Parallel()

	details := map[string]string{"key": "netwrk.chain_name"}
	err := ballerr.WithDetails(ballerr.ErrUnknownConfigKey, details)
	err = ballerr.WithSuggestion(err, "did you mean network.chain_name?")

	var be *ballerr.BallotError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, details, be.Details)
	assert.Equal(t, "did you mean network.chain_name?", be.Suggestion)
	assert.Equal(t, "UNKNOWN_CONFIG_KEY", ballerr.Code(err))

	plain := ballerr.WithSuggestion(errPlain, "try again")
	require.ErrorAs(t, plain, &be)
	assert.Equal(t, "GENERAL_ERROR", be.Code)
	assert.Equal(t, "plain error", be.Message)
}

func TestCode_edgeCases(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "NO_ACCOUNTS", ballerr.Code(ballerr.ErrNoAccounts))
	assert.Equal(t, "GENERAL_ERROR", ballerr.Code(errPlain))
	assert.Equal(t, "GENERAL_ERROR", ballerr.Code(nil))
}
