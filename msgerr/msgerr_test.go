package msgerr_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifei6671/msgfmt"
	"github.com/lifei6671/msgfmt/msgerr"
)

var (
	errMissBody      = msgerr.New(1, "miss_body")
	errInvalidParams = msgerr.New(2, "invalid_params")
	errNoMessage     = msgerr.New(3, "no_message")
)

func newStore(t *testing.T) *msgfmt.Store {
	t.Helper()
	s, err := msgfmt.NewStore("testdata", msgfmt.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return s
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("coded", func(t *testing.T) {
		t.Parallel()
		code, ok := errInvalidParams.Code()
		require.True(t, ok)
		require.Equal(t, 2, code)
		require.Equal(t, "invalid_params", errInvalidParams.Key())
		require.Nil(t, errInvalidParams.Args())
		require.Equal(t, "invalid_params (code 2)", errInvalidParams.Error())
	})

	t.Run("with args copies", func(t *testing.T) {
		t.Parallel()
		args := msgfmt.Args{"field": "name"}
		err := errInvalidParams.With(args)
		args["field"] = "changed"

		require.Equal(t, msgfmt.Args{"field": "name"}, err.Args())
		require.Nil(t, errInvalidParams.Args())
		require.ErrorIs(t, err, errInvalidParams)
		require.NotErrorIs(t, err, errMissBody)
	})

	t.Run("is matches through wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("handler: %w", errMissBody.With(nil))
		require.ErrorIs(t, err, errMissBody)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("disk full")
		err := msgerr.Wrap(cause)

		_, ok := err.Code()
		require.False(t, ok)
		require.Empty(t, err.Key())
		require.Equal(t, "unknown error, disk full", err.Error())
		require.ErrorIs(t, err, cause)
		require.NotErrorIs(t, err, msgerr.Wrap(errors.New("disk full")))
	})

	t.Run("wrap keeps coded errors", func(t *testing.T) {
		t.Parallel()
		require.Same(t, errMissBody, msgerr.Wrap(fmt.Errorf("x: %w", errMissBody)))
		require.Nil(t, msgerr.Wrap(nil))
	})
}

func TestLocalize(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	cases := []struct {
		name   string
		err    error
		locale string
		want   string
	}{
		{name: "plain", err: errMissBody, locale: "en", want: "Request body is missing."},
		{name: "other locale", err: errMissBody, locale: "zh", want: "缺少请求体。"},
		{name: "args", err: errInvalidParams.With(msgfmt.Args{"field": "email"}), locale: "en", want: "Invalid parameter: email"},
		{name: "wrapped", err: fmt.Errorf("create user: %w", errMissBody), locale: "en", want: "Request body is missing."},
		{name: "missing translation falls back to key", err: errInvalidParams, locale: "zh", want: "invalid_params"},
		{name: "missing key", err: errNoMessage, locale: "en", want: "no_message"},
		{name: "unknown error", err: msgerr.Wrap(errors.New("boom")), locale: "en", want: "unknown error, boom"},
		{name: "foreign error", err: errors.New("boom"), locale: "en", want: "boom"},
		{name: "nil", err: nil, locale: "en", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, msgerr.Message(store, tc.locale, tc.err))
		})
	}
}
