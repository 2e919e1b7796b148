package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

func constStep(name string, v int, err error) usecases.Step[int] {
	return usecases.Step[int]{
		Name: name,
		Run:  func(context.Context) (int, error) { return v, err },
	}
}

func TestFirstAccepted_FirstWins(t *testing.T) {
	ran := 0
	steps := []usecases.Step[int]{
		{Name: "a", Run: func(context.Context) (int, error) { ran++; return 1, nil }},
		{Name: "b", Run: func(context.Context) (int, error) { ran++; return 2, nil }},
	}
	v, idx, err := usecases.FirstAccepted(context.Background(), steps)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, ran)
}

func TestFirstAccepted_RejectFallsThrough(t *testing.T) {
	positive := func(v int) bool { return v > 0 }
	a := constStep("a", 0, nil)
	a.Accept = positive
	b := constStep("b", 7, nil)

	v, idx, err := usecases.FirstAccepted(context.Background(), []usecases.Step[int]{a, b})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, idx)
}

func TestFirstAccepted_NoneAccepted(t *testing.T) {
	reject := func(int) bool { return false }
	a := constStep("a", 1, nil)
	a.Accept = reject

	v, idx, err := usecases.FirstAccepted(context.Background(), []usecases.Step[int]{a})
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, -1, idx)
}

func TestFirstAccepted_ErrorWithoutRecover(t *testing.T) {
	boom := errors.New("boom")
	ranSecond := false
	steps := []usecases.Step[int]{
		constStep("a", 0, boom),
		{Name: "b", Run: func(context.Context) (int, error) { ranSecond = true; return 1, nil }},
	}
	_, idx, err := usecases.FirstAccepted(context.Background(), steps)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, -1, idx)
	assert.False(t, ranSecond)
}

func TestFirstAccepted_RecoverContinues(t *testing.T) {
	boom := errors.New("boom")
	var observed error
	a := constStep("a", 0, boom)
	a.Recover = true
	a.OnRecover = func(err error) { observed = err }

	v, idx, err := usecases.FirstAccepted(context.Background(), []usecases.Step[int]{a, constStep("b", 3, nil)})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, idx)
	assert.ErrorIs(t, observed, boom)
}

func TestFirstAccepted_LastErrorAlwaysReturned(t *testing.T) {
	boom := errors.New("boom")
	a := constStep("a", 0, boom)
	a.Recover = true

	_, _, err := usecases.FirstAccepted(context.Background(), []usecases.Step[int]{a})
	assert.ErrorIs(t, err, boom)
}

func TestFirstAccepted_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, idx, err := usecases.FirstAccepted(ctx, []usecases.Step[int]{constStep("a", 1, nil)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, idx)
}
