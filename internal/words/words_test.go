package words

import (
	"context"
	"errors"
	"testing"

	"pencil/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) NextWordBatch(ctx context.Context, n int) ([]string, error) {
	args := m.Called(ctx, n)
	words, _ := args.Get(0).([]string)
	return words, args.Error(1)
}

type MockSeeder struct {
	mock.Mock
}

func (m *MockSeeder) AddWords(ctx context.Context, words []string) (int, error) {
	args := m.Called(ctx, words)
	return args.Int(0), args.Error(1)
}

func (m *MockSeeder) CountWords(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestEmbedded(t *testing.T) {
	t.Parallel()
	list := Embedded()
	require.Greater(t, list.Len(), 3)

	batch, err := list.NextWordBatch(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	assert.NotEqual(t, batch[0], batch[1])
	assert.NotEqual(t, batch[1], batch[2])
	assert.NotEqual(t, batch[0], batch[2])
}

func TestParseLines(t *testing.T) {
	t.Parallel()
	got := parseLines("# comment\nApple\n\n  pirate ship  \napple\n")
	assert.Equal(t, []string{"apple", "pirate ship"}, got)
}

func TestList_NextWordBatch(t *testing.T) {
	t.Parallel()

	t.Run("fewer words than requested", func(t *testing.T) {
		batch, err := NewList([]string{"cat", "dog"}).NextWordBatch(context.Background(), 3)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"cat", "dog"}, batch)
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := NewList(nil).NextWordBatch(context.Background(), 3)
		assert.ErrorIs(t, err, domain.ErrNoWords)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewList([]string{"cat"}).NextWordBatch(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSupply_NextWordBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("primary is enough", func(t *testing.T) {
		primary := &MockSource{}
		primary.On("NextWordBatch", ctx, 3).Return([]string{"ramen", "kunai", "sharingan"}, nil).Once()
		fallback := &MockSource{}

		batch, err := NewSupply(primary, fallback).NextWordBatch(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, []string{"ramen", "kunai", "sharingan"}, batch)
		primary.AssertExpectations(t)
		fallback.AssertNotCalled(t, "NextWordBatch", mock.Anything, mock.Anything)
	})

	t.Run("primary short is topped up without duplicates", func(t *testing.T) {
		primary := &MockSource{}
		primary.On("NextWordBatch", ctx, 3).Return([]string{"ramen"}, nil).Once()
		fallback := NewList([]string{"ramen", "kunai", "sharingan"})

		batch, err := NewSupply(primary, fallback).NextWordBatch(ctx, 3)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"ramen", "kunai", "sharingan"}, batch)
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &MockSource{}
		primary.On("NextWordBatch", ctx, 3).Return(nil, domain.UnexpectedDatabaseError).Once()
		fallback := NewList([]string{"a", "b", "c"})

		batch, err := NewSupply(primary, fallback).NextWordBatch(ctx, 3)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, batch)
	})

	t.Run("no primary", func(t *testing.T) {
		batch, err := NewSupply(nil, NewList([]string{"a", "b", "c"})).NextWordBatch(ctx, 3)
		assert.NoError(t, err)
		assert.Len(t, batch, 3)
	})

	t.Run("everything fails", func(t *testing.T) {
		_, err := NewSupply(nil, NewList(nil)).NextWordBatch(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrNoWords)
	})
}

func TestSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds the whole list", func(t *testing.T) {
		store := &MockSeeder{}
		store.On("AddWords", ctx, []string{"cat", "dog"}).Return(1, nil).Once()
		store.On("CountWords", ctx).Return(5, nil).Once()

		added, err := Seed(ctx, store, NewList([]string{"cat", "dog"}))
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		store.AssertExpectations(t)
	})

	t.Run("insert failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		store := &MockSeeder{}
		store.On("AddWords", ctx, mock.Anything).Return(0, boom).Once()

		_, err := Seed(ctx, store, NewList([]string{"cat"}))
		assert.ErrorIs(t, err, boom)
		store.AssertNotCalled(t, "CountWords", mock.Anything)
	})

	t.Run("list is not shared with the store", func(t *testing.T) {
		list := NewList([]string{"cat"})
		store := &MockSeeder{}
		store.On("AddWords", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).([]string)[0] = "mutated"
		}).Return(1, nil).Once()
		store.On("CountWords", ctx).Return(1, nil).Once()

		_, err := Seed(ctx, store, list)
		require.NoError(t, err)
		assert.Equal(t, []string{"cat"}, list.Words())
	})
}
