package toggle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

func TestTracker_RegisterUnregisterRegister(t *testing.T) {
	tr := NewTracker()
	k := Key{Owner: "s1", Kind: Registration, Item: 7}

	set := domain.IDSet{3, 5}
	calls := []bool{}
	rt := func(_ context.Context, want bool) error {
		calls = append(calls, want)
		return nil
	}

	for _, want := range []bool{true, false, true} {
		active, err := tr.Set(context.Background(), k, want, rt)
		require.NoError(t, err)
		set = set.Set(k.Item, active)
	}

	once := domain.IDSet{3, 5}.Set(7, true)
	assert.Equal(t, once, set)
	assert.Equal(t, []bool{true, false, true}, calls)

	s, ok := tr.State(k)
	require.True(t, ok)
	assert.Equal(t, Committed, s.Phase)
	assert.True(t, s.Active)
}

func TestTracker_FailureKeepsCommitted(t *testing.T) {
	tr := NewTracker()
	k := Key{Owner: "s1", Kind: Favorite, Item: 7}
	tr.Seed(k, false)

	boom := errors.New("HTTP 500")
	active, err := tr.Set(context.Background(), k, true, func(context.Context, bool) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, active)

	s, _ := tr.State(k)
	assert.Equal(t, Failed, s.Phase)
	assert.False(t, s.Active)
	assert.True(t, s.Want)
	assert.ErrorIs(t, s.Err, boom)

	active, err = tr.Set(context.Background(), k, true, func(context.Context, bool) error { return nil })
	require.NoError(t, err)
	assert.True(t, active, "a failed key can be retried")
}

func TestTracker_RejectsConcurrentSubmit(t *testing.T) {
	tr := NewTracker()
	k := Key{Owner: "s1", Kind: Saved, Item: 4}

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := tr.Set(context.Background(), k, true, func(context.Context, bool) error {
			close(entered)
			<-release
			return nil
		})
		done <- err
	}()

	<-entered
	s, _ := tr.State(k)
	assert.Equal(t, Pending, s.Phase)
	assert.False(t, s.Active, "pending never shows the wanted value as committed")

	_, err := tr.Set(context.Background(), k, false, func(context.Context, bool) error {
		t.Fatal("second round trip must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrSubmitting)

	tr.Seed(k, false)
	s, _ = tr.State(k)
	assert.Equal(t, Pending, s.Phase, "seeding does not clobber a pending key")

	close(release)
	require.NoError(t, <-done)

	s, _ = tr.State(k)
	assert.Equal(t, Committed, s.Phase)
	assert.True(t, s.Active)
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	tr.Seed(Key{Owner: "a", Kind: Favorite, Item: 1}, true)
	tr.Seed(Key{Owner: "b", Kind: Favorite, Item: 1}, true)

	tr.Forget("a")

	_, ok := tr.State(Key{Owner: "a", Kind: Favorite, Item: 1})
	assert.False(t, ok)
	_, ok = tr.State(Key{Owner: "b", Kind: Favorite, Item: 1})
	assert.True(t, ok)
}
