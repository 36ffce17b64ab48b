package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corfutbolocanero/roster-service/models"
)

func waitEvent(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev := <-sub.C:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session event")
		return Event{}
	}
}

func TestStoreDeliversEventsToSubscribers(t *testing.T) {
	store := NewStore()
	defer store.Close()

	sub := store.Subscribe()
	defer sub.Cancel()

	user := &models.User{ID: "u1", Email: "coach@corfutbol.test"}
	store.SignIn(user)

	ev := waitEvent(t, sub)
	assert.Equal(t, EventSignedIn, ev.Type)
	require.NotNil(t, ev.User)
	assert.Equal(t, "u1", ev.User.ID)
	assert.False(t, ev.At.IsZero())
}

func TestStoreCurrentTracksSession(t *testing.T) {
	store := NewStore()
	defer store.Close()

	assert.Nil(t, store.Current())

	user := &models.User{ID: "u1"}
	store.SignIn(user)
	require.NotNil(t, store.Current())
	assert.Equal(t, "u1", store.Current().ID)

	store.SignOut()
	assert.Nil(t, store.Current())
}

func TestStoreExpireClearsSession(t *testing.T) {
	store := NewStore()
	defer store.Close()

	sub := store.Subscribe()
	defer sub.Cancel()

	store.SignIn(&models.User{ID: "u1"})
	waitEvent(t, sub)

	store.Expire()
	ev := waitEvent(t, sub)
	assert.Equal(t, EventExpired, ev.Type)
	assert.Nil(t, ev.User)
	assert.Nil(t, store.Current())
}

func TestCancelClosesSubscriptionChannel(t *testing.T) {
	store := NewStore()
	defer store.Close()

	sub := store.Subscribe()
	sub.Cancel()

	_, open := <-sub.C
	assert.False(t, open)

	// Cancelar dos veces no debe causar pánico.
	sub.Cancel()
}

func TestCloseClosesAllSubscriptions(t *testing.T) {
	store := NewStore()

	sub1 := store.Subscribe()
	sub2 := store.Subscribe()
	store.Close()

	_, open1 := <-sub1.C
	_, open2 := <-sub2.C
	assert.False(t, open1)
	assert.False(t, open2)

	// Cerrar dos veces no debe causar pánico.
	store.Close()
}

// Cancelaciones concurrentes con entregas en vuelo no deben cerrar el canal
// a mitad de un envío.
func TestCancelDuringDeliveryIsSafe(t *testing.T) {
	store := NewStore()
	defer store.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			store.SignIn(&models.User{ID: "u1"})
		}
	}()

	for i := 0; i < 500; i++ {
		sub := store.Subscribe()
		sub.Cancel()
	}
	<-done
}

func TestWaitInitializedReturnsAfterInitialize(t *testing.T) {
	store := NewStore()
	defer store.Close()

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- store.WaitInitialized(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	store.Initialize(nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitInitialized did not return")
	}
}

func TestWaitInitializedReturnsImmediatelyWhenReady(t *testing.T) {
	store := NewStore()
	defer store.Close()

	store.Initialize(&models.User{ID: "u1"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, store.WaitInitialized(ctx))
}

func TestWaitInitializedHonorsContext(t *testing.T) {
	store := NewStore()
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := store.WaitInitialized(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDebounceCoalescesRapidCalls(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Int32

	debounced := Debounce(50*time.Millisecond, func(v int32) {
		calls.Add(1)
		last.Store(v)
	})

	debounced(1)
	debounced(2)
	debounced(3)

	assert.Eventually(t, func() bool {
		return calls.Load() == 1 && last.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDebounceRunsAgainAfterQuietPeriod(t *testing.T) {
	var calls atomic.Int32

	debounced := Debounce(20*time.Millisecond, func(v int32) {
		calls.Add(1)
	})

	debounced(1)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	debounced(2)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}
