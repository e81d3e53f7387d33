package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultHandlePublishThenGet(t *testing.T) {
	task := NewTask(func() Value { return Int64Value(7) })
	r := newResultHandle(task, true)

	r.publish(Int64Value(7))

	got := r.Get()
	v, err := got.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestResultHandleGetBeforePublish(t *testing.T) {
	task := NewTask(func() Value { return Int64Value(1) })
	r := newResultHandle(task, true)

	var wg sync.WaitGroup
	wg.Add(1)
	var got Value
	go func() {
		defer wg.Done()
		got = r.Get()
	}()

	time.Sleep(20 * time.Millisecond)
	r.publish(StringValue("late"))
	wg.Wait()

	s, err := got.String()
	require.NoError(t, err)
	assert.Equal(t, "late", s)
}

func TestResultHandleGetIsIdempotent(t *testing.T) {
	task := NewTask(func() Value { return Int64Value(1) })
	r := newResultHandle(task, true)
	r.publish(Int64Value(9))

	for i := 0; i < 3; i++ {
		v, err := r.Get().Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(9), v)
	}
}

func TestResultHandleInvalidReturnsZeroValueImmediately(t *testing.T) {
	task := NewTask(func() Value { return Int64Value(1) })
	r := newResultHandle(task, false)

	assert.False(t, r.Valid())

	done := make(chan Value, 1)
	go func() { done <- r.Get() }()

	select {
	case v := <-done:
		assert.Equal(t, KindInvalid, v.Kind())
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Get() on an invalid ResultHandle must not block")
	}
}

func TestResultHandlePublishOnInvalidIsNoOp(t *testing.T) {
	task := NewTask(func() Value { return Int64Value(1) })
	r := newResultHandle(task, false)

	r.publish(Int64Value(99))

	v := r.Get()
	assert.Equal(t, KindInvalid, v.Kind())
}
