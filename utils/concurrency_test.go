package utils

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/stretchr/testify/assert"
)

func TestConcurrencyRunsEveryIndex(t *testing.T) {
	var sum int64
	errRes := Concurrency(3, 10, func(index int, setError func(errRes *res.ErrorRes)) {
		atomic.AddInt64(&sum, int64(index))
	})
	assert.Nil(t, errRes)
	assert.Equal(t, int64(45), sum)
}

func TestConcurrencyRespectsWeight(t *testing.T) {
	var running, maxRunning int64
	Concurrency(2, 8, func(index int, setError func(errRes *res.ErrorRes)) {
		current := atomic.AddInt64(&running, 1)
		for {
			prev := atomic.LoadInt64(&maxRunning)
			if current <= prev || atomic.CompareAndSwapInt64(&maxRunning, prev, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&running, -1)
	})
	assert.LessOrEqual(t, maxRunning, int64(2))
}

func TestConcurrencyReturnsFirstError(t *testing.T) {
	var calls int64
	errRes := Concurrency(1, 20, func(index int, setError func(errRes *res.ErrorRes)) {
		atomic.AddInt64(&calls, 1)
		if index == 2 {
			setError(res.NewErrorRes(errors.New("boom"), http.StatusBadRequest))
		}
	})
	assert.NotNil(t, errRes)
	assert.Equal(t, http.StatusBadRequest, errRes.StatusCode)
	assert.Less(t, calls, int64(20))
}

func TestConcurrencyZeroCount(t *testing.T) {
	assert.Nil(t, Concurrency(4, 0, func(int, func(*res.ErrorRes)) {
		t.Fatal("must not run")
	}))
}
