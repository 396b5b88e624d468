package appstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type codedError int

func (e codedError) Error() string { return fmt.Sprintf("sqlite error %d", int(e)) }
func (e codedError) Code() int     { return int(e) }

func TestIsSQLiteBusy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{codedError(5), true},
		{codedError(5 | 2<<8), true},
		{codedError(19), false},
		{fmt.Errorf("update: %w", codedError(5)), true},
		{errors.New("database is locked"), true},
		{errors.New("no such table"), false},
	}
	for _, tc := range cases {
		if got := isSQLiteBusy(tc.err); got != tc.want {
			t.Errorf("isSQLiteBusy(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(context.Background(), func() error {
			calls++
			if calls < 3 {
				return codedError(5)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(context.Background(), func() error {
			calls++
			return codedError(5)
		})
		if !isSQLiteBusy(err) || calls != len(busyBackoff)+1 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		want := errors.New("constraint failed")
		err := retryOnBusy(context.Background(), func() error {
			calls++
			return want
		})
		if !errors.Is(err, want) || calls != 1 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		start := time.Now()
		err := retryOnBusy(ctx, func() error { return codedError(5) })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v", err)
		}
		if time.Since(start) > time.Second {
			t.Fatal("cancelled retry kept waiting")
		}
	})
}
