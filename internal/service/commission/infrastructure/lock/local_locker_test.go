package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRepLockerSerializesSameRep(t *testing.T) {
	l := NewLocalRepLocker()

	unlock, err := l.LockRep(context.Background(), "rep-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.LockRep(ctx, "rep-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := l.LockRep(context.Background(), "rep-1")
	require.NoError(t, err)
	unlock2()
}
