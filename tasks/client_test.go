package tasks

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskStatusComplete(t *testing.T) {
	require.True(t, TaskStatusCompletedSuccess.Complete())
	require.True(t, TaskStatusCompletedFailure.Complete())
	require.False(t, TaskStatusStarted.Complete())
	require.False(t, TaskStatusFailed.Complete())
}

func TestClientRoundTrip(t *testing.T) {
	if os.Getenv("MORPH_REDIS_HOST") == "" {
		t.Skip("MORPH_REDIS_HOST is not set")
	}
	client, err := NewClient()
	require.NoError(t, err)
	defer client.Close()

	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	task, err := client.Get(id)
	require.NoError(t, err)
	require.Nil(t, task)

	require.NoError(t, client.Update(id, func(task *TaggingTask) {
		task.Status = TaskStatusStarted
		task.Attempts++
	}))
	require.NoError(t, client.Update(id, func(task *TaggingTask) {
		task.Attempts++
	}))

	task, err = client.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, task.RequestID)
	require.Equal(t, TaskStatusStarted, task.Status)
	require.Equal(t, 2, task.Attempts)
}
