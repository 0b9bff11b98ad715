package worker

import (
	"fmt"

	"text2phenotype.com/morphtag/tasks"
)

type redisTransactions interface {
	getTask(requestID string) (*tasks.TaggingTask, error)
	onTaskStarted(task *Task) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task, status tasks.TaskStatus, errorMessages ...string) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getTask(requestID string) (*tasks.TaggingTask, error) {
	return wrapper.tasksClient.Get(requestID)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Update(task.message.RequestID, func(info *tasks.TaggingTask) {
		info.TextKey = task.message.TextKey
		info.ResultKey = task.resultKey
		info.Status = tasks.TaskStatusStarted
		info.Attempts += 1
		info.StartedAt = getFormattedNow()
		info.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Update(task.message.RequestID, func(info *tasks.TaggingTask) {
		info.Status = tasks.TaskStatusCompletedFailure
		info.CompletedAt = getFormattedNow()
		info.ErrorMessages = append(
			info.ErrorMessages,
			fmt.Sprintf("Task has exceeded retries. (Attempts: %d, max retries: %d)", info.Attempts, maxRetries),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Update(task.message.RequestID, func(info *tasks.TaggingTask) {
		info.Status = tasks.TaskStatusFailed
		info.CompletedAt = getFormattedNow()
		info.ErrorMessages = append(info.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task, status tasks.TaskStatus, errorMessages ...string) error {
	return wrapper.tasksClient.Update(task.message.RequestID, func(info *tasks.TaggingTask) {
		info.Status = status
		info.CompletedAt = getFormattedNow()
		info.ResultKey = task.resultKey
		info.ErrorMessages = append(info.ErrorMessages, errorMessages...)
	})
}
