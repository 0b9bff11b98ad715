package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/morphtag/pipeline"
	"text2phenotype.com/morphtag/tasks"
	"text2phenotype.com/morphtag/utils"
)

const sender = "morphtag"

var ErrInvalidMessage = errors.New("worker: message lacks request_id or text_key")

// Message asks for the text stored under TextKey to be tagged. The result
// goes to ResultKey, or to a key derived from RequestID when that is empty.
type Message struct {
	RequestID string `json:"request_id"`
	TextKey   string `json:"text_key"`
	ResultKey string `json:"result_key"`
}

// Reply is published once a request reaches a final state.
type Reply struct {
	RequestID     string           `json:"request_id"`
	ResultKey     string           `json:"result_key"`
	Status        tasks.TaskStatus `json:"status"`
	ErrorMessages []string         `json:"error_messages,omitempty"`
	Sender        string           `json:"sender"`
}

type Task struct {
	delivery     *amqp.Delivery
	message      *Message
	info         *tasks.TaggingTask
	resultKey    string
	status       tasks.TaskStatus
	errors       []string
	workerLogger *zerolog.Logger
}

func (task *Task) reply() Reply {
	return Reply{
		RequestID:     task.message.RequestID,
		ResultKey:     task.resultKey,
		Status:        task.status,
		ErrorMessages: task.errors,
		Sender:        sender,
	}
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	rejectLogger := worker.workerLogger.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(delivery)
	if err != nil {
		worker.workerLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.sendReply(task, task.reply()); err != nil {
		task.workerLogger.Err(err).Msg("Got error while sending reply")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.workerLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.workerLogger.Info().Str("status", string(task.status)).Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	if message.RequestID == "" || message.TextKey == "" {
		return nil, ErrInvalidMessage
	}
	info, err := worker.redis.getTask(message.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task for message, got error %w", err)
	}
	resultKey := message.ResultKey
	if resultKey == "" {
		resultKey = getResultsFileKey(message.RequestID)
	}
	taskLogger := worker.workerLogger.With().Str("tid", message.RequestID).Logger()
	return &Task{
		delivery:     delivery,
		message:      &message,
		info:         info,
		resultKey:    resultKey,
		workerLogger: &taskLogger,
	}, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.workerLogger.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.workerLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.workerLogger.Err(err).Msg("Got error while running pipeline")
		if updateErr := worker.redis.onTaskFailedWithError(task, err); updateErr != nil {
			task.workerLogger.Err(updateErr).Msg("Failed to record task failure")
		}
		return err
	}
	task.workerLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task, task.status, task.errors...); err != nil {
		task.workerLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	attempt := 1
	if task.info != nil {
		attempt = task.info.Attempts + 1
	}
	task.workerLogger.Info().Msgf("Processing message from RMQ, attempt # %d", attempt)
	data, err := worker.s3.getText(task)
	if err != nil {
		task.workerLogger.Err(err).Caller().Msg("Could not fetch text data from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}
	request := pipeline.Request{
		Tid:  task.message.RequestID,
		Text: string(data),
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.workerLogger.Error().Msg("Pipeline channel was closed before returning anything")
		return errors.New("pipeline channel was closed before returning anything")
	}

	var response pipeline.Response
	if err := json.Unmarshal([]byte(result), &response); err != nil {
		return fmt.Errorf("pipeline returned malformed response: %w", err)
	}
	task.status = tasks.TaskStatusCompletedSuccess
	if response.Error != "" {
		task.status = tasks.TaskStatusCompletedFailure
		task.errors = append(task.errors, response.Error)
	}

	task.workerLogger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.saveResultsFile(task, result); err != nil {
		task.workerLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

// shouldPerformTask answers false for requests already in a final state,
// replying with the recorded outcome instead.
func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	info := task.info
	if info == nil {
		return true, nil
	}
	if info.Status.Complete() {
		task.workerLogger.Info().Msg("Task is already done (might indicate issue acking message with RMQ). Replying again.")
		task.status = info.Status
		task.errors = info.ErrorMessages
		if info.ResultKey != "" {
			task.resultKey = info.ResultKey
		}
		return false, nil
	}
	if info.Attempts >= worker.config.TaskMaxRetries {
		task.workerLogger.Info().Msg("Task has exceeded retries. Replying with failure.")
		task.status = tasks.TaskStatusCompletedFailure
		task.errors = append(task.errors, fmt.Sprintf("exceeded %d attempts", worker.config.TaskMaxRetries))
		return false, worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
	}
	return true, nil
}
