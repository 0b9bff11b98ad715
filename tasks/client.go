// Package tasks keeps the status of tagging requests in redis so a
// redelivered request is not processed twice.
package tasks

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/morphtag/redis"
)

const keyPrefix = "morphtag:task:"

type TaskStatus string

const (
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure
}

type TaggingTask struct {
	RequestID     string     `json:"request_id"`
	TextKey       string     `json:"text_key"`
	ResultKey     string     `json:"result_key"`
	Status        TaskStatus `json:"status"`
	Attempts      int        `json:"attempts"`
	StartedAt     *string    `json:"started_at"`
	CompletedAt   *string    `json:"completed_at"`
	ErrorMessages []string   `json:"error_messages"`
}

type Config struct {
	TTLHours int `envconfig:"MORPH_TASK_TTL_HOURS" default:"72"`
}

type Client struct {
	client *redis.Client
}

func NewClient() (Client, error) {
	redisCfg, err := redis.ReadConfig()
	if err != nil {
		return Client{}, err
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	client := redis.NewClient(
		redis.NewUniversalClient(redisCfg),
		keyPrefix,
		redisCfg.LockExpiration(),
		time.Duration(cfg.TTLHours)*time.Hour,
	)
	return Client{client: client}, nil
}

// Get returns nil without error for a request never seen before.
func (c Client) Get(requestID string) (*TaggingTask, error) {
	var task TaggingTask
	err := c.client.GetDocument(requestID, &task)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c Client) Update(requestID string, updateFunc func(task *TaggingTask)) error {
	task := TaggingTask{RequestID: requestID}
	return c.client.UpdateDocument(requestID, &task, func() {
		updateFunc(&task)
	})
}

func (c Client) Close() {
	_ = c.client.Close()
}
