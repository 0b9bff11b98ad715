// Package rmq connects the tagging worker to its request and reply queues.
package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/morphtag/logger"
)

type Config struct {
	Host                    string `envconfig:"MORPH_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"MORPH_RMQ_PORT" default:"5672"`
	Username                string `envconfig:"MORPH_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"MORPH_RMQ_PASSWORD" required:"true"`
	VHost                   string `envconfig:"MORPH_RMQ_VHOST" default:""`
	Exchange                string `envconfig:"MORPH_RMQ_EXCHANGE" default:"morphtag-exchange"`
	MaxParallelRequestCount int    `envconfig:"MORPH_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"MORPH_RMQ_TASK_QUEUE" default:"morphtag.tasks"`
	ReplyQueue              string `envconfig:"MORPH_RMQ_REPLY_QUEUE" default:"morphtag.replies"`
}

func ReadConfig() (Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	return config, err
}

// URL is the AMQP address described by the config.
func (c Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", c.Username, c.Password, c.Host, c.Port, c.VHost)
}

// Client consumes the task queue on one connection and publishes replies on
// another, so a blocked publisher never stalls deliveries.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	rmqLogger      zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	config, err := ReadConfig()
	if err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}
	return NewClientWithConfig(config)
}

func NewClientWithConfig(config Config) (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client").With().
		Str("host", config.Host).
		Str("task_queue", config.TaskQueue).Logger()

	url := config.URL()
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	client := &Client{
		config:      config,
		reqConn:     reqConn,
		respConn:    respConn,
		respChannel: respChannel,
		rmqLogger:   rmqLogger,
	}

	if err := declare(reqChannel, config.Exchange, config.TaskQueue); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare %s: %w", config.TaskQueue, err)
	}
	if err := declare(respChannel, config.Exchange, config.ReplyQueue); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare %s: %w", config.ReplyQueue, err)
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		client.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}

	deliveries, err := reqChannel.Consume(
		config.TaskQueue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	client.Deliveries = deliveries
	client.ReqChanErrors = reqChannel.NotifyClose(make(chan *amqp.Error))
	client.RespChanErrors = respChannel.NotifyClose(make(chan *amqp.Error))

	rmqLogger.Info().Msg("Connected to RMQ")
	return client, nil
}

// SendReply publishes msg to the reply queue.
func (c *Client) SendReply(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.ReplyQueue,
		false,
		false,
		msg)
}

// SendTask publishes msg to the task queue; used by producers and tests.
func (c *Client) SendTask(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.TaskQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func declare(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}
	return ch.QueueBind(queue, queue, exchange, false, nil)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
