// Package s3client moves model snapshots and tagging payloads in and out of
// one S3 bucket.
package s3client

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/morphtag/logger"
)

var ErrNoSession = errors.New("s3client: no usable session")

type EnvironmentConfig struct {
	BucketName  string `envconfig:"MORPH_S3_BUCKET" required:"true"`
	Region      string `envconfig:"MORPH_S3_REGION" required:"true"`
	Endpoint    string `envconfig:"MORPH_S3_ENDPOINT" default:""`
	AccessKeyID string `envconfig:"MORPH_S3_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"MORPH_S3_ACCESS_KEY" default:""`
	MaxRetries  int    `envconfig:"MORPH_S3_MAX_RETRIES" default:"4"`
	Debug       bool   `envconfig:"MORPH_S3_DEBUG" default:"false"`
}

type Client struct {
	holder *sessionHolder
	env    EnvironmentConfig
}

// sessionHolder hands the current session to callers and swaps it out when
// one of them reports a failure.
type sessionHolder struct {
	curr      *session.Session
	requestCh <-chan *session.Session
	errorCh   chan<- error
	closeCh   chan<- struct{}
}

var clientLogger = logger.NewLogger("S3 client")
var sdkLogger = logger.NewLogger("S3 SDK")

func ReadEnvironment() (EnvironmentConfig, error) {
	var config EnvironmentConfig
	if err := envconfig.Process("", &config); err != nil {
		clientLogger.Err(err).Caller().Msg("Got error while processing environment")
		return config, err
	}
	return config, nil
}

// New reads the bucket settings from the environment and opens a session.
func New() (*Client, error) {
	env, err := ReadEnvironment()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(env)
}

func NewWithConfig(env EnvironmentConfig) (*Client, error) {
	client := Client{env: env}
	sessionCh := make(chan *session.Session)
	errorCh := make(chan error)
	closeCh := make(chan struct{}, 1)

	client.holder = &sessionHolder{
		requestCh: sessionCh,
		errorCh:   errorCh,
		closeCh:   closeCh,
	}
	if err := client.acquireNewSession(); err != nil {
		return nil, err
	}
	go keepSessionRefreshed(&client, sessionCh, errorCh, closeCh)
	return &client, nil
}

func (client *Client) Bucket() string {
	return client.env.BucketName
}

func (client *Client) Upload(data []byte, key string) (*s3manager.UploadOutput, error) {
	params := &s3manager.UploadInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	sess, err := client.session()
	if err != nil {
		return nil, err
	}
	output, err := client.upload(sess, params)
	if err == nil {
		return output, nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return nil, err
	}
	// the body was consumed by the failed attempt
	params.Body = bytes.NewReader(data)
	return client.upload(sess, params)
}

func (client *Client) Download(key string) ([]byte, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	sess, err := client.session()
	if err != nil {
		return nil, err
	}
	res, err := client.download(sess, params)
	if err == nil {
		return res, nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return nil, err
	}
	return client.download(sess, params)
}

func (client *Client) Close() {
	client.holder.closeCh <- struct{}{}
}

func (client *Client) upload(sess *session.Session, params *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
	keyLogger := clientLogger.With().
		Str("key", *params.Key).
		Str("bucket", *params.Bucket).Logger()

	uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: getLogger(*params.Bucket, *params.Key)}))
	keyLogger.Debug().Msg("Uploading object")
	output, err := uploader.Upload(params)
	if err != nil {
		keyLogger.Error().Err(err).Msg("Failed to upload object")
		return nil, err
	}
	return output, nil
}

func (client *Client) download(sess *session.Session, params *s3.GetObjectInput) ([]byte, error) {
	keyLogger := clientLogger.With().
		Str("key", *params.Key).
		Str("bucket", *params.Bucket).Logger()

	downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: getLogger(*params.Bucket, *params.Key)}))
	buf := aws.NewWriteAtBuffer([]byte{})

	keyLogger.Debug().Msg("Downloading object")
	size, err := downloader.Download(buf, params)
	if err != nil {
		keyLogger.Error().Err(err).Msg("Failed to download object")
		return nil, err
	}
	keyLogger.Debug().Int64("size", size).Msg("Downloaded object")
	return buf.Bytes(), nil
}

func keepSessionRefreshed(client *Client, sessionCh chan<- *session.Session, errorCh <-chan error, closeCh <-chan struct{}) {
	for {
		select {
		case sessionCh <- client.holder.curr:
			continue
		default:
		}
		select {
		case sessionCh <- client.holder.curr:
		case err := <-errorCh:
			clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
			if err = client.acquireNewSession(); err != nil {
				clientLogger.Error().Err(err).Msg("Caught error while refreshing S3 session")
				continue
			}
			clientLogger.Info().Msg("Successfully refreshed session")
		case <-closeCh:
			clientLogger.Info().Msg("Closing client")
			return
		}
	}
}

func (client *Client) tryRefreshingSession(err error) (*session.Session, error) {
	var sess *session.Session
	select {
	case client.holder.errorCh <- err:
		sess = <-client.holder.requestCh
	case sess = <-client.holder.requestCh:
	}
	if sess == nil {
		return nil, fmt.Errorf("refresh after %v: %w", err, ErrNoSession)
	}
	return sess, nil
}

func (client *Client) session() (*session.Session, error) {
	sess := <-client.holder.requestCh
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (client *Client) baseConfig() *aws.Config {
	cfg := aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(client.env.MaxRetries)
	if client.env.Debug {
		cfg = cfg.WithLogLevel(aws.LogDebug)
	}
	if client.env.Endpoint != "" {
		cfg = cfg.WithEndpoint(client.env.Endpoint).
			WithS3ForcePathStyle(true)
	}
	return cfg
}

func (client *Client) staticCredentialsConfig() (*aws.Config, error) {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		return nil, fmt.Errorf("credentials from environment: %w", err)
	}
	return client.baseConfig().WithCredentials(creds), nil
}

// acquireNewSession tries the default credential chain first and falls back
// to the static keys from the environment.
func (client *Client) acquireNewSession() error {
	sess, err := session.NewSession(client.baseConfig())
	if err == nil {
		_, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{})
	}
	if err == nil {
		client.holder.curr = sess
		clientLogger.Info().Msg("S3 session initialized from the default credential chain")
		return nil
	}
	clientLogger.Info().Err(err).Msg("Default credential chain failed, trying env credentials")

	cfg, err := client.staticCredentialsConfig()
	if err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return err
	}
	sess, err = session.NewSession(cfg)
	if err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return err
	}
	if client.env.Endpoint == "" {
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
			client.holder.curr = nil
			clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
			return fmt.Errorf("verify env credentials: %w", err)
		}
	}
	client.holder.curr = sess
	clientLogger.Info().Msg("S3 session initialized from env credentials")
	return nil
}

type s3Logger struct {
	sdkLog zerolog.Logger
}

func getLogger(bucket, key string) *s3Logger {
	return &s3Logger{
		sdkLog: sdkLogger.With().Str("bucket", bucket).Str("key", key).Logger(),
	}
}

func (l *s3Logger) Log(v ...interface{}) {
	l.sdkLog.Debug().Msg(fmt.Sprint(v...))
}
