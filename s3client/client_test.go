package s3client

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadEnvironment(t *testing.T) {
	t.Setenv("MORPH_S3_BUCKET", "models")
	t.Setenv("MORPH_S3_REGION", "eu-west-1")
	t.Setenv("MORPH_S3_ENDPOINT", "http://localhost:4566")

	env, err := ReadEnvironment()
	require.NoError(t, err)
	require.Equal(t, EnvironmentConfig{
		BucketName: "models",
		Region:     "eu-west-1",
		Endpoint:   "http://localhost:4566",
		MaxRetries: 4,
	}, env)
}

func TestReadEnvironmentRequiresBucket(t *testing.T) {
	t.Setenv("MORPH_S3_REGION", "eu-west-1")
	t.Setenv("MORPH_S3_BUCKET", "")
	require.NoError(t, os.Unsetenv("MORPH_S3_BUCKET"))

	_, err := ReadEnvironment()
	require.Error(t, err)
}

func TestBaseConfigUsesEndpoint(t *testing.T) {
	client := Client{env: EnvironmentConfig{Region: "eu-west-1", Endpoint: "http://localhost:4566", MaxRetries: 2}}
	cfg := client.baseConfig()
	require.Equal(t, "eu-west-1", *cfg.Region)
	require.Equal(t, "http://localhost:4566", *cfg.Endpoint)
	require.True(t, *cfg.S3ForcePathStyle)
	require.Equal(t, 2, *cfg.MaxRetries)
}

func TestRoundTripAgainstBucket(t *testing.T) {
	if os.Getenv("MORPH_S3_BUCKET") == "" {
		t.Skip("MORPH_S3_BUCKET is not set")
	}
	client, err := New()
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Upload([]byte("payload"), "morphtag-test/roundtrip")
	require.NoError(t, err)
	data, err := client.Download("morphtag-test/roundtrip")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}
