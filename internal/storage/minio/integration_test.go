//go:build integration

package minio_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/imagerelay/internal/model"
	storage "github.com/dtroode/imagerelay/internal/storage/minio"
	"github.com/dtroode/imagerelay/internal/testutil"
)

const (
	accessKey = "relay-access-key"
	secretKey = "relay-secret-key"
)

var endpoint string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-08-17T01-24-54Z",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     accessKey,
				"MINIO_ROOT_PASSWORD": secretKey,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		panic(err)
	}
	endpoint = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newClient(t *testing.T, accessKey, secretKey, bucket string) *storage.Client {
	t.Helper()

	mc, err := minioLib.New(endpoint, &minioLib.Options{
		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
	})
	require.NoError(t, err)

	c, err := storage.NewClient(context.Background(), mc, bucket, model.DefaultContentType, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}

func TestClient_UploadOverwriteAndDownload(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, accessKey, secretKey, "images")

	key, err := c.Upload(ctx, "cat.png", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, "cat.png", key)

	_, err = c.Upload(ctx, "cat.png", []byte("second"))
	require.NoError(t, err)

	rc, err := c.Download(ctx, "cat.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	mc, err := minioLib.New(endpoint, &minioLib.Options{Creds: credentials.NewStaticV4(accessKey, secretKey, "")})
	require.NoError(t, err)
	info, err := mc.StatObject(ctx, "images", "cat.png", minioLib.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.ContentType)
}

func TestClient_DownloadMissing(t *testing.T) {
	c := newClient(t, accessKey, secretKey, "images")

	_, err := c.Download(context.Background(), "absent.png")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNewClient_WrongCredentials(t *testing.T) {
	mc, err := minioLib.New(endpoint, &minioLib.Options{Creds: credentials.NewStaticV4("nobody", "wrong-secret", "")})
	require.NoError(t, err)

	c, err := storage.NewClient(context.Background(), mc, "images", model.DefaultContentType, testutil.MakeNoopLogger())
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}
