package archive

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = S3Options{
	Region:       "us-east-1",
	AccessKey:    "minioadmin",
	SecretKey:    "minioadmin",
	BaseEndpoint: "http://127.0.0.1:9000",
	Bucket:       "reports",
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origGet
	})
}

func TestNewS3Archive_AppliesOptions(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	a, err := NewS3Archive(context.Background(), testOpts)
	require.NoError(t, err)
	assert.Equal(t, "reports", a.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Archive_LoadConfigError(t *testing.T) {
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("cfg-fail")
	}

	_, err := NewS3Archive(context.Background(), testOpts)
	require.EqualError(t, err, "cfg-fail")
}

func stubbedArchive(t *testing.T) *S3Archive {
	t.Helper()
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	a, err := NewS3Archive(context.Background(), testOpts)
	require.NoError(t, err)
	return a
}

func TestS3Archive_Put(t *testing.T) {
	a := stubbedArchive(t)

	var got *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		return &s3.PutObjectOutput{}, nil
	}

	require.NoError(t, a.Put(context.Background(), "reports/x.csv", "text/csv", []byte("a,b\n")))
	require.NotNil(t, got)
	assert.Equal(t, "reports", *got.Bucket)
	assert.Equal(t, "reports/x.csv", *got.Key)
	assert.Equal(t, "text/csv", *got.ContentType)
	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(body))

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put-fail")
	}
	assert.EqualError(t, a.Put(context.Background(), "k", "text/csv", nil), "put-fail")
}

func TestS3Archive_PresignGet(t *testing.T) {
	a := stubbedArchive(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, DownloadLinkTTL, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://minio/reports/" + *in.Key}, nil
	}

	url, err := a.PresignGet(context.Background(), "k.csv")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/reports/k.csv", url)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-get-fail")
	}
	_, err = a.PresignGet(context.Background(), "k.csv")
	assert.EqualError(t, err, "presign-get-fail")
}

func TestNewReportKey(t *testing.T) {
	k1 := NewReportKey("staff", "2024-03")
	k2 := NewReportKey("staff", "2024-03")
	assert.NotEqual(t, k1, k2)
	assert.Regexp(t, regexp.MustCompile(`^reports/staff/2024-03/[0-9a-f-]{36}\.csv$`), k1)
}

func TestMemoryArchive(t *testing.T) {
	a := NewMemoryArchive()
	ctx := context.Background()

	_, err := a.PresignGet(ctx, "missing")
	assert.Error(t, err)

	body := []byte("x")
	require.NoError(t, a.Put(ctx, "k", "text/csv", body))
	body[0] = 'y'

	url, err := a.PresignGet(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "memory://k", url)

	o, ok := a.Get("k")
	require.True(t, ok)
	assert.Equal(t, "x", string(o.Body))
	assert.Equal(t, "text/csv", o.ContentType)
}
