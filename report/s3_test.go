package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	u := &Uploader{Client: fake, Bucket: "reports"}

	require.NoError(t, u.Upload(context.Background(), "missing_skus/x.csv", strings.NewReader("SKU,Title\n")))
	assert.Equal(t, "reports", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "missing_skus/x.csv", aws.ToString(fake.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "SKU,Title\n", fake.body)
}

func TestUploadError(t *testing.T) {
	u := &Uploader{Client: &fakeS3{err: errors.New("denied")}, Bucket: "reports"}
	err := u.Upload(context.Background(), "k", strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://reports/k")
}

func TestDefaultKey(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 5, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "missing_skus/20261014T073005Z.csv", DefaultKey("missing_skus", now))
}
