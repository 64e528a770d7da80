package s3_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/storage/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SpyS3API struct {
	mock.Mock
}

func (s *SpyS3API) HeadBucket(ctx context.Context, params *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*awss3.HeadBucketOutput)
	return out, args.Error(1)
}

func (s *SpyS3API) CreateBucket(ctx context.Context, params *awss3.CreateBucketInput, _ ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*awss3.CreateBucketOutput)
	return out, args.Error(1)
}

func (s *SpyS3API) DeleteBucket(ctx context.Context, params *awss3.DeleteBucketInput, _ ...func(*awss3.Options)) (*awss3.DeleteBucketOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*awss3.DeleteBucketOutput)
	return out, args.Error(1)
}

func bucketIs(name string) func(*awss3.HeadBucketInput) bool {
	return func(in *awss3.HeadBucketInput) bool {
		return aws.ToString(in.Bucket) == name
	}
}

func TestStore_BucketExists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("HeadBucket", ctx, mock.MatchedBy(bucketIs("b1"))).Return(&awss3.HeadBucketOutput{}, nil)

		exists, err := s3.New(api, "us-east-1").BucketExists(ctx, "b1")
		assert.NoError(t, err)
		assert.True(t, exists)
		api.AssertExpectations(t)
	})

	t.Run("typed not found", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, &types.NotFound{})

		exists, err := s3.New(api, "").BucketExists(ctx, "b1")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("generic no such bucket code", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "NoSuchBucket"})

		exists, err := s3.New(api, "").BucketExists(ctx, "b1")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other failure", func(t *testing.T) {
		api := new(SpyS3API)
		denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, denied)

		exists, err := s3.New(api, "").BucketExists(ctx, "b1")
		assert.False(t, exists)
		assert.ErrorIs(t, err, denied)
	})
}

func TestStore_CreateBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("us-east-1 sends no location constraint", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("CreateBucket", ctx, mock.MatchedBy(func(in *awss3.CreateBucketInput) bool {
			return aws.ToString(in.Bucket) == "b1" && in.CreateBucketConfiguration == nil
		})).Return(&awss3.CreateBucketOutput{}, nil)

		require.NoError(t, s3.New(api, "us-east-1").CreateBucket(ctx, "b1"))
		api.AssertExpectations(t)
	})

	t.Run("other regions send location constraint", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("CreateBucket", ctx, mock.MatchedBy(func(in *awss3.CreateBucketInput) bool {
			return in.CreateBucketConfiguration != nil &&
				in.CreateBucketConfiguration.LocationConstraint == types.BucketLocationConstraintEuWest1
		})).Return(&awss3.CreateBucketOutput{}, nil)

		require.NoError(t, s3.New(api, "eu-west-1").CreateBucket(ctx, "b1"))
		api.AssertExpectations(t)
	})

	t.Run("already owned", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("CreateBucket", ctx, mock.Anything).Return(nil, &types.BucketAlreadyOwnedByYou{})

		err := s3.New(api, "").CreateBucket(ctx, "b1")
		assert.ErrorIs(t, err, foldery.ErrAlreadyExists)
	})

	t.Run("owned by someone else", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("CreateBucket", ctx, mock.Anything).Return(nil, &types.BucketAlreadyExists{})

		err := s3.New(api, "").CreateBucket(ctx, "b1")
		assert.ErrorIs(t, err, foldery.ErrAlreadyExists)
	})

	t.Run("other failure", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("CreateBucket", ctx, mock.Anything).Return(nil, errors.New("boom"))

		err := s3.New(api, "").CreateBucket(ctx, "b1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, foldery.ErrAlreadyExists)
	})
}

func TestStore_DeleteBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("DeleteBucket", ctx, mock.MatchedBy(func(in *awss3.DeleteBucketInput) bool {
			return aws.ToString(in.Bucket) == "b1"
		})).Return(&awss3.DeleteBucketOutput{}, nil)

		require.NoError(t, s3.New(api, "").DeleteBucket(ctx, "b1"))
		api.AssertExpectations(t)
	})

	t.Run("missing bucket", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("DeleteBucket", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "NoSuchBucket"})

		err := s3.New(api, "").DeleteBucket(ctx, "b1")
		assert.ErrorIs(t, err, foldery.ErrNotFound)
	})

	t.Run("bucket not empty", func(t *testing.T) {
		api := new(SpyS3API)
		api.On("DeleteBucket", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "BucketNotEmpty"})

		err := s3.New(api, "").DeleteBucket(ctx, "b1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, foldery.ErrNotFound)
	})
}

func TestStore_ContextCanceled(t *testing.T) {
	api := new(SpyS3API)
	store := s3.New(api, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.BucketExists(ctx, "b1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.CreateBucket(ctx, "b1"), context.Canceled)
	assert.ErrorIs(t, store.DeleteBucket(ctx, "b1"), context.Canceled)
	api.AssertNotCalled(t, "HeadBucket", mock.Anything, mock.Anything)
}

func TestNewClient_RequiresRegion(t *testing.T) {
	_, err := s3.NewClient(context.Background(), s3.Config{})
	assert.Error(t, err)
}
