package aws_handler_test

import (
	"context"
	"errors"
	"testing"

	aws_handler "github.com/ryanuo/aug-calc/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	values map[string]*string
	err    error
}

func (f *fakeSecretsManager) GetSecretValueWithContext(_ aws.Context, input *secretsmanager.GetSecretValueInput, _ ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{
		Name:         input.SecretId,
		SecretString: f.values[*input.SecretId],
	}, nil
}

func TestGetSecretValue(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the secret string", func(t *testing.T) {
		manager := aws_handler.NewSecretManager(&fakeSecretsManager{values: map[string]*string{
			"augcalc/db": aws.String("s3cret"),
		}})
		value, err := manager.GetSecretValue(ctx, "augcalc/db")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", value)
	})

	t.Run("binary-only secret is an error", func(t *testing.T) {
		manager := aws_handler.NewSecretManager(&fakeSecretsManager{values: map[string]*string{}})
		_, err := manager.GetSecretValue(ctx, "augcalc/db")
		assert.ErrorIs(t, err, aws_handler.ErrEmptySecret)
	})

	t.Run("service errors are wrapped", func(t *testing.T) {
		boom := errors.New("access denied")
		manager := aws_handler.NewSecretManager(&fakeSecretsManager{err: boom})
		_, err := manager.GetSecretValue(ctx, "augcalc/db")
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "augcalc/db")
	})
}
