package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SecretSource resolves secret references against AWS. References
// starting with "/" are treated as SSM Parameter Store paths; everything
// else goes to Secrets Manager (name or ARN).
type SecretSource struct {
	ssm *ssm.Client
	sm  *secretsmanager.Client
}

// NewSecretSource creates a secret source from the shared configuration.
func NewSecretSource(cfg awssdk.Config) *SecretSource {
	return &SecretSource{
		ssm: ssm.NewFromConfig(cfg),
		sm:  secretsmanager.NewFromConfig(cfg),
	}
}

// Get returns the raw secret material for a reference.
func (s *SecretSource) Get(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "/") {
		return s.getSSMParameter(ctx, ref)
	}
	return s.getSecretsManager(ctx, ref)
}

func (s *SecretSource) getSSMParameter(ctx context.Context, name string) ([]byte, error) {
	output, err := s.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: awssdk.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get SSM parameter: %w", err)
	}
	return []byte(deref(output.Parameter.Value)), nil
}

func (s *SecretSource) getSecretsManager(ctx context.Context, name string) ([]byte, error) {
	output, err := s.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	if output.SecretString != nil {
		return []byte(*output.SecretString), nil
	}
	return output.SecretBinary, nil
}
