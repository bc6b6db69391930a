package aws_handler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

type SecretManager struct {
	svc *secretsmanager.SecretsManager
}

func NewSecretManager(svc *secretsmanager.SecretsManager) *SecretManager {
	return &SecretManager{svc: svc}
}

// GetSecretValue reads a plain-string secret, used for the database password
// when the deployment keeps it out of the config file.
func (s *SecretManager) GetSecretValue(secretID string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	result, err := s.svc.GetSecretValue(input)
	if err != nil {
		return "", err
	}

	return *result.SecretString, nil
}
