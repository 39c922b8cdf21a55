package infra_posters_s3

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kinokreker/core/internal/config"
)

const clientTypeMock = "mock"

func MustEstablishConn(cfg config.Posters) *s3.Client {
	if cfg.S3ClientType == clientTypeMock {
		return createMockClient(cfg.S3Endpoint)
	}
	return createRealClient()
}

func createRealClient() *s3.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatal(err)
	}

	return s3.NewFromConfig(cfg)
}

func createMockClient(endpoint string) *s3.Client {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			SigningRegion:     "mock-region",
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("mock", "mock", "")),
		awsconfig.WithRegion("mock-region"),
	)
	if err != nil {
		log.Fatal("Failed to create mock S3 config:", err)
	}

	return s3.NewFromConfig(cfg)
}
