package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lunarealm/luna-backend/config"
)

// SpacesService wraps the DigitalOcean Spaces bucket that holds card art.
// The web layer only reads; uploads happen out of band.
type SpacesService struct {
	client    *s3.Client
	bucket    string
	region    string
	cardRoot  string
	cdnDomain string
}

func NewSpacesService(cfg config.SpacesConfig) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	return &SpacesService{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cardRoot:  strings.TrimPrefix(cfg.CardRoot, "/"),
		cdnDomain: cfg.CDNDomain,
	}, nil
}

// ListCardImages walks the card art prefix and returns every object key,
// following continuation tokens.
func (s *SpacesService) ListCardImages(ctx context.Context) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.cardRoot),
	}

	for {
		output, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list card images: %w", err)
		}
		for _, obj := range output.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if output.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	return keys, nil
}

// ObjectExists checks whether one object key is present in the bucket.
func (s *SpacesService) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

// CardImageKey builds the object key for a card image file name.
func (s *SpacesService) CardImageKey(fileName string) string {
	if s.cardRoot == "" {
		return fileName
	}
	return s.cardRoot + "/" + fileName
}

// ImageURL returns the public URL for an object key, preferring the CDN
// domain when configured.
func (s *SpacesService) ImageURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}
