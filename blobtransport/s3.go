package blobtransport

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hairyhenderson/go-urlfile/internal/env"
	"gocloud.dev/blob"
	"gocloud.dev/blob/s3blob"
)

// region used for unsigned requests when none is configured
const defaultS3Region = "us-east-1"

// s3Anonymous reports whether requests for the S3 URL u should be unsigned,
// either because of an "anonymous" query parameter or the AWS_ANON env var.
// The URL parameter takes precedence.
func (t *Transport) s3Anonymous(u *url.URL) bool {
	anon := u.Query().Get("anonymous")
	if anon == "" {
		anon = env.GetenvFS(t.envfs, "AWS_ANON")
	}

	b, _ := strconv.ParseBool(anon)

	return b
}

// openAnonS3Bucket opens the bucket named by the (already cleaned) URL u with
// anonymous credentials. The Go CDK's URL opener can't do this, so the client
// is built here from the same URL parameters.
func (t *Transport) openAnonS3Bucket(ctx context.Context, u *url.URL) (*blob.Bucket, error) {
	q := u.Query()

	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(aws.AnonymousCredentials{}),
	}

	if region := q.Get("region"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	if profile := q.Get("profile"); profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = defaultS3Region
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := q.Get("endpoint"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}

		o.UsePathStyle = q.Get("use_path_style") == "true"
		o.UseAccelerate = q.Get("accelerate") == "true"
		o.EndpointOptions.DisableHTTPS = q.Get("disable_https") == "true"
	})

	return s3blob.OpenBucketV2(ctx, client, u.Host, nil)
}
