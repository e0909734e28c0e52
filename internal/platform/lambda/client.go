// Package lambda implements the platform.Client interface on the AWS SDK
// Lambda client.
package lambda

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/lambdajanitor/janitor/internal/platform"
)

// Config configures a Lambda client.
type Config struct {
	// Region is the AWS region (e.g., "us-east-1").
	// If empty, the region from the default configuration chain is used.
	Region string

	// Endpoint overrides the Lambda endpoint URL (e.g., "http://localhost:4566"
	// for LocalStack). If empty, uses the default AWS endpoint for the region.
	Endpoint string

	// AccessKeyID is the AWS access key ID.
	// If empty, uses the default credential chain.
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key.
	// If empty, uses the default credential chain.
	SecretAccessKey string

	// MaxAttempts bounds the SDK's own retries of a single API call.
	// Zero keeps the SDK default.
	MaxAttempts int

	// PageSize is the MaxItems sent on every list call. Zero keeps the
	// service default.
	PageSize int32
}

// API is the subset of the SDK Lambda client used by Client.
type API interface {
	lambda.ListFunctionsAPIClient
	lambda.ListVersionsByFunctionAPIClient
	lambda.ListAliasesAPIClient
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
}

// Client implements platform.Client using AWS Lambda.
type Client struct {
	api      API
	pageSize int32
}

var _ platform.Client = (*Client)(nil)

// New creates a new Lambda client with the given configuration.
func New(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{}

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	if cfg.MaxAttempts > 0 {
		opts = append(opts, config.WithRetryMaxAttempts(cfg.MaxAttempts))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("lambda: failed to load AWS config: %w", err)
	}

	var lambdaOpts []func(*lambda.Options)
	if cfg.Endpoint != "" {
		lambdaOpts = append(lambdaOpts, func(o *lambda.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return NewWithAPI(lambda.NewFromConfig(awsCfg, lambdaOpts...), cfg.PageSize), nil
}

// NewWithAPI creates a Client on an existing API implementation.
func NewWithAPI(api API, pageSize int32) *Client {
	return &Client{api: api, pageSize: pageSize}
}

func (c *Client) maxItems() *int32 {
	if c.pageSize <= 0 {
		return nil
	}
	return aws.Int32(c.pageSize)
}

// ListFunctions returns the ARN of every function in the region, in listing order.
func (c *Client) ListFunctions(ctx context.Context) ([]string, error) {
	var fns []string
	paginator := lambda.NewListFunctionsPaginator(c.api, &lambda.ListFunctionsInput{
		MaxItems: c.maxItems(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapError(platform.OpListFunctions, "", "", platform.ErrPlatformUnavailable, err)
		}
		for _, fn := range page.Functions {
			id := aws.ToString(fn.FunctionArn)
			if id == "" {
				id = aws.ToString(fn.FunctionName)
			}
			if id != "" {
				fns = append(fns, id)
			}
		}
	}
	return fns, nil
}

// ListVersions returns the published versions of a function without $LATEST.
// A function deleted since it was listed has no versions.
func (c *Client) ListVersions(ctx context.Context, function string) ([]string, error) {
	var versions []string
	paginator := lambda.NewListVersionsByFunctionPaginator(c.api, &lambda.ListVersionsByFunctionInput{
		FunctionName: aws.String(function),
		MaxItems:     c.maxItems(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, wrapError(platform.OpListVersions, function, "", platform.ErrPlatformUnavailable, err)
		}
		for _, v := range page.Versions {
			version := aws.ToString(v.Version)
			if version == "" || version == platform.LatestVersion {
				continue
			}
			versions = append(versions, version)
		}
	}
	return versions, nil
}

// ListAliasedVersions returns every version an alias routes traffic to,
// including the weighted secondary version of a canary alias.
func (c *Client) ListAliasedVersions(ctx context.Context, function string) ([]string, error) {
	seen := make(map[string]struct{})
	var versions []string
	add := func(v string) {
		if v == "" || v == platform.LatestVersion {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		versions = append(versions, v)
	}

	paginator := lambda.NewListAliasesPaginator(c.api, &lambda.ListAliasesInput{
		FunctionName: aws.String(function),
		MaxItems:     c.maxItems(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, wrapError(platform.OpListAliasedVersions, function, "", platform.ErrPlatformUnavailable, err)
		}
		for _, alias := range page.Aliases {
			add(aws.ToString(alias.FunctionVersion))
			if alias.RoutingConfig != nil {
				for v := range alias.RoutingConfig.AdditionalVersionWeights {
					add(v)
				}
			}
		}
	}
	return versions, nil
}

// DeleteVersion deletes a published version. A version that is already gone
// is not an error.
func (c *Client) DeleteVersion(ctx context.Context, function, version string) error {
	if version == "" || version == platform.LatestVersion {
		return &platform.CallError{
			Op:       platform.OpDeleteVersion,
			Function: function,
			Version:  version,
			Kind:     platform.ErrDeleteFailed,
			Err:      errors.New("refusing to delete unqualified function"),
		}
	}

	_, err := c.api.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(function),
		Qualifier:    aws.String(version),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return wrapError(platform.OpDeleteVersion, function, version, platform.ErrDeleteFailed, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return true
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}

func wrapError(op, function, version string, kind, err error) error {
	return &platform.CallError{
		Op:       op,
		Function: function,
		Version:  version,
		Kind:     kind,
		Err:      err,
	}
}
