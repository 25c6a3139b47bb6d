package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/servicelayer/internal/errors"
)

// Source supplies a registry document.
type Source interface {
	Load(ctx context.Context) (*File, error)
	String() string
}

// LoadFile reads and decodes the registry document at path.
func LoadFile(path string) (*File, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.New("E120").
			WithSource(path).
			WithDetail("unrecognised file extension").
			WithSuggestion("Use a .json, .jsonc, .yaml or .yml document")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E125").
				WithSource(path).
				WithDetail("file does not exist").
				WithSuggestion("Pass --config or create " + DefaultFileName)
		}
		return nil, errors.New("E125").WithSource(path).WithDetail(err.Error()).Wrap(err)
	}
	return Parse(data, format, path)
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*File, error) {
	return LoadFile(s.Path)
}

// String implements Source.
func (s FileSource) String() string {
	return s.Path
}

// S3GetObjectAPI is the subset of *s3.Client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the document from an S3 object. The format follows the
// key's extension and defaults to JSON.
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Key    string
}

// Load implements Source.
func (s S3Source) Load(ctx context.Context) (*File, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.New("E125").WithSource(s.String()).WithDetail(err.Error()).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E125").WithSource(s.String()).WithDetail(err.Error()).Wrap(err)
	}

	format, ok := FormatFromPath(s.Key)
	if !ok {
		format = FormatJSON
	}
	return Parse(data, format, s.String())
}

// String implements Source.
func (s S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// S3ClientConfig configures NewS3Client.
type S3ClientConfig struct {
	Region string

	// Endpoint overrides the S3 endpoint, for S3 compatible stores.
	Endpoint string

	// PathStyle addresses buckets as path segments instead of subdomains.
	PathStyle bool

	// Getenv reads credentials; os.Getenv when nil.
	Getenv func(string) string
}

// NewS3Client builds an S3 client with static credentials taken from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN. Without
// them requests are sent anonymously.
func NewS3Client(cfg S3ClientConfig) *s3.Client {
	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	region := cfg.Region
	if region == "" {
		region = getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if id, secret := getenv("AWS_ACCESS_KEY_ID"), getenv("AWS_SECRET_ACCESS_KEY"); id != "" && secret != "" {
		token := getenv("AWS_SESSION_TOKEN")
		creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: id, SecretAccessKey: secret, SessionToken: token, Source: "environment"}, nil
		}))
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  creds,
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// ParseS3URI splits "s3://bucket/key" into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3:// URI", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// Open returns the Source for location: an s3:// URI or a file path.
// newClient is called only for S3 locations.
func Open(location string, newClient func() S3GetObjectAPI) (Source, error) {
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, errors.New("E125").WithSource(location).WithDetail(err.Error()).Wrap(err)
	}
	return S3Source{Client: newClient(), Bucket: bucket, Key: key}, nil
}
