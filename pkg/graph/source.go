package graph

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/observability"
)

const s3Scheme = "s3://"

// ObjectGetter is the subset of the S3 client used to fetch datasets.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads datasets from local files, standard input and S3.
type Loader struct {
	// S3 fetches s3:// locations. When nil, a client is built from the
	// default AWS configuration on first use.
	S3 ObjectGetter

	// Stdin is read for the location "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// Load reads and decodes one dataset. The format follows the location's
// extension.
func (l *Loader) Load(ctx context.Context, location string) (Dataset, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, location)
	d, err := l.load(ctx, location)
	observability.Pipeline().OnLoadComplete(ctx, location, len(d.Nodes), time.Since(start), err)
	return d, err
}

// LoadAll loads every location and merges the results in order.
func (l *Loader) LoadAll(ctx context.Context, locations ...string) (Dataset, error) {
	sets := make([]Dataset, 0, len(locations))
	for _, loc := range locations {
		d, err := l.Load(ctx, loc)
		if err != nil {
			return Dataset{}, err
		}
		sets = append(sets, d)
	}
	return Merge(sets...), nil
}

func (l *Loader) load(ctx context.Context, location string) (Dataset, error) {
	switch {
	case location == "-":
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return Decode(in, FormatJSON)
	case strings.HasPrefix(location, s3Scheme):
		data, err := l.fetchS3(ctx, location)
		if err != nil {
			return Dataset{}, err
		}
		return Decode(bytes.NewReader(data), FormatFromPath(location))
	default:
		f, err := os.Open(location)
		if err != nil {
			if os.IsNotExist(err) {
				return Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", location)
			}
			return Dataset{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", location)
		}
		defer f.Close()
		return Decode(f, FormatFromPath(location))
	}
}

// ParseS3 splits s3://bucket/key into its bucket and key.
func ParseS3(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "not an s3 location: %s", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "s3 location needs bucket and key: %s", location)
	}
	return bucket, key, nil
}

func (l *Loader) fetchS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3(location)
	if err != nil {
		return nil, err
	}
	if l.S3 == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load aws config")
		}
		l.S3 = s3.NewFromConfig(cfg)
	}

	start := time.Now()
	observability.Source().OnFetch(ctx, "s3", location)
	data, err := l.getObject(ctx, bucket, key)
	observability.Source().OnFetchComplete(ctx, "s3", location, len(data), time.Since(start), err)
	return data, err
}

func (l *Loader) getObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get s3://%s/%s", bucket, key)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read s3://%s/%s", bucket, key)
	}
	return data, nil
}
