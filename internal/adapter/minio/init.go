package minio

import (
	"net/url"
	"strings"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

func init() {
	setup.Sink.Register("minio", func(u *url.URL) (port.Sink, error) {
		conf, client, err := FromDSN(u)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewSink(client, conf.Bucket, conf.Prefix), nil
	})

	setup.HandoffStore.Register("minio", func(u *url.URL) (port.HandoffStore, error) {
		conf, client, err := FromDSN(u)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewHandoffStore(client, conf.Bucket, conf.Prefix), nil
	})
}

type Config struct {
	Endpoint string
	Bucket   string
	Prefix   string
	Options  minio.Options
}

// FromDSN parses minio://<id>:<secret>@<host>/<prefix>?bucket=<bucket>&region=<region>&secure=<bool>&token=<token>
func FromDSN(dsn *url.URL) (*Config, *minio.Client, error) {
	// Configure functions consume the parameters they handle
	dsn = cloneURL(dsn)

	conf := &Config{}

	configurations := []ConfigureFunc{
		configureBucket,
		configureCredentials,
		configureRegion,
		configureEndpoint,
	}

	for _, configure := range configurations {
		if err := configure(dsn, conf); err != nil {
			return nil, nil, errors.WithStack(err)
		}
	}

	conf.Prefix = strings.Trim(dsn.Path, "/")

	client, err := minio.New(conf.Endpoint, &conf.Options)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return conf, client, nil
}

type ConfigureFunc func(dsn *url.URL, conf *Config) error

const (
	paramToken = "token"
)

func configureCredentials(dsn *url.URL, conf *Config) error {
	query := dsn.Query()

	if dsn.User != nil {
		id := dsn.User.Username()
		secret, _ := dsn.User.Password()
		token := query.Get(paramToken)

		dsn.User = nil
		query.Del(paramToken)

		conf.Options.Creds = credentials.NewStaticV4(id, secret, token)
	}

	dsn.RawQuery = query.Encode()

	return nil
}

const (
	paramBucket = "bucket"
)

func configureBucket(dsn *url.URL, conf *Config) error {
	query := dsn.Query()

	bucket := "pdfsplit"
	if query.Has(paramBucket) {
		bucket = query.Get(paramBucket)
		query.Del(paramBucket)
		dsn.RawQuery = query.Encode()
	}

	conf.Bucket = bucket

	return nil
}

const (
	paramRegion = "region"
)

func configureRegion(dsn *url.URL, conf *Config) error {
	query := dsn.Query()

	region := "us-east-1"
	if query.Has(paramRegion) {
		region = query.Get(paramRegion)
		query.Del(paramRegion)
		dsn.RawQuery = query.Encode()
	}

	conf.Options.Region = region

	return nil
}

const (
	paramSecure = "secure"
)

func configureEndpoint(dsn *url.URL, conf *Config) error {
	if dsn.Host == "" {
		return errors.New("missing minio endpoint")
	}

	query := dsn.Query()

	conf.Endpoint = dsn.Host

	if query.Get(paramSecure) == "true" {
		conf.Options.Secure = true
	}

	query.Del(paramSecure)
	dsn.RawQuery = query.Encode()

	return nil
}

func cloneURL(u *url.URL) *url.URL {
	cloned := *u
	if u.User != nil {
		user := *u.User
		cloned.User = &user
	}
	return &cloned
}
