package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidDestination = errors.New("invalid destination")

// Sink receives one export snapshot.
type Sink interface {
	Write(ctx context.Context, data []byte) error
	// Location describes where the data ends up, for messages.
	Location() string
}

// Destination is a parsed export target.
type Destination struct {
	Bucket string
	Key    string
	Path   string
}

// IsS3 reports whether d names an S3 object.
func (d Destination) IsS3() bool {
	return d.Bucket != ""
}

// ParseDestination splits dest into an S3 bucket and key or a file path.
func ParseDestination(dest string) (Destination, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return Destination{}, fmt.Errorf("%w: empty", ErrInvalidDestination)
	}
	if !strings.HasPrefix(dest, "s3://") {
		return Destination{Path: dest}, nil
	}

	u, err := url.Parse(dest)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return Destination{}, fmt.Errorf("%w: want s3://bucket/key, got %q", ErrInvalidDestination, dest)
	}
	return Destination{Bucket: u.Host, Key: key}, nil
}

// NewSink returns the sink for dest.
func NewSink(ctx context.Context, dest string, opts S3Options) (Sink, error) {
	d, err := ParseDestination(dest)
	if err != nil {
		return nil, err
	}
	if d.IsS3() {
		return NewS3Sink(ctx, opts, d.Bucket, d.Key)
	}
	return NewFileSink(d.Path), nil
}
