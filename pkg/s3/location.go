package s3

import (
	"errors"
	"fmt"
	"strings"
)

// Scheme prefixes every blob store URI
const Scheme = "s3://"

var ErrMalformedLocation = errors.New("malformed s3 location")

// Location addresses one object
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

// IsLocation reports whether uri should be resolved against the blob store
func IsLocation(uri string) bool {
	return strings.HasPrefix(uri, Scheme)
}

// ParseLocation splits s3://bucket/key on the first slash after the bucket
func ParseLocation(uri string) (Location, error) {
	if !IsLocation(uri) {
		return Location{}, fmt.Errorf("%w: %q does not start with %s", ErrMalformedLocation, uri, Scheme)
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, Scheme), "/")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q has no key", ErrMalformedLocation, uri)
	}
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %q has no bucket", ErrMalformedLocation, uri)
	}
	if key == "" {
		return Location{}, fmt.Errorf("%w: %q has no key", ErrMalformedLocation, uri)
	}

	return Location{Bucket: bucket, Key: key}, nil
}
