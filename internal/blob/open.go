package blob

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
)

// Target is a store plus the key prefix artifacts are written under.
type Target struct {
	Store  Store
	Prefix string
}

// Open resolves a sink URI:
//
//	file:///var/lib/ffbuilder/out      filesystem store rooted at the path
//	mem://                             in-memory store (tests, dry runs)
//	s3://bucket/prefix?region=eu-west-1&endpoint=http://minio:9000&path_style=true
//
// S3 credentials come from the default AWS chain unless AWS_ACCESS_KEY_ID is
// set.
func Open(ctx context.Context, uri string) (*Target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse sink uri: %w", err)
	}
	switch u.Scheme {
	case "file":
		root := u.Path
		if u.Host != "" && u.Host != "localhost" {
			root = u.Host + u.Path
		}
		s, err := NewFilesystem(root)
		if err != nil {
			return nil, err
		}
		return &Target{Store: s}, nil
	case "mem", "memory":
		return &Target{Store: NewMemory(), Prefix: cleanPrefix(u.Host + u.Path)}, nil
	case "s3":
		q := u.Query()
		s, err := NewS3(ctx, S3Config{
			Bucket:          u.Host,
			Region:          q.Get("region"),
			Endpoint:        q.Get("endpoint"),
			PathStyle:       strings.EqualFold(q.Get("path_style"), "true"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		})
		if err != nil {
			return nil, err
		}
		return &Target{Store: s, Prefix: cleanPrefix(u.Path)}, nil
	case "":
		return nil, fmt.Errorf("sink uri %q has no scheme (want file://, mem:// or s3://)", uri)
	default:
		return nil, fmt.Errorf("unknown sink scheme %q", u.Scheme)
	}
}

func cleanPrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// Key joins the target prefix with the given parts.
func (t *Target) Key(parts ...string) string {
	if t.Prefix != "" {
		parts = append([]string{t.Prefix}, parts...)
	}
	return path.Join(parts...)
}
