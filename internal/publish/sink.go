// Package publish delivers generated data files to their destination.
//
// A Sink stores a payload under a slash separated key such as
// "ashrae_90_1/data/ashrae_90_1.materials.json". Keys are relative and never
// escape the sink root.
package publish

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Driver identifies a sink backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
	DriverMongo      Driver = "mongo"
)

// ContentTypeJSON is the content type of every generated data file.
const ContentTypeJSON = "application/json"

// Sink receives generated files. Put overwrites an existing key.
type Sink interface {
	Driver() Driver
	Put(ctx context.Context, key string, payload []byte, contentType string) error
	Close(ctx context.Context) error
}

// Config selects and configures a sink.
type Config struct {
	Driver Driver      `yaml:"driver"`
	Root   string      `yaml:"root"`
	S3     S3Config    `yaml:"s3"`
	Mongo  MongoConfig `yaml:"mongo"`
}

// Open builds the sink named by cfg.Driver. An empty driver means filesystem.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFSSink(cfg.Root)
	case DriverMemory:
		return NewMemorySink(), nil
	case DriverS3:
		return NewS3Sink(ctx, cfg.S3)
	case DriverMongo:
		return NewMongoSink(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported publish driver %q", cfg.Driver)
	}
}

// CleanKey normalizes key and rejects empty, absolute and traversing keys.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, "/../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}
