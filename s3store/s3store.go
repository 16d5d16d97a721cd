/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3store keeps standings artifacts in an S3 (or S3 compatible)
 * bucket. A Store serves two roles: it implements httpcache.Cache so fetched
 * standings pages can be cached across runs, and it publishes generated
 * tables under a stable key so they can be shared.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const cachePrefix = "webcache"

// ErrNotFound is returned by Fetch when the key does not exist.
var ErrNotFound = errors.New("object not found")

// Options tune how a Store connects. The zero value uses the default AWS
// configuration chain.
type Options struct {
	// Region overrides the region from the environment
	Region string
	// Endpoint points the client at an S3 compatible service such as R2 or
	// MinIO; path style addressing is used when set
	Endpoint string
	// AccessKeyID and SecretAccessKey select static credentials
	AccessKeyID     string
	SecretAccessKey string
	// Gzip compresses cache entries; their keys get a ".gz" suffix
	Gzip bool
	// LogErrors logs cache failures, which are otherwise silent misses
	LogErrors bool
}

// Store reads and writes objects in a single bucket.
type Store struct {
	// Config is the AWS configuration loaded by Init.
	Config aws.Config

	// Client is initialized by Init, but callers may replace it with their
	// own client.
	Client *s3.Client

	bucketName string
	opts       Options

	// used by the httpcache.Cache methods, which take no context
	ctx context.Context
}

// New returns a Store for bucketName. Callers must invoke Init() before use.
func New(ctx context.Context, bucketName string, opts Options) *Store {
	return &Store{
		ctx:        ctx,
		bucketName: bucketName,
		opts:       opts,
	}
}

// Bucket returns the bucket the store reads and writes.
func (s *Store) Bucket() string {
	return s.bucketName
}

// Init loads the AWS configuration and verifies the bucket is reachable and
// listable with the resulting credentials.
func (s *Store) Init() error {
	if s.bucketName == "" {
		return fmt.Errorf("s3store.init: no bucket configured")
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.opts.Region))
	}
	if s.opts.AccessKeyID != "" || s.opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKeyID,
				s.opts.SecretAccessKey, "")))
	}

	var err error
	s.Config, err = config.LoadDefaultConfig(s.ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(s.Config, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err = s.Client.HeadBucket(s.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w", s.bucketName, err)
	}

	if _, err = s.Client.ListObjectsV2(s.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w", s.bucketName, err)
	}

	return nil
}

// Put uploads body under key and returns the object's s3:// location.
func (s *Store) Put(ctx context.Context, key string, contentType string,
	body io.Reader) (string, error) {

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3store.put: failed to upload %v: %w", key, err)
	}

	return s.Location(key), nil
}

// Fetch downloads key, returning ErrNotFound when it does not exist.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%v: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("s3store.fetch: failed to get %v: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3store.fetch: failed to read %v: %w", key, err)
	}

	return data, nil
}

// Location returns the s3:// URL of key in the store's bucket.
func (s *Store) Location(key string) string {
	return fmt.Sprintf("s3://%v/%v", s.bucketName, strings.TrimPrefix(key, "/"))
}

// Get returns the cached response stored under key. It implements
// httpcache.Cache.
func (s *Store) Get(key string) ([]byte, bool) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.cacheKeyToObjectKey(key)),
	}

	resp, err := s.Client.GetObject(s.ctx, input)
	if err != nil {
		// no such key just indicates a cache miss
		if s.opts.LogErrors && !isNoSuchKey(err) {
			log.Printf("s3store.get: failed to get object %v%v: %v", *input.Bucket,
				*input.Key, err)
		}
		return []byte{}, false
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if s.opts.Gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			s.logf("s3store.get: failed to open compressed object %v%v: %v",
				*input.Bucket, *input.Key, err)
			return nil, false
		}
		defer rdr.Close()
	}

	data, err := io.ReadAll(rdr)
	if err != nil {
		s.logf("s3store.get: failed to read object %v%v: %v", *input.Bucket,
			*input.Key, err)
	}

	return data, err == nil
}

// Set stores data under key. It implements httpcache.Cache.
func (s *Store) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.cacheKeyToObjectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if s.opts.Gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			s.logf("s3store.set: failed to gzip data for %v%v: %v", *input.Bucket,
				*input.Key, err)
			return
		}
		if err := gw.Close(); err != nil {
			s.logf("s3store.set: failed to close gzip writer for %v%v: %v",
				*input.Bucket, *input.Key, err)
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(s.ctx, input); err != nil {
		s.logf("s3store.set: put failed for %v%v: %v", *input.Bucket, *input.Key, err)
	}
}

// Delete removes the entry stored under key. It implements httpcache.Cache.
func (s *Store) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.cacheKeyToObjectKey(key)),
	}

	if _, err := s.Client.DeleteObject(s.ctx, input); err != nil {
		s.logf("s3store.delete: delete failed: %v", err)
	}
}

func (s *Store) cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := "/" + path.Join(cachePrefix, hex.EncodeToString(h.Sum(nil)))
	if s.opts.Gzip {
		objKey += ".gz"
	}

	return objKey
}

func (s *Store) logf(format string, args ...any) {
	if s.opts.LogErrors {
		log.Printf(format, args...)
	}
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return code == "NoSuchKey" || code == "NotFound"
}

// PublishKey joins prefix and name into an object key.
func PublishKey(prefix string, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
