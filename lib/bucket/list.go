// Copyright (C) 2021 The Shelf Authors.
//
// This file is part of Shelf.
//
// Shelf is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Shelf is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Shelf.  If not, see <https://www.gnu.org/licenses/>.

package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/defsub/shelf/config"
)

type Bucket struct {
	config config.BucketConfig
	s3     s3iface.S3API
}

type Object struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

// Connect to the configured S3 bucket.
// Tested: Wasabi, Backblaze, Minio
func Open(config config.BucketConfig) (*Bucket, error) {
	creds := credentials.NewStaticCredentials(
		config.AccessKeyID,
		config.SecretAccessKey, "")
	s3Config := &aws.Config{
		Credentials:      creds,
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true)}
	session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return NewWithAPI(config, s3.New(session)), nil
}

func NewWithAPI(config config.BucketConfig, api s3iface.S3API) *Bucket {
	return &Bucket{config: config, s3: api}
}

// URL is the s3 url of key in this bucket.
func (b *Bucket) URL(key string) string {
	return fmt.Sprintf("s3://%s/%s", b.config.BucketName, key)
}

// List returns all objects under the configured prefix, following
// continuation tokens.
func (b *Bucket) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	req := s3.ListObjectsV2Input{
		Bucket: aws.String(b.config.BucketName),
		Prefix: aws.String(b.config.ObjectPrefix)}
	err := b.s3.ListObjectsV2PagesWithContext(ctx, &req,
		func(resp *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range resp.Contents {
				objects = append(objects, Object{
					Key:          aws.StringValue(obj.Key),
					ETag:         aws.StringValue(obj.ETag),
					Size:         aws.Int64Value(obj.Size),
					LastModified: aws.TimeValue(obj.LastModified),
				})
			}
			return true
		})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", b.config.BucketName, err)
	}
	return objects, nil
}
