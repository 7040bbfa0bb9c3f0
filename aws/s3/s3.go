// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package s3 opens CSV objects stored in Amazon S3.
package s3

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

const scheme = "s3://"

// IsURI reports whether s looks like s3://bucket/key.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ObjOption is a functional option type for Object.
type ObjOption func(o *Object)

// OptObjRegion is an ObjOption which sets the AWS region used to fetch the
// object.
func OptObjRegion(region string) ObjOption {
	return func(o *Object) {
		o.region = region
	}
}

// OptObjClient sets the S3 client. By default one is created from the
// environment's AWS configuration on the first Open.
func OptObjClient(c s3iface.S3API) ObjOption {
	return func(o *Object) {
		o.s3 = c
	}
}

// Object is a single S3 object which can be opened for reading. It satisfies
// csv.OpenStringer.
type Object struct {
	bucket string
	key    string
	region string

	s3 s3iface.S3API
}

// NewObject returns the Object named by uri, which must be of the form
// s3://bucket/key.
func NewObject(uri string, opts ...ObjOption) (*Object, error) {
	if !IsURI(uri) {
		return nil, errors.Errorf("not an s3 uri: %q", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, scheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("s3 uri needs a bucket and a key: %q", uri)
	}
	o := &Object{
		bucket: parts[0],
		key:    parts[1],
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Open fetches the object and returns its body.
func (o *Object) Open() (io.ReadCloser, error) {
	if o.s3 == nil {
		cfg := &aws.Config{}
		if o.region != "" {
			cfg.Region = aws.String(o.region)
		}
		sess, err := session.NewSession(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "getting aws session")
		}
		o.s3 = s3.New(sess)
	}
	result, err := o.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", o)
	}
	return result.Body, nil
}

// String returns the object's s3:// URI.
func (o *Object) String() string {
	return scheme + o.bucket + "/" + o.key
}
