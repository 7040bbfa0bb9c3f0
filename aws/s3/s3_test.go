package s3

import (
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestNewObject(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		key    string
		expErr bool
	}{
		{uri: "s3://data/raw/sales.csv", bucket: "data", key: "raw/sales.csv"},
		{uri: "s3://data/x.csv", bucket: "data", key: "x.csv"},
		{uri: "s3://data", expErr: true},
		{uri: "s3:///x.csv", expErr: true},
		{uri: "data/x.csv", expErr: true},
	}
	for _, tst := range tests {
		o, err := NewObject(tst.uri)
		if tst.expErr {
			if err == nil {
				t.Fatalf("%s: expected error", tst.uri)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tst.uri, err)
		}
		if o.bucket != tst.bucket || o.key != tst.key {
			t.Fatalf("%s: got bucket %q key %q", tst.uri, o.bucket, o.key)
		}
		if o.String() != tst.uri {
			t.Fatalf("String() = %q, want %q", o.String(), tst.uri)
		}
	}
}

func TestObjectOpen(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"data/sales.csv": "Invoice ID\n1\n"}}
	o, err := NewObject("s3://data/sales.csv", OptObjClient(client), OptObjRegion("us-east-1"))
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	rc, err := o.Open()
	if err != nil {
		t.Fatalf("opening: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil || string(b) != "Invoice ID\n1\n" {
		t.Fatalf("reading: %q, %v", b, err)
	}

	o, _ = NewObject("s3://data/missing.csv", OptObjClient(client))
	if _, err := o.Open(); err == nil || !strings.Contains(err.Error(), "s3://data/missing.csv") {
		t.Fatalf("expected error naming the object, got %v", err)
	}
}
