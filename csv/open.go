package csv

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Opener is an interface to a resource which can be Opened. Each call to
// Open should return a ReadCloser which reads from the beginning of the
// resource.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// OpenStringer is an Opener which also has a String method which should return
// the name of the resource being opened (e.g. a file or URL).
type OpenStringer interface {
	fmt.Stringer
	Opener
}

// URL returns an OpenStringer for a local file or an http(s) URL.
func URL(u string) OpenStringer {
	return urlOpener(u)
}

// urlOpener turns a URL or file (string) into an OpenStringer.
type urlOpener string

func (u urlOpener) Open() (io.ReadCloser, error) {
	url := string(u)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := http.Get(url)
		if err != nil {
			return nil, errors.Wrap(err, "getting via http")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.Errorf("getting via http: %s", resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(url)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

func (u urlOpener) String() string {
	return string(u)
}

// readerOpener serves a single reader. It is used in tests and for stdin.
type readerOpener struct {
	name string
	r    io.Reader
}

// Reader returns an OpenStringer which can be opened once and reads r.
func Reader(name string, r io.Reader) OpenStringer {
	return &readerOpener{name: name, r: r}
}

func (o *readerOpener) Open() (io.ReadCloser, error) {
	if o.r == nil {
		return nil, errors.Errorf("%s was already opened", o.name)
	}
	r := o.r
	o.r = nil
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

func (o *readerOpener) String() string { return o.name }
