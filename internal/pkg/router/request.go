package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 reads a path parameter as int64.
func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidFormat("param must be an integer value")
	}

	return value, nil
}

// GetQuery reads a trimmed query value.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt32 reads a query value as int32, zero when absent.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	value := r.GetQuery(key)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, goerror.NewInvalidFormat()
	}

	return int32(n), nil
}

// DecodeBody decodes the JSON body into dst, rejecting unknown fields and
// trailing data.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

// StreamSingleFile returns the first multipart part matching the form field,
// without buffering the whole upload in memory.
func (r *Request) StreamSingleFile(name string) (io.ReadCloser, *multipart.FileHeader, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil, goerror.NewInvalidFormat("invalid request content-type")
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, goerror.NewInvalidFormat()
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, goerror.NewInvalidFormat()
		}

		if part.FormName() == name {
			header := &multipart.FileHeader{
				Filename: part.FileName(),
				Header:   part.Header,
			}

			return part, header, nil
		}

		if _, err := io.Copy(io.Discard, part); err != nil {
			_ = part.Close()
			return nil, nil, goerror.NewInvalidFormat()
		}
		if err := part.Close(); err != nil {
			return nil, nil, goerror.NewInvalidFormat()
		}
	}

	return nil, nil, goerror.NewInvalidFormat("missing file field " + name)
}
