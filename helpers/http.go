package helpers

import (
	"bytes"
	"io/ioutil"
	"net/http"
)

// MockHTTP is http.RoundTripper for sheet source tests.
// Fun handles request if set, otherwise Err or Status+Body is returned.
type MockHTTP struct {
	Fun    func(*http.Request) (*http.Response, error)
	Status int // default 200
	Body   []byte
	Err    error
}

func (m *MockHTTP) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.Fun != nil {
		return m.Fun(req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return MockResponse(req, m.Status, m.Body), nil
}

func (m *MockHTTP) Client() *http.Client { return &http.Client{Transport: m} }

func MockResponse(req *http.Request, status int, body []byte) *http.Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.0",
		ProtoMajor:    1,
		Header:        http.Header{"Content-Type": []string{"text/csv"}},
		Body:          ioutil.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
