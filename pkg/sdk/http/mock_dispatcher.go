package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// MockDispatcher is a scripted Dispatcher for testing.
type MockDispatcher struct {
	mu sync.Mutex

	// Responses are returned in order, one per call. When exhausted the
	// mock answers 200 with an empty JSON array.
	Responses []*Response

	// Requests records every call in order.
	Requests []Request

	// ErrorOnCall injects an error for the given 1-based call number.
	ErrorOnCall map[int]error
}

// NewMockDispatcher creates an empty mock.
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{
		ErrorOnCall: make(map[int]error),
	}
}

// QueueJSON appends a 200 response with v encoded as the body.
func (m *MockDispatcher) QueueJSON(v any) *MockDispatcher {
	return m.QueueStatus(http.StatusOK, v)
}

// QueueStatus appends a response with the given status and v as JSON body.
func (m *MockDispatcher) QueueStatus(status int, v any) *MockDispatcher {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, &Response{StatusCode: status, Header: http.Header{}, Body: body})
	return m
}

// Calls returns the number of Dispatch calls so far.
func (m *MockDispatcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Dispatch implements Dispatcher. Status checking follows Client.
func (m *MockDispatcher) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, *req)
	n := len(m.Requests)
	if err, ok := m.ErrorOnCall[n]; ok {
		return nil, err
	}

	resp := &Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte("[]")}
	if len(m.Responses) > 0 {
		resp = m.Responses[0]
		m.Responses = m.Responses[1:]
	}
	if !accepted(resp.StatusCode, req.Accept) {
		return nil, &StatusError{Method: req.Method, URL: req.URL, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return resp, nil
}
