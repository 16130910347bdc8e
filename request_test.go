package minihttpd

import (
	"errors"
	"testing"
)

// TestParseRequest_Get tests that the URI of a GET request is returned
func TestParseRequest_Get(t *testing.T) {
	uri, err := ParseRequest("GET /a.txt HTTP/1.1\r\nHost: localhost\r\n\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uri != "/a.txt" {
		t.Errorf("expected '/a.txt', got %q", uri)
	}
}

// TestParseRequest_OtherMethods tests that only GET is accepted
func TestParseRequest_OtherMethods(t *testing.T) {
	for _, method := range []string{"POST", "HEAD", "PUT", "DELETE", "get"} {
		_, err := ParseRequest(method + " /a.txt HTTP/1.1\r\n\r\n")
		if !errors.Is(err, ErrMethodNotAllowed) {
			t.Errorf("%s: expected ErrMethodNotAllowed, got %v", method, err)
		}
	}
}

// TestParseRequest_Malformed tests request lines without exactly three tokens
func TestParseRequest_Malformed(t *testing.T) {
	for _, req := range []string{
		"",
		"\r\n\r\n",
		"GET\r\n\r\n",
		"GET /a.txt\r\n\r\n",
		"GET /a b HTTP/1.1\r\n\r\n",
		"POST /a.txt\r\n\r\n",
	} {
		_, err := ParseRequest(req)
		if !errors.Is(err, ErrMalformedRequest) {
			t.Errorf("%q: expected ErrMalformedRequest, got %v", req, err)
		}
	}
}

// TestParseRequestLine_OnlyFirstLine tests that headers are not consulted
func TestParseRequestLine_OnlyFirstLine(t *testing.T) {
	req, err := ParseRequestLine("GET  /dir/   HTTP/1.0\r\nX-Broken header line\r\n\r\nbody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Request{Method: "GET", URI: "/dir/", Proto: "HTTP/1.0"}
	if req != expected {
		t.Errorf("expected %+v, got %+v", expected, req)
	}
}
