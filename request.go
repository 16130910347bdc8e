package minihttpd

import (
	"fmt"
	"strings"
)

type Request struct {
	Method string
	URI    string
	Proto  string
}

// ParseRequestLine splits the first line of request into its three tokens.
// Headers and body are ignored.
func ParseRequestLine(request string) (Request, error) {
	first, _, _ := strings.Cut(request, crlf)
	tokens := strings.Fields(first)
	if len(tokens) != 3 {
		return Request{}, fmt.Errorf("%w: request line %q has %d tokens", ErrMalformedRequest, first, len(tokens))
	}
	return Request{Method: tokens[0], URI: tokens[1], Proto: tokens[2]}, nil
}

// ParseRequest returns the URI of a GET request.
func ParseRequest(request string) (string, error) {
	req, err := ParseRequestLine(request)
	if err != nil {
		return "", err
	}
	if req.Method != "GET" {
		return "", fmt.Errorf("%w: %s", ErrMethodNotAllowed, req.Method)
	}
	return req.URI, nil
}
