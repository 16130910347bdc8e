package minihttpd

import (
	"net/http"
	"strconv"
)

const crlf = "\r\n"

func statusLine(code int) string {
	return "HTTP/1.1 " + strconv.Itoa(code) + " " + http.StatusText(code)
}

// ResponseOK returns a 200 response carrying body as mimetype.
func ResponseOK(body []byte, mimetype string) []byte {
	head := statusLine(http.StatusOK) + crlf + "Content-Type: " + mimetype + crlf + crlf
	resp := make([]byte, 0, len(head)+len(body))
	resp = append(resp, head...)
	return append(resp, body...)
}

func canned(code int) []byte {
	return []byte(statusLine(code) + crlf + crlf)
}

func ResponseBadRequest() []byte           { return canned(http.StatusBadRequest) }
func ResponseNotFound() []byte             { return canned(http.StatusNotFound) }
func ResponseMethodNotAllowed() []byte     { return canned(http.StatusMethodNotAllowed) }
func ResponseUnsupportedMediaType() []byte { return canned(http.StatusUnsupportedMediaType) }

// ResponseFor returns the canned response matching the kind of err.
func ResponseFor(err error) []byte {
	switch StatusCode(err) {
	case http.StatusMethodNotAllowed:
		return ResponseMethodNotAllowed()
	case http.StatusNotFound:
		return ResponseNotFound()
	case http.StatusUnsupportedMediaType:
		return ResponseUnsupportedMediaType()
	}
	return ResponseBadRequest()
}
