package minihttpd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

var headerEnd = []byte(crlf + crlf)

// Server answers one connection at a time from a Resolver.
type Server struct {
	config   *Config
	resolver *Resolver
	log      *slog.Logger
}

// New builds a Server serving config.RootDir. A nil logger uses
// slog.Default().
func New(ctx context.Context, config *Config, logger *slog.Logger) (*Server, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	fsys, err := NewJailFS(config.RootDir)
	if err != nil {
		return nil, err
	}
	return NewWithResolver(config, NewResolver(fsys, WithHidden(config.ShowHidden)), logger), nil
}

// NewWithResolver builds a Server around an existing resolver.
func NewWithResolver(config *Config, resolver *Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("server created", "root", resolver.fs, "listen", config.Listen)
	return &Server{config: config, resolver: resolver, log: logger}
}

// readRequest reads chunk-sized blocks until a short read, EOF, or the end
// of the header section. Requests over limit bytes are malformed.
func readRequest(r io.Reader, chunk, limit int) ([]byte, error) {
	buf := make([]byte, chunk)
	var req []byte
	for {
		n, err := r.Read(buf)
		req = append(req, buf[:n]...)
		if len(req) > limit {
			return req, fmt.Errorf("%w: request exceeds %d bytes", ErrMalformedRequest, limit)
		}
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		if err != nil {
			return req, err
		}
		if n < chunk || bytes.Contains(req, headerEnd) {
			return req, nil
		}
	}
}

// Handle computes the complete response for a raw request.
func (s *Server) Handle(raw []byte) ([]byte, int) {
	resp, err := s.handle(raw)
	if err != nil {
		s.log.Debug("request failed", "error", err)
		return ResponseFor(err), StatusCode(err)
	}
	return resp, StatusCode(nil)
}

func (s *Server) handle(raw []byte) ([]byte, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: request is not valid UTF-8", ErrMalformedRequest)
	}
	uri, err := ParseRequest(string(raw))
	if err != nil {
		return nil, err
	}
	res, err := s.resolver.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return ResponseOK(res.Content, res.MimeType), nil
}

// ServeConn reads one request from conn, writes the response and closes
// conn.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()
	st := time.Now()
	remote := conn.RemoteAddr().String()
	s.log.Debug("connection", "remote", remote)

	var resp []byte
	var code int
	raw, err := readRequest(conn, s.config.ChunkSize, s.config.MaxRequestBytes)
	if err != nil && !errors.Is(err, ErrMalformedRequest) {
		s.log.Error("read error", "remote", remote, "error", err)
		return
	}
	if err != nil {
		s.log.Warn("bad request", "remote", remote, "error", err)
		resp, code = ResponseBadRequest(), StatusCode(err)
	} else {
		resp, code = s.Handle(raw)
	}
	req, _ := ParseRequestLine(string(raw))
	if _, err := conn.Write(resp); err != nil {
		s.log.Error("write error", "remote", remote, "error", err)
		return
	}
	s.log.Info("accesslog", "method", req.Method, "uri", req.URI, "remote", remote, "status", code,
		"size", humanize.Bytes(uint64(len(resp))), "elapsed_ns", time.Since(st))
}

// Serve accepts connections on l and handles each before accepting the
// next. Cancelling ctx closes l and Serve returns nil.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	defer l.Close()
	stop := context.AfterFunc(ctx, func() {
		s.log.Info("shutting down server")
		l.Close()
	})
	defer stop()
	for {
		s.log.Debug("waiting for a connection", "addr", l.Addr().String())
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Error("accept error", "error", err)
			return err
		}
		s.ServeConn(conn)
	}
}

// ListenAndServe listens on the configured address and serves until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := Listen(ctx, s.config.Listen)
	if err != nil {
		s.log.Error("listen error", "error", err)
		return err
	}
	s.log.Info("starting server", "addr", l.Addr().String())
	return s.Serve(ctx, l)
}
