package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/wtnb75/minihttpd"
)

// scan:
//   - walk the webroot, resolve every entry as its URI would be
//   - report the status it would be served with
//
// get:
//   - render the full response to a request line, without a socket

func scan(resolver *minihttpd.Resolver, fsys fs.FS, problemsOnly bool) (int, error) {
	problems := 0
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		uri := "/"
		if path != "." {
			uri += path
		}
		res, err := resolver.Resolve(uri)
		code := minihttpd.StatusCode(err)
		if code != http.StatusOK {
			problems++
			slog.Warn("not servable", "uri", uri, "status", code, "error", err)
			return nil
		}
		if !problemsOnly {
			slog.Info("servable", "uri", uri, "type", res.MimeType, "size", humanize.Bytes(uint64(len(res.Content))))
		}
		return nil
	})
	return problems, err
}

func main() {
	scanCmd := flag.NewFlagSet("scan", flag.ExitOnError)
	scandir := scanCmd.String("dir", "", "webroot directory")
	scanhidden := scanCmd.Bool("hidden", false, "list entries starting with a dot")
	problems := scanCmd.Bool("problems", false, "report only entries that cannot be served")
	getCmd := flag.NewFlagSet("get", flag.ExitOnError)
	getdir := getCmd.String("dir", "", "webroot directory")
	gethidden := getCmd.Bool("hidden", false, "list entries starting with a dot")
	request := getCmd.String("request", "GET / HTTP/1.1", "request line")

	args := os.Args[1:]
	if len(args) == 0 {
		slog.Error("subcommand is required")
		os.Exit(2)
	}

	var fset *flag.FlagSet
	var dir *string
	var hidden *bool
	switch args[0] {
	case "scan":
		fset, dir, hidden = scanCmd, scandir, scanhidden
	case "get":
		fset, dir, hidden = getCmd, getdir, gethidden
	default:
		slog.Error("unknown subcommand", "subcommand", args[0])
		os.Exit(2)
	}
	if err := fset.Parse(args[1:]); err != nil {
		slog.Error("parse error", "error", err)
		os.Exit(2)
	}
	if *dir == "" {
		slog.Error("dir is required")
		os.Exit(2)
	}
	fsys, err := minihttpd.NewJailFS(*dir)
	if err != nil {
		slog.Error("webroot error", "dir", *dir, "error", err)
		os.Exit(1)
	}
	resolver := minihttpd.NewResolver(fsys, minihttpd.WithHidden(*hidden))

	if scanCmd.Parsed() {
		n, err := scan(resolver, fsys, *problems)
		if err != nil {
			slog.Error("walk failed", "dir", *dir, "error", err)
			os.Exit(1)
		}
		if n != 0 {
			slog.Warn("webroot has entries that cannot be served", "count", n)
			os.Exit(1)
		}
		return
	}

	config := minihttpd.CreateConfig()
	config.RootDir = *dir
	server := minihttpd.NewWithResolver(config, resolver, nil)
	resp, code := server.Handle([]byte(*request + "\r\n\r\n"))
	slog.Debug("response", "status", code)
	if _, err := os.Stdout.Write(resp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
