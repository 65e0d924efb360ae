package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context, args []string) error
	Request(ctx context.Context, method string, args []string) error
	Upload(ctx context.Context, method string, args []string) error
	Download(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a.
//
//	help                                  show available commands
//	login | logout | status [-v]          session management, -v lists local state
//	get <path> | delete <path>            JSON requests
//	post|put|patch <path> [json]          JSON requests with a body
//	upload|uploadpatch <path> [field...]  multipart requests, field is name=value or name=@file
//	download <path> [dest]                save a file
//	open <path>                           open a file with the system viewer
//	exit | quit                           leave the program
//
// Command errors are printed and the loop continues. It returns on EOF, on
// exit/quit, or once ctx is canceled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("icho%s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: get, post, put, patch, delete, upload, uploadpatch, download, open, status, logout, exit")
			} else {
				printlnFn("Available commands: login, status, get, exit")
			}

		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "status":
			err = a.Status(ctx, args)

		case "get":
			err = a.Request(ctx, http.MethodGet, args)
		case "delete":
			err = a.Request(ctx, http.MethodDelete, args)
		case "post":
			err = a.Request(ctx, http.MethodPost, args)
		case "put":
			err = a.Request(ctx, http.MethodPut, args)
		case "patch":
			err = a.Request(ctx, http.MethodPatch, args)

		case "upload":
			err = a.Upload(ctx, http.MethodPost, args)
		case "uploadpatch":
			err = a.Upload(ctx, http.MethodPatch, args)
		case "download":
			err = a.Download(ctx, args)
		case "open":
			err = a.Open(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			report(err)
		}
	}
}
