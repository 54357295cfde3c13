package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context) error
	User(ctx context.Context, username string) error
	Inbox(ctx context.Context) error
	Outbox(ctx context.Context) error
	Send(ctx context.Context) error
	Read(ctx context.Context, id string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit"/"quit" or when ctx is done.
//
//	Not logged in: help, register, login, exit
//	Logged in:     help, users, user <name>, inbox, outbox, send,
//	               read <id>, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "messagely %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		if !a.isLoggedIn() && requiresLogin[cmd] {
			fmt.Fprintln(w, "Please log in first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: users, user <name>, inbox, outbox, send, read <id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "users":
			_ = a.Users(ctx)

		case "user":
			_ = a.User(ctx, arg)

		case "inbox":
			_ = a.Inbox(ctx)

		case "outbox":
			_ = a.Outbox(ctx)

		case "send":
			_ = a.Send(ctx)

		case "read":
			_ = a.Read(ctx, arg)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

var requiresLogin = map[string]bool{
	"logout": true,
	"users":  true,
	"user":   true,
	"inbox":  true,
	"outbox": true,
	"send":   true,
	"read":   true,
}
