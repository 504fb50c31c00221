package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Toggle(ctx context.Context) error
	Delete(ctx context.Context) error
	Archive(ctx context.Context) error
	Fetch(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command and dispatches
// to methods on 'a'. Unknown commands are reported back. The loop exits on
// scanner EOF or when the user types "exit" or "quit". Errors from command
// handlers are ignored here; handlers print their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dossier %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, toggle, delete, archive, fetch, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}
		case "login":
			_ = a.Login(ctx)
		case "list", "l":
			_ = a.List(ctx)
		case "add":
			_ = a.Add(ctx)
		case "toggle":
			_ = a.Toggle(ctx)
		case "delete":
			_ = a.Delete(ctx)
		case "archive":
			_ = a.Archive(ctx)
		case "fetch":
			_ = a.Fetch(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command: " + cmd)
		}
	}
}
