package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Navigate(ctx context.Context, path string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Retag(ctx context.Context, id, names string) error
	Reingredient(ctx context.Context, id, names string) error
	UploadImage(ctx context.Context, id, path string) error
	Tags(ctx context.Context, args []string) error
	Ingredients(ctx context.Context, args []string) error
	Export(ctx context.Context, dest string) error
}

const (
	helpLoggedOut = "Available commands: register, login, home, go <path>, exit"
	helpLoggedIn  = "Available commands: home, profile, recipes [tags=1,2] [ingredients=3], create, edit <id>, " +
		"delete <id>, retag <id> <tag,...>, reingredient <id> <name,...>, image <id> <file>, tags, ingredients, export <dest>, go <path>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the recipebook CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Navigation commands (home, profile, recipes, create, edit, go) go through
// the router; the rest act directly.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "home":
			_ = a.Navigate(ctx, "/")

		case "profile":
			_ = a.Navigate(ctx, "/profile")

		case "create":
			_ = a.Navigate(ctx, "/create-recipe")

		case "recipes", "l", "list":
			path, err := recipesPath(args)
			if err != nil {
				printlnFn(err.Error())
				continue
			}
			_ = a.Navigate(ctx, path)

		case "go":
			if len(args) != 1 {
				printlnFn("Usage: go <path>")
				continue
			}
			_ = a.Navigate(ctx, args[0])

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "retag":
			if len(args) < 1 {
				printlnFn("Usage: retag <id> <tag,...>")
				continue
			}
			_ = a.Retag(ctx, args[0], strings.Join(args[1:], " "))

		case "reingredient":
			if len(args) < 1 {
				printlnFn("Usage: reingredient <id> <name,...>")
				continue
			}
			_ = a.Reingredient(ctx, args[0], strings.Join(args[1:], " "))

		case "image":
			if len(args) != 2 {
				printlnFn("Usage: image <id> <file>")
				continue
			}
			_ = a.UploadImage(ctx, args[0], args[1])

		case "tags":
			_ = a.Tags(ctx, args)

		case "ingredients":
			_ = a.Ingredients(ctx, args)

		case "export":
			if len(args) != 1 {
				printlnFn("Usage: export <file|s3://bucket/key>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

// recipesPath turns "tags=1,2 ingredients=3" into the list route location.
func recipesPath(args []string) (string, error) {
	q := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || (key != "tags" && key != "ingredients") || value == "" {
			return "", errors.New("Usage: recipes [tags=1,2] [ingredients=3]")
		}
		q.Set(key, value)
	}
	if len(q) == 0 {
		return "/my-recipes", nil
	}
	return "/my-recipes?" + q.Encode(), nil
}
