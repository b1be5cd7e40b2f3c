package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

type handler func(ctx context.Context, args []string) error

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool

	Signup(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	ChangeMaster(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error

	Add(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Hygiene(ctx context.Context, args []string) error

	Generate(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error

	Prefs(ctx context.Context, args []string) error
	SetPrefs(ctx context.Context, args []string) error

	Audit(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Cleanup(ctx context.Context, args []string) error
	AuditExport(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, analyze, exit"
	helpLoggedIn  = "Available commands: add <site>, get <site>, update <site>, delete <site>, (l)ist, hygiene,\n" +
		"  generate [random|memorable|pronounceable] [n], analyze, export <file|-> [fmt], import <file> [fmt],\n" +
		"  backup [dir|s3], restore <file>, prefs, setprefs <json>, audit [limit] [action], stats [days],\n" +
		"  cleanup [days], auditexport <file|-> [fmt], status, passwd, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// dispatches them to a. Handler errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]handler{
		"signup": a.Signup, "register": a.Signup,
		"login":  a.Login,
		"logout": a.Logout,
		"passwd": a.ChangeMaster,
		"status": a.Status,

		"add": a.Add, "get": a.Get, "show": a.Get,
		"update": a.Update, "delete": a.Delete,
		"l": a.List, "list": a.List,
		"hygiene": a.Hygiene,

		"generate": a.Generate, "gen": a.Generate,
		"analyze": a.Analyze,

		"export": a.Export, "import": a.Import,
		"backup": a.Backup, "restore": a.Restore,

		"prefs": a.Prefs, "setprefs": a.SetPrefs,

		"audit": a.Audit, "stats": a.Stats,
		"cleanup": a.Cleanup, "auditexport": a.AuditExport,
	}

	for {
		printlnFn(fmt.Sprintf("vault%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
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
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			h, ok := commands[cmd]
			if !ok {
				printlnFn("Unknown command:", cmd)
				break
			}
			if herr := h(ctx, args); herr != nil {
				printlnFn(describe(herr))
			}
		}

		if err != nil {
			return
		}
	}
}
