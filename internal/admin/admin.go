// Package admin is the administrator control surface: a local textual
// command loop over the listener/supervisor, matching the command set
// spec.md §6 lists (".start", ".restart", ".shutdown", ".status",
// ".connections", ".log [--info|--error|--warn]", ".clear", ".help",
// ".end [--save]"). The GUI that would normally host this is explicitly
// out of scope (spec.md §1); what remains in scope is the command channel
// itself, grounded on the original implementation's
// core/ServerAdministrator.java + gui/CommandWindow.java, which show the
// console is a blocking read-eval loop over a line-oriented input, not a
// network service.
package admin

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/filevault/server/internal/listener"
	"github.com/filevault/server/internal/logger"
)

// Console runs the admin command loop against one supervisor.
type Console struct {
	sup        *listener.Supervisor
	log        *logger.Log
	serverName string
	out        io.Writer
	running    bool
}

// New builds a console. sup may be started/stopped repeatedly by the
// console's .start/.restart/.shutdown commands.
func New(sup *listener.Supervisor, log *logger.Log, serverName string, out io.Writer) *Console {
	return &Console{sup: sup, log: log, serverName: serverName, out: out, running: true}
}

// Run reads one command per line from in until EOF or .end succeeds.
func (c *Console) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := c.dispatch(line); done {
			return
		}
	}
}

// dispatch handles one command line, returning true when the console
// should stop reading further commands (a successful .end).
func (c *Console) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ".start":
		if c.running {
			fmt.Fprintln(c.out, "server is already running")
			return false
		}
		if err := c.sup.Start(); err != nil {
			fmt.Fprintf(c.out, "start failed: %v\n", err)
			return false
		}
		c.running = true
		fmt.Fprintln(c.out, "server started")

	case ".restart":
		if c.running {
			if err := c.sup.Stop(); err != nil {
				fmt.Fprintf(c.out, "stop failed: %v\n", err)
			}
		}
		if err := c.sup.Start(); err != nil {
			fmt.Fprintf(c.out, "restart failed: %v\n", err)
			return false
		}
		c.running = true
		fmt.Fprintln(c.out, "server restarted")

	case ".shutdown":
		if !c.running {
			fmt.Fprintln(c.out, "server is not running")
			return false
		}
		if err := c.sup.Stop(); err != nil {
			fmt.Fprintf(c.out, "shutdown failed: %v\n", err)
		}
		c.running = false
		fmt.Fprintln(c.out, "server stopped")

	case ".status":
		state := "stopped"
		if c.running {
			state = "running"
		}
		fmt.Fprintf(c.out, "%s: %s\n", c.serverName, state)

	case ".connections":
		for _, addr := range c.sup.Connections() {
			fmt.Fprintln(c.out, addr)
		}

	case ".log":
		level := logLevelFlag(args)
		for _, e := range c.log.Buffered(level) {
			fmt.Fprintf(c.out, "[%s] %s %s\n", e.Level, e.Time.Format("15:04:05"), e.Text)
		}

	case ".clear":
		c.log.Clear()
		fmt.Fprintln(c.out, "log buffer cleared")

	case ".help":
		fmt.Fprintln(c.out, ".start .restart .shutdown .status .connections .log [--info|--error|--warn] .clear .help .end [--save]")

	case ".end":
		if c.running {
			fmt.Fprintln(c.out, "refusing to end while the server is running; run .shutdown first")
			return false
		}
		if hasFlag(args, "--save") {
			if err := c.save(); err != nil {
				fmt.Fprintf(c.out, "save failed: %v\n", err)
				return false
			}
		}
		return true

	default:
		fmt.Fprintf(c.out, "unknown command %q\n", cmd)
	}
	return false
}

func (c *Console) save() error {
	f, err := os.Create(c.serverName + "-session.log")
	if err != nil {
		return err
	}
	defer f.Close()
	for _, e := range c.log.Buffered("") {
		fmt.Fprintf(f, "[%s] %s %s\n", e.Level, e.Time.Format(time.RFC3339), e.Text)
	}
	return nil
}

func logLevelFlag(args []string) logger.Level {
	switch {
	case hasFlag(args, "--info"):
		return logger.LevelInfo
	case hasFlag(args, "--error"):
		return logger.LevelError
	case hasFlag(args, "--warn"):
		return logger.LevelWarn
	default:
		return ""
	}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}
