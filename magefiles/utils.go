//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/magefile/mage/mg"
)

type command struct {
	name   string
	args   []string
	dir    string
	env    []string
	stream bool
}

type commandOption func(*command)

func withArgs(args ...string) commandOption {
	return func(c *command) {
		c.args = append(c.args, args...)
	}
}

func withDir(dir string) commandOption {
	return func(c *command) {
		c.dir = dir
	}
}

// withEnv adds KEY=VALUE pairs on top of the current environment.
func withEnv(kv ...string) commandOption {
	return func(c *command) {
		c.env = append(c.env, kv...)
	}
}

func withStream() commandOption {
	return func(c *command) {
		c.stream = true
	}
}

// executeCmd runs name and returns its combined output. Output is echoed
// when streaming or when mage runs verbose, and dumped on failure otherwise.
func executeCmd(name string, options ...commandOption) (string, error) {
	c := &command{name: name}
	for _, o := range options {
		o(c)
	}

	log.Info("executing", "cmd", strings.TrimSpace(name+" "+strings.Join(c.args, " ")), "dir", c.dir)
	cmd := exec.Command(c.name, c.args...)
	cmd.Dir = c.dir
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	echo := mg.Verbose() || c.stream

	var out bytes.Buffer
	if echo {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}
	if err := cmd.Run(); err != nil {
		if !echo {
			log.Error("command failed", "cmd", name, "output", out.String())
		}
		return "", fmt.Errorf("error executing %s: %w", name, err)
	}
	return out.String(), nil
}

func goTidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return nil
}

func goVet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return fmt.Errorf("failed to run go vet: %w", err)
	}
	return nil
}
