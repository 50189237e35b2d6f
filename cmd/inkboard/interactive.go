package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd runs each input line as its own invocation so boards
// can be scripted step by step.
type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	cmd := &interactiveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.Var(&cmd.execs, "e", "execute a command and exit instead of reading stdin (may be repeated)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCmd) Run() error {
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			if err := c.dispatch(line); err != nil {
				return err
			}
		}
		return nil
	}
	fmt.Fprintln(os.Stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		if err := c.dispatch(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return scanner.Err()
}

func (c *interactiveCmd) dispatch(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 || args[0] == "interactive" {
		return nil
	}
	return c.root.Run(args)
}
