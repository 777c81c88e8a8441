// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrDictBtreeUtil is a parent error for all command errors.
var ErrDictBtreeUtil = errors.New("dictbtreeutil")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDictBtreeUtil)

var copyrightNames = []string{
	"2025 dictkit authors",
}

//nolint:gochecknoinits // init needed for the global help-flag override.
func init() {
	// Set the HelpFlag to a random name so it isn't used as a normal
	// flag. `cli` handles a bare `--help` on the root command as
	// taking a command-name argument, which produces a confusing
	// "command foo not found" error instead of showing help.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check panics on a non-nil error. Used only for errors that indicate
// a bug in this tool's own flag/command wiring, never for user input.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Build and query a persistent B-tree headword index.",
		Description: strings.Join([]string{
			"dictbtreeutil builds, imports into, and queries the on-disk",
			"B-tree index used by a dictionary lookup system.",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}
			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			buildCommand,
			importCommand,
			lookupCommand,
			prefixCommand,
			stemCommand,
		},
	}
}
