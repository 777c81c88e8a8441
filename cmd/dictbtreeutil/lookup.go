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
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var lookupCommand = &cli.Command{
	Name:      "lookup",
	Usage:     "Look up a headword's exact match",
	ArgsUsage: "IDXFILE WORD",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("%w: expected IDXFILE and WORD arguments", ErrFlagParse)
		}
		return runLookup(c.Args().Get(0), c.Args().Get(1))
	},
}

func runLookup(idxPath, word string) error {
	r, f, err := openReader(idxPath)
	if err != nil {
		return err
	}
	defer f.Close()

	chain, err := r.FindArticles(word)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", word, err)
	}
	if len(chain) == 0 {
		fmt.Println("no match")
		return nil
	}

	tbl := table.New("Word", "Article Offset")
	for _, link := range chain {
		tbl.AddRow(link.Word, link.ArticleOffset)
	}
	tbl.Print()
	return nil
}
