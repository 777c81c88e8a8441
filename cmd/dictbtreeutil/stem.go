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

var stemCommand = &cli.Command{
	Name:      "stem",
	Usage:     "Search for headwords matching a stemmed (suffix-chopped) target",
	ArgsUsage: "IDXFILE WORD",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "min-length",
			Usage: "never chop the target shorter than this many runes",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "max-variation",
			Usage: "maximum number of trailing runes to chop off",
			Value: 2,
		},
		&cli.IntFlag{
			Name:  "max-results",
			Usage: "stop after this many results (0 for unlimited)",
			Value: 20,
		},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("%w: expected IDXFILE and WORD arguments", ErrFlagParse)
		}
		return runStem(c.Args().Get(0), c.Args().Get(1), c.Int("min-length"), c.Int("max-variation"), c.Int("max-results"))
	},
}

func runStem(idxPath, word string, minLength, maxVariation, maxResults int) error {
	r, f, err := openReader(idxPath)
	if err != nil {
		return err
	}
	defer f.Close()

	req := r.StemmedMatch(word, minLength, maxVariation, maxResults)
	results := req.Results()
	if err := req.Err(); err != nil {
		return fmt.Errorf("searching for %q: %w", word, err)
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}

	tbl := table.New("Word", "Article Offset")
	for _, link := range results {
		tbl.AddRow(link.Word, link.ArticleOffset)
	}
	tbl.Print()
	return nil
}
