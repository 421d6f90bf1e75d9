/*
Copyright © 2026 The p1db Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/p1data/p1db/pkg/match"
	"github.com/p1data/p1db/pkg/payload"
	"github.com/spf13/cobra"
)

// getMatchCmd returns the match command.
func getMatchCmd() *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match <school name>",
		Short: "Match a school name and print its P1 data",
		Long: `Resolve a free-form school name against the stored records and
print the matching rule together with the P1 data payload as JSON.

Examples:
  p1db match "Ai Tong"
  p1db match nanyang primary`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMatch(cmd, strings.Join(args, " "))
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return matchCmd
}

func runMatch(cmd *cobra.Command, name string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.All(ctx)
	if err != nil {
		return err
	}

	res, rule := payload.Lookup(match.New(recs), name)
	out, err := prettyJSON(res)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "rule: %s\n", rule)
	fmt.Fprintln(w, string(out))
	return nil
}

// prettyJSON encodes v and indents the result. Custom marshalers return
// compact bytes that the pretty encoder leaves as they are.
func prettyJSON(v any) ([]byte, error) {
	enc := gnfmt.GNjson{}
	out, err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, bytes.TrimSpace(out), "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
