package main

import (
	"fmt"

	"simply/frontend"
	"simply/util"

	"github.com/spf13/cobra"
)

// newTokensCmd builds `simplyc tokens <file.simply>`: dumps the token
// stream and exits, mirroring the teacher's -ts flag.
func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.simply>",
		Short: "Print the lexed token stream of a Simply source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := util.ReadSource(args[0])
			if err != nil {
				return fmt.Errorf("could not read source: %w", err)
			}
			for _, tok := range frontend.Tokens(src) {
				fmt.Println(tok)
			}
			return nil
		},
	}
}
