package main

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/ioctx"
	"github.com/vito/redex/pkg/prelude"
)

var kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))

func declsCmd() *cobra.Command {
	var withTypes bool

	cmd := &cobra.Command{
		Use:   "decls",
		Short: "List the prelude declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := prelude.New()
			if err != nil {
				return err
			}
			stdout := ioctx.StdoutFromContext(cmd.Context())
			for _, name := range e.Names() {
				info, _ := e.Find(name)
				line := kindStyle.Render(info.Kind().String()) + " " + nameStyle.Render(string(name))
				if withTypes {
					line += dimStyle.Render(" : " + info.Base().Type.String())
				}
				if status := e.ReducibilityStatus(name); status != env.Semireducible {
					line += " " + dimStyle.Render("@["+status.String()+"]")
				}
				_, _ = lipgloss.Fprintln(stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withTypes, "types", "t", false, "Show each declaration's type")

	return cmd
}
