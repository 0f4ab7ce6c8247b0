package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/juanfont/create-starter-kit/config"
	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pm, err := config.Get().ResolvePackageManager()
		if err != nil {
			return err
		}
		return printTemplates(cmd.OutOrStdout(), frameworks.Default(), pm)
	},
}

func printTemplates(w io.Writer, registry *frameworks.Registry, pm pkgmanager.Identity) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range registry.Frameworks() {
		fmt.Fprintf(tw, "%s\n", f.Label())
		for _, v := range f.Variants {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Name, v.Label(), v.Hint(pm))
		}
	}
	return tw.Flush()
}
