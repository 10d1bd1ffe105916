package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sortlab/internal/algo"
)

// AlgorithmInfo describes one registered algorithm.
type AlgorithmInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// AlgorithmList is the output of the list command.
type AlgorithmList []AlgorithmInfo

func (l AlgorithmList) WriteText(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE")
	for _, a := range l {
		fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.Title)
	}
	tw.Flush()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered algorithms",
		Long: `List the registered sorting algorithms in registration order.

Examples:
  sortlab list
  sortlab list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := algo.All()
			list := make(AlgorithmList, len(all))
			for i, a := range all {
				list[i] = AlgorithmInfo{Name: a.Name, Title: a.Title}
			}
			return newFormatter(cmd, rootOpts).Success(list)
		},
	}
}
