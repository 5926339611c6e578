package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/engagement-sim/pkg/simulation"
	"github.com/picogrid/engagement-sim/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulations",
	Long:  `List all available simulations with their descriptions`,
	RunE:  listSimulations,
}

func init() {
	listCmd.Flags().BoolP("verbose", "v", false, "show parameters")
}

func listSimulations(cmd *cobra.Command, args []string) error {
	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return fmt.Errorf("failed to discover simulations: %w", err)
	}

	if len(simInfos) == 0 {
		fmt.Println("No simulations found")
		return nil
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	registered := simulation.DefaultRegistry.List()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tREGISTERED\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t----------\t-----------")

	for _, info := range simInfos {
		status := "no"
		for _, name := range registered {
			if strings.EqualFold(name, info.Config.Name) {
				status = "yes"
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			info.Config.Name,
			info.Config.Version,
			info.Config.Category,
			status,
			info.Config.Description,
		)
		if verbose {
			for _, p := range info.Config.Parameters {
				_, _ = fmt.Fprintf(w, "  %s\t%s\t%v\t\t%s\n", p.Name, p.Type, p.Default, p.Description)
			}
		}
	}

	return w.Flush()
}
