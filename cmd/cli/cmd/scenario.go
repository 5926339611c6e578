package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/engagement-sim/pkg/config"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage the scenario library",
	Long:  `Manage named scenario files so runs can refer to them by name`,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE:  listScenarios,
}

var scenarioAddCmd = &cobra.Command{
	Use:   "add [name] [path]",
	Short: "Add a scenario file to the library",
	Args:  cobra.MaximumNArgs(2),
	RunE:  addScenario,
}

var scenarioRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a scenario from the library",
	Args:  cobra.MaximumNArgs(1),
	RunE:  removeScenario,
}

var scenarioSelectCmd = &cobra.Command{
	Use:   "select [name]",
	Short: "Select the scenario runs default to",
	Args:  cobra.MaximumNArgs(1),
	RunE:  selectScenario,
}

func init() {
	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioAddCmd)
	scenarioCmd.AddCommand(scenarioRemoveCmd)
	scenarioCmd.AddCommand(scenarioSelectCmd)
}

func listScenarios(cmd *cobra.Command, args []string) error {
	lib, err := config.LoadLibrary()
	if err != nil {
		return err
	}

	if len(lib.Scenarios) == 0 {
		fmt.Println("No scenarios saved")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\tNAME\tPATH\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "\t----\t----\t-----------")

	for _, e := range lib.Scenarios {
		mark := ""
		if e.Name == lib.Selected {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, e.Name, e.Path, e.Description)
	}

	return w.Flush()
}

func addScenario(cmd *cobra.Command, args []string) error {
	lib, err := config.LoadLibrary()
	if err != nil {
		return err
	}

	var entry config.ScenarioEntry
	if len(args) > 0 {
		entry.Name = args[0]
	} else {
		namePrompt := &survey.Input{Message: "Scenario name:"}
		if err := survey.AskOne(namePrompt, &entry.Name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if len(args) > 1 {
		entry.Path = args[1]
	} else {
		pathPrompt := &survey.Input{
			Message: "Scenario file:",
			Suggest: func(toComplete string) []string {
				files, _ := filepath.Glob(toComplete + "*")
				return files
			},
		}
		if err := survey.AskOne(pathPrompt, &entry.Path, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	doc, err := scenario.LoadFile(entry.Path)
	if err != nil {
		return err
	}
	entry.Description = doc.CurrentScenario.Name

	if err := lib.Add(entry); err != nil {
		return err
	}
	if len(lib.Scenarios) == 1 {
		lib.Selected = entry.Name
	}
	if err := lib.Save(); err != nil {
		return err
	}

	logger.Successf("Scenario %s added", entry.Name)
	return nil
}

func removeScenario(cmd *cobra.Command, args []string) error {
	lib, err := config.LoadLibrary()
	if err != nil {
		return err
	}

	if len(lib.Scenarios) == 0 {
		fmt.Println("No scenarios to remove")
		return nil
	}

	selected, err := pickScenario(lib, args, "Select scenario to remove:")
	if err != nil {
		return err
	}

	if len(args) == 0 {
		var confirm bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Removal cancelled")
			return nil
		}
	}

	if err := lib.Remove(selected); err != nil {
		return err
	}
	if err := lib.Save(); err != nil {
		return err
	}

	logger.Successf("Scenario %s removed", selected)
	return nil
}

func selectScenario(cmd *cobra.Command, args []string) error {
	lib, err := config.LoadLibrary()
	if err != nil {
		return err
	}
	if len(lib.Scenarios) == 0 {
		return fmt.Errorf("no scenarios saved, add one with 'engagement-sim scenario add'")
	}

	selected, err := pickScenario(lib, args, "Select default scenario:")
	if err != nil {
		return err
	}
	if err := lib.Select(selected); err != nil {
		return err
	}
	if err := lib.Save(); err != nil {
		return err
	}

	logger.Successf("Runs now default to %s", lib.Selected)
	return nil
}

func pickScenario(lib *config.Library, args []string, message string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	var selected string
	prompt := &survey.Select{
		Message: message,
		Options: lib.Names(),
	}
	if lib.Selected != "" {
		prompt.Default = lib.Selected
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}
