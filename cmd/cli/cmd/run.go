package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/engagement-sim/pkg/config"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/simulation"
	"github.com/picogrid/engagement-sim/pkg/utils"

	// Import simulations to register them
	_ "github.com/picogrid/engagement-sim/cmd/engagement/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long:  `Run a simulation interactively or with specified parameters`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
	runCmd.Flags().String("scenario", "", "scenario library name or file path")
	runCmd.Flags().String("run-config", "", "run configuration file (YAML)")
	runCmd.Flags().BoolP("yes", "y", false, "accept defaults without prompting")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return fmt.Errorf("failed to discover simulations: %w", err)
	}

	simName, err := selectSimulation(cmd, simInfos)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	info, err := utils.FindSimulation(simInfos, simName)
	if err != nil {
		return err
	}

	sim, err := simulation.DefaultRegistry.Get(info.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	parameters, scenarioFile, err := scenarioDefault(cmd, info.Config.Parameters)
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := os.Setenv(utils.SkipPromptsEnv, "true"); err != nil {
			return err
		}
	}

	var params map[string]interface{}
	if path, _ := cmd.Flags().GetString("params"); path != "" {
		params, err = utils.LoadParameterFile(path, parameters)
	} else {
		params, err = utils.PromptForParameters(parameters)
	}
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if scenarioFile != "" {
		params["scenario_file"] = scenarioFile
	}
	if path, _ := cmd.Flags().GetString("run-config"); path != "" {
		params["config_file"] = path
	}

	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		logger.Warn("Received interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
		}
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", sim.Name()))
	if err := sim.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Success("Simulation completed successfully")
	return nil
}

// scenarioDefault resolves the --scenario flag through the scenario
// library. Without the flag, the library's selected entry becomes the
// default of the scenario_file parameter.
func scenarioDefault(cmd *cobra.Command, params []simulation.Parameter) ([]simulation.Parameter, string, error) {
	lib, err := config.LoadLibrary()
	if err != nil {
		return nil, "", err
	}

	if ref, _ := cmd.Flags().GetString("scenario"); ref != "" {
		path, err := lib.Resolve(ref)
		if err != nil {
			return nil, "", err
		}
		return params, path, nil
	}

	path, err := lib.Resolve("")
	if errors.Is(err, config.ErrScenarioNotFound) {
		return params, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	out := make([]simulation.Parameter, len(params))
	copy(out, params)
	for i := range out {
		if out[i].Name == "scenario_file" {
			out[i].Default = path
		}
	}
	return out, "", nil
}

func selectSimulation(cmd *cobra.Command, simInfos []utils.SimulationInfo) (string, error) {
	// Check if simulation is specified via flag
	simName, _ := cmd.Flags().GetString("simulation")
	if simName != "" {
		return simName, nil
	}

	if len(simInfos) == 0 {
		return "", fmt.Errorf("no simulations found")
	}
	if len(simInfos) == 1 {
		return simInfos[0].Config.Name, nil
	}

	options := make([]string, len(simInfos))
	descriptions := make(map[string]string)
	for i, info := range simInfos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}
