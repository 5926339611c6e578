package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/picogrid/engagement-sim/pkg/simulation"
)

// EnvPrefix prefixes the environment variables that override parameter
// defaults, e.g. ENGAGEMENT_MAX_TICKS.
const EnvPrefix = "ENGAGEMENT_"

// SkipPromptsEnv disables interactive prompts when set to "true".
const SkipPromptsEnv = EnvPrefix + "SKIP_PROMPTS"

// EnvKey returns the environment variable consulted for a parameter.
func EnvKey(name string) string {
	return EnvPrefix + strings.ToUpper(name)
}

// PromptForParameters gathers a value for each parameter. With prompts
// skipped, values come from the environment or the parameter defaults.
func PromptForParameters(params []simulation.Parameter) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	for _, param := range params {
		value, err := promptForParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		if value != nil {
			result[param.Name] = value
		}
	}

	return result, nil
}

func promptForParameter(param simulation.Parameter) (interface{}, error) {
	envValue := os.Getenv(EnvKey(param.Name))

	if os.Getenv(SkipPromptsEnv) == "true" {
		if envValue != "" {
			v, err := param.Parse(envValue)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", EnvKey(param.Name), err)
			}
			if err := param.Check(v); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", EnvKey(param.Name), err)
			}
			return v, nil
		}
		if param.Default != nil {
			return param.Parse(fmt.Sprint(param.Default))
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	if envValue != "" {
		if parsed, err := param.Parse(envValue); err == nil {
			param.Default = parsed
		}
	}

	switch param.Type {
	case simulation.TypeBoolean:
		return promptBoolean(param)
	case simulation.TypeString:
		if len(param.Options) > 0 {
			return promptSelect(param)
		}
	}
	return promptInput(param)
}

// promptInput covers every free-text type. The answer is parsed and range
// checked inside the survey validator so a bad value is asked again.
func promptInput(param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case simulation.TypeInteger, simulation.TypeFloat, simulation.TypeString, simulation.TypeDuration:
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}

	message := param.Description
	if param.Type == simulation.TypeDuration {
		message += " (e.g., 5m, 1h30m, 30s)"
	}
	prompt := &survey.Input{
		Message: message,
		Default: defaultString(param),
	}

	validate := func(val interface{}) error {
		str, _ := val.(string)
		if str == "" {
			if param.Required {
				return fmt.Errorf("a value is required")
			}
			return nil
		}
		v, err := param.Parse(str)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", param.Type, err)
		}
		return param.Check(v)
	}

	var answer string
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(validate)); err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	return param.Parse(answer)
}

func promptSelect(param simulation.Parameter) (string, error) {
	prompt := &survey.Select{
		Message: param.Description,
		Options: param.Options,
	}
	if d := defaultString(param); d != "" {
		prompt.Default = d
	}

	var result string
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func promptBoolean(param simulation.Parameter) (bool, error) {
	defaultBool := false
	switch v := param.Default.(type) {
	case bool:
		defaultBool = v
	case string:
		defaultBool, _ = strconv.ParseBool(v)
	}

	prompt := &survey.Confirm{
		Message: param.Description,
		Default: defaultBool,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func defaultString(param simulation.Parameter) string {
	switch v := param.Default.(type) {
	case nil:
		return ""
	case float64:
		if param.Type == simulation.TypeInteger {
			return strconv.Itoa(int(v))
		}
	case time.Duration:
		return v.String()
	}
	return fmt.Sprint(param.Default)
}
