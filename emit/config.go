package emit

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Conversion targets.
const (
	TargetBoth   = "both"
	TargetOpenAI = "openai"
	TargetGemini = "gemini"
)

// Flags holds CLI flag names for conversion configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Output string
	Indent string
	Target string
}

// Config holds CLI flag values for conversion configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags  Flags
	Output string
	Target string
	Indent int
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Output: "output",
		Indent: "indent",
		Target: "target",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds conversion flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.IntVar(&c.Indent, c.Flags.Indent, 2,
		"JSON indentation spaces")
	flags.StringVarP(&c.Target, c.Flags.Target, "t", TargetBoth,
		"schemas to emit, one of: both, openai, gemini")
}

// RegisterCompletions registers shell completions for conversion flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Target,
		cobra.FixedCompletions(
			[]string{TargetBoth, TargetOpenAI, TargetGemini},
			cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Target, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	regErr := cmd.RegisterFlagCompletionFunc(c.Flags.Indent, noFileComp)
	if regErr != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Indent, regErr)
	}

	return nil
}

// Validate checks flag values that cannot be verified by pflag itself.
func (c *Config) Validate() error {
	switch c.Target {
	case TargetBoth, TargetOpenAI, TargetGemini:
	default:
		return fmt.Errorf("%w: unknown target %q", ErrInvalidOption, c.Target)
	}

	if c.Indent < 0 {
		return fmt.Errorf("%w: indent must not be negative", ErrInvalidOption)
	}

	return nil
}
