// Command xsltc inspects the type coercion and code generation core: the
// conversion matrix, distances, unit slot layouts and the code emitted for
// individual conversions.
package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const configName = ".xsltc"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "xsltc",
		Short:         "Inspect the xsltc type lattice and code generation contexts",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/"+configName+".yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.StringP("output", "o", "", "Output format: json or text")
	flags.String("tie-policy", "first-declared", "Overload tie policy: first-declared or strict")
	flags.Bool("debug", false, "Log code generation events to stderr")
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("no-color", flags.Lookup("no-color"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("tie-policy", flags.Lookup("tie-policy"))
	viper.BindPFlag("debug", flags.Lookup("debug"))
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("tie-policy", cobra.FixedCompletions(
		tiePoliciesCompletion, cobra.ShellCompDirectiveNoFileComp))

	cmd.AddCommand(
		newMatrixCmd(),
		newDistanceCmd(),
		newConvertCmd(),
		newLayoutCmd(),
		newResolveCmd(),
	)
	return cmd
}

// initConfig reads the config file and environment. An explicitly named
// config file must exist; the default one is optional.
func initConfig() error {
	viper.SetEnvPrefix("XSLTC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
