package internal

import (
	"flag"
	"fmt"

	"github.com/baalimago/clask/internal/utils"
)

type Configurations struct {
	Endpoint string
	// TimeoutSeconds of 0 means no override.
	TimeoutSeconds int
	PrintRaw       bool
	Verbose        bool
}

// parseFlags parses CLI flags into an internal Configurations, and returns the
// remaining positional arguments.
func parseFlags(defaults Configurations, args []string) (Configurations, []string, error) {
	fs := flag.NewFlagSet("clask", flag.ContinueOnError)
	fs.String("A-helpful-nonexisting-flag", "there is no default", "This isn't a flag. It's only here to tell you that 'clask h/help' gives better overview of usage than 'clask -h'.")

	eShort := fs.String("e", defaults.Endpoint, "Set the url of the answer service. Mutually exclusive with endpoint flag.")
	eLong := fs.String("endpoint", defaults.Endpoint, "Set the url of the answer service. Mutually exclusive with e flag.")

	tShort := fs.Int("t", defaults.TimeoutSeconds, "Set the amount of seconds to wait for an answer. Mutually exclusive with timeout flag.")
	tLong := fs.Int("timeout", defaults.TimeoutSeconds, "Set the amount of seconds to wait for an answer. Mutually exclusive with t flag.")

	printRawShort := fs.Bool("r", defaults.PrintRaw, "Set to true to print raw output (no typewriter, no animation, no decorations).")
	printRawLong := fs.Bool("raw", defaults.PrintRaw, "Set to true to print raw output (no typewriter, no animation, no decorations).")

	verboseShort := fs.Bool("v", defaults.Verbose, "Set to true to print record ids and error details.")
	verboseLong := fs.Bool("verbose", defaults.Verbose, "Set to true to print record ids and error details.")

	err := fs.Parse(args)
	if err != nil {
		return Configurations{}, []string{}, fmt.Errorf("failed to parse args: %w", err)
	}

	endpoint, err := utils.ReturnNonDefault(*eShort, *eLong, defaults.Endpoint)
	if err != nil {
		return Configurations{}, []string{}, flagError(err, "e", "endpoint")
	}
	timeout, err := utils.ReturnNonDefault(*tShort, *tLong, defaults.TimeoutSeconds)
	if err != nil {
		return Configurations{}, []string{}, flagError(err, "t", "timeout")
	}
	if timeout < 0 {
		return Configurations{}, []string{}, fmt.Errorf("timeout must be positive, got: %v", timeout)
	}

	return Configurations{
		Endpoint:       endpoint,
		TimeoutSeconds: timeout,
		PrintRaw:       *printRawShort || *printRawLong,
		Verbose:        *verboseShort || *verboseLong,
	}, fs.Args(), nil
}

func flagError(err error, shortFlag, longFlag string) error {
	if utils.IsMutuallyExclusive(err) {
		return fmt.Errorf("flags: '%v' and '%v': %w", shortFlag, longFlag, err)
	}
	return fmt.Errorf("unexpected flag error: %w", err)
}

// applyFlagOverrides only sets the fields of conf whose flags differ from the
// defaults, so that the file config isn't overwritten by default flags. This
// keeps the convention flags > env > file > default.
func applyFlagOverrides(conf *ClientConfig, flagSet, defaultFlags Configurations) {
	if flagSet.Endpoint != defaultFlags.Endpoint {
		conf.Endpoint = flagSet.Endpoint
	}
	if flagSet.TimeoutSeconds != defaultFlags.TimeoutSeconds {
		conf.TimeoutSeconds = flagSet.TimeoutSeconds
	}
	if flagSet.PrintRaw != defaultFlags.PrintRaw {
		conf.Raw = flagSet.PrintRaw
	}
}
