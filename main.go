package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/clask/internal"
	"github.com/baalimago/clask/internal/repl"
	"github.com/baalimago/clask/internal/session"
	"github.com/baalimago/clask/internal/stub"
	"github.com/baalimago/clask/internal/utils"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
)

const usage = `clask - (c)ommand (l)ine (ask)

Ask questions about Luke Skywalker, and watch the answers get typed out.

Prerequisites:
  - An answer service, reachable at the endpoint. Run 'clask stub' for a local one.
  - (Optional) Set the CLASK_ENDPOINT environment variable, or put it in a .env file, to override the configured endpoint
  - (Optional) Set the NO_COLOR environment variable to disable ansi color output

Usage: clask [flags] <command>

Flags:
  -e, -endpoint string         Set the url of the answer service. (default is found in clientConfig.json)
  -t, -timeout int             Set the amount of seconds to wait for an answer. (default is found in clientConfig.json)
  -r, -raw bool                Set to true to print raw output (no typewriter, no animation). (default %v)
  -v, -verbose bool            Set to true to print record ids and error details. (default %v)

Commands:
  h|help                        Display this help message
  v|version                     Display version
  i|interactive                 Start asking questions interactively. This is the default command.
  q|query <text>                Ask a single question, then exit. Exits with status 1 if the answer is an error.
  stub [stub-flags]             Run a local answer service, which answers from a json file or echoes the question.
    -addr string                  Address to listen on. (default %v)
    -answers string               Path to json file of question -> answer.
    -delay duration               Time to wait before answering, such as '1.5s'.
    -max-query-length int         Reject questions longer than this. (default %v)

Interactive commands:
  :h, :history                  List recent questions
  :e, :examples                 List example questions
  :e <number>                   Load example question as draft, then press enter to ask it
  q, quit, exit                 Quit

Config dir: '%v'
  clientConfig.json             Endpoint, timeout, reveal speed, history capacity and max question length
  theme.json                    Colors

Examples:
  - clask stub -delay 1s
  - clask q "What is Luke Skywalker's relationship to Darth Vader?"
  - clask -e http://localhost:5000/ -r q Who trained Luke Skywalker?
  - clask -v i
`

func main() {
	ancli.SetupSlog()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configDirPath, err := utils.GetClaskConfigDir()
	if err != nil {
		ancli.Errf("failed to find config dir path: %v", err)
		return 1
	}

	err = utils.CreateConfigDir(configDirPath)
	if err != nil {
		ancli.Errf("failed to create config dir: %v", err)
		return 1
	}

	err = utils.LoadTheme(configDirPath)
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("theme: %v\n", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	querier, err := internal.Setup(ctx, fmt.Sprintf(usage, false, false, stub.DefaultAddr, session.DefaultMaxQueryLength, configDirPath), args)
	if err != nil {
		if errors.Is(err, utils.ErrUserInitiatedExit) {
			return 0
		}
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}
	go func() { shutdown.Monitor(cancel) }()
	err = querier.Query(ctx)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUserInitiatedExit):
			ancli.Okf("Seems like you wanted out. Byebye!\n")
			return 0
		case errors.Is(err, repl.ErrQueryFailed):
			return 1
		default:
			ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
			return 1
		}
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
	return 0
}
