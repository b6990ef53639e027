package internal

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/baalimago/clask/internal/answer"
	"github.com/baalimago/clask/internal/history"
	"github.com/baalimago/clask/internal/models"
	"github.com/baalimago/clask/internal/repl"
	"github.com/baalimago/clask/internal/session"
	"github.com/baalimago/clask/internal/stub"
	"github.com/baalimago/clask/internal/typewriter"
	"github.com/baalimago/clask/internal/utils"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/joho/godotenv"
)

type Mode int

const (
	HELP Mode = iota
	INTERACTIVE
	QUERY
	STUB
	VERSION
)

const (
	clientConfigFile = "clientConfig.json"
	endpointEnv      = "CLASK_ENDPOINT"
)

// ClientConfig is stored as clientConfig.json in the config dir.
type ClientConfig struct {
	Endpoint         string `json:"endpoint"`
	TimeoutSeconds   int    `json:"timeout-seconds"`
	RevealIntervalMs int    `json:"reveal-interval-ms"`
	HistoryCapacity  int    `json:"history-capacity"`
	MaxQueryLength   int    `json:"max-query-length"`
	Raw              bool   `json:"raw"`
}

var DefaultClientConfig = ClientConfig{
	Endpoint:         answer.DefaultURL,
	TimeoutSeconds:   int(answer.DefaultTimeout / time.Second),
	RevealIntervalMs: int(typewriter.DefaultInterval / time.Millisecond),
	HistoryCapacity:  history.DefaultCapacity,
	MaxQueryLength:   session.DefaultMaxQueryLength,
}

var defaultFlags = Configurations{}

func getModeFromArgs(cmd string) (Mode, error) {
	switch cmd {
	case "interactive", "i":
		return INTERACTIVE, nil
	case "query", "q":
		return QUERY, nil
	case "stub":
		return STUB, nil
	case "help", "h":
		return HELP, nil
	case "version", "v":
		return VERSION, nil
	default:
		return HELP, fmt.Errorf("unknown command: '%s'", cmd)
	}
}

// loadDotEnv loads path into the environment, without overriding variables
// which are already set. A missing file is fine.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load '%v': %w", path, err)
	}
	return nil
}

// loadClientConfig builds the client config with precedence flags > env > file > default.
func loadClientConfig(confDir string, flagSet Configurations) (ClientConfig, error) {
	conf, err := utils.LoadConfigFromFile(confDir, clientConfigFile, &DefaultClientConfig)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("failed to load client config: %w", err)
	}
	if endpoint := os.Getenv(endpointEnv); endpoint != "" {
		conf.Endpoint = endpoint
	}
	applyFlagOverrides(&conf, flagSet, defaultFlags)
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("client config: %v\n", debug.IndentedJsonFmt(conf)))
	}
	return conf, nil
}

func setupSessionQuerier(confDir string, flagSet Configurations, query string) (models.Querier, error) {
	conf, err := loadClientConfig(confDir, flagSet)
	if err != nil {
		return nil, err
	}
	client := answer.New(conf.Endpoint, time.Duration(conf.TimeoutSeconds)*time.Second)
	ctrl := session.New(client,
		session.WithHistory(history.New(history.WithCapacity(conf.HistoryCapacity))),
		session.WithMaxQueryLength(conf.MaxQueryLength),
	)
	return repl.New(ctrl, repl.Config{
		Raw:            conf.Raw,
		Verbose:        flagSet.Verbose,
		Animate:        !conf.Raw && utils.IsTerminal(os.Stdout),
		RevealInterval: time.Duration(conf.RevealIntervalMs) * time.Millisecond,
		Query:          query,
	}), nil
}

type stubQuerier struct {
	srv  *stub.Server
	addr string
}

func (s *stubQuerier) Query(ctx context.Context) error {
	return s.srv.Serve(ctx, s.addr)
}

func setupStub(args []string) (models.Querier, error) {
	stubFlags := flag.NewFlagSet("stub", flag.ContinueOnError)
	addr := stubFlags.String("addr", stub.DefaultAddr, "Address to listen on.")
	answersPath := stubFlags.String("answers", "", "Path to a json file mapping queries to canned answers.")
	delay := stubFlags.Duration("delay", 0, "Time to wait before answering.")
	maxLen := stubFlags.Int("max-query-length", session.DefaultMaxQueryLength, "Reject queries longer than this.")
	if err := stubFlags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse stub args: %w", err)
	}
	var answers map[string]string
	if *answersPath != "" {
		var err error
		answers, err = stub.LoadAnswers(*answersPath)
		if err != nil {
			return nil, err
		}
	}
	srv := stub.New(answers)
	srv.Delay = *delay
	srv.MaxQueryLength = *maxLen
	return &stubQuerier{srv: srv, addr: *addr}, nil
}

// Setup parses args and returns the querier of the selected command. Commands
// which are done once setup is, such as help, return ErrUserInitiatedExit.
func Setup(ctx context.Context, usage string, args []string) (models.Querier, error) {
	flagSet, args, err := parseFlags(defaultFlags, args)
	if err != nil {
		return nil, err
	}
	mode := INTERACTIVE
	if len(args) > 0 {
		mode, err = getModeFromArgs(args[0])
		if err != nil {
			return nil, err
		}
		args = args[1:]
	}

	confDir, err := utils.GetClaskConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find config dir: %w", err)
	}
	if err := loadDotEnv(".env"); err != nil {
		ancli.PrintWarn(fmt.Sprintf("%v\n", err))
	}

	switch mode {
	case INTERACTIVE:
		return setupSessionQuerier(confDir, flagSet, "")
	case QUERY:
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return nil, errors.New("missing query, usage: clask q <text>")
		}
		return setupSessionQuerier(confDir, flagSet, query)
	case STUB:
		return setupStub(args)
	case HELP:
		fmt.Print(usage)
		return nil, utils.ErrUserInitiatedExit
	case VERSION:
		return printVersion()
	default:
		return nil, fmt.Errorf("unknown mode: %v", mode)
	}
}
