package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tbxark/slotagent/agent"
	"github.com/tbxark/slotagent/config"
	"github.com/tbxark/slotagent/store"
)

var sessionKey string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start or resume an information collection conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path := logFile
		if path == "" {
			path = conf.LogFile
		}
		closer := setupLogging(path, verbose)
		defer closer.Close()
		if sessionKey == "" {
			sessionKey = uuid.NewString()
		}
		return startChat(cmd.Context(), conf, sessionKey, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVarP(&sessionKey, "session", "s", "", "conversation key; reuse it to resume (default: random)")
}

func startChat(ctx context.Context, conf *config.Config, key string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = agent.WithStateKey(ctx, key)
	slog.Info("Starting chat", "session", key, "config", conf.String())

	fields, err := loadSchema(conf.Schema)
	if err != nil {
		return err
	}
	cm, err := conf.NewChatModel(ctx)
	if err != nil {
		return err
	}
	cache, err := store.NewFileCache(conf.StoreDir)
	if err != nil {
		return err
	}
	flow, err := agent.NewToolBasedFlow(store.NewStateStore(cache), cm)
	if err != nil {
		return err
	}

	done := false
	slotAgent := agent.NewAgent(
		"ContactCollector",
		"An agent that collects contact details through conversation",
		flow,
		fields,
		agent.WithResponseHook(func(ctx context.Context, resp *agent.Response) {
			if !resp.Completed || len(resp.Collected) == 0 {
				return
			}
			done = true
			data, mErr := sonic.ConfigStd.MarshalIndent(resp.Collected, "", "  ")
			if mErr != nil {
				slog.Warn("encode collected data failed", "err", mErr)
				return
			}
			fmt.Fprintf(out, "\n%s\n", data)
		}),
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: slotAgent})

	fmt.Fprintf(out, "Session: %s (resume with --session %s)\n", key, key)
	if err := runTurn(ctx, runner, "", out); err != nil {
		return err
	}
	reader := bufio.NewReader(in)
	for !done {
		fmt.Fprint(out, "You: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Fprintln(out, "\nInput closed. Progress is saved for this session.")
			return nil
		}
		if err := runTurn(ctx, runner, strings.TrimSpace(input), out); err != nil {
			return err
		}
	}
	return nil
}

func runTurn(ctx context.Context, runner *adk.Runner, input string, out io.Writer) error {
	iter := runner.Run(ctx, []adk.Message{schema.UserMessage(input)})
	for {
		event, ok := iter.Next()
		if !ok {
			return nil
		}
		if event.Err != nil {
			return event.Err
		}
		if event.Output == nil || event.Output.MessageOutput == nil {
			continue
		}
		msg, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAssistant: %s\n======\n", msg.Content)
	}
}
