package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ashureev/healthdash/internal/conversation"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/health"
	"github.com/spf13/cobra"
)

var chatSession string

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSession, "session", "cli", "session id sent to the agent")
}

const chatHelp = `Commands:
  /plan      show a meal plan for the bound user
  /refresh   reload logs for the bound user
  /status    show the health summary
  /quit      exit
Anything else is sent to the agent. Start with "My ID is <n>".`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the healthcare agent from the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		coord := conversation.NewCoordinator(client, conversation.Options{SessionID: chatSession})
		return runChat(cmd, coord)
	},
}

func runChat(cmd *cobra.Command, coord *conversation.Coordinator) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, chatHelp)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, chatHelp)
		case "/plan":
			plan, err := coord.GenerateMealPlan(ctx)
			if err != nil {
				printChatError(out, err)
				continue
			}
			fmt.Fprintln(out, plan.Text)
		case "/refresh":
			if err := coord.Refresh(ctx); err != nil {
				printChatError(out, err)
				continue
			}
			printStatus(out, coord.Snapshot())
		case "/status":
			printStatus(out, coord.Snapshot())
		default:
			before := len(coord.Snapshot().Messages)
			coord.Send(ctx, line)
			for _, m := range coord.Snapshot().Messages[before:] {
				if m.Sender != domain.SenderAgent {
					continue
				}
				if m.IsError() {
					fmt.Fprintln(out, "! "+m.Text)
				} else {
					fmt.Fprintln(out, m.Text)
				}
			}
		}
	}
}

func printChatError(out io.Writer, err error) {
	if errors.Is(err, conversation.ErrNotBound) {
		fmt.Fprintln(out, `! No user bound yet. Say "My ID is <n>" first.`)
		return
	}
	fmt.Fprintf(out, "! %v\n", err)
}

func printStatus(out io.Writer, snap conversation.Snapshot) {
	if !snap.Bound() {
		fmt.Fprintln(out, "No user bound.")
		return
	}
	t := snap.Timelines
	glucose := "no readings"
	if g, ok := t.LatestGlucose(); ok && g.Valid {
		glucose = fmt.Sprintf("%d mg/dL (%s)", g.Reading, health.ClassifyGlucose(g))
	}
	fmt.Fprintf(out, "User %d: %s, %s\n", *snap.UserID, snap.Profile.Name(), snap.Profile.City)
	fmt.Fprintf(out, "Glucose: %s\n", glucose)
	fmt.Fprintf(out, "Mood:    %s\n", t.CurrentMood())
	fmt.Fprintf(out, "Meal:    %s\n", t.LastMeal(time.Local))
	fmt.Fprintf(out, "Tip:     %s\n", health.DailyTip(time.Now()))
}
