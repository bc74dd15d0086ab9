package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the terminal client's chat session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored session id, creating one if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		id, err := session.FileStore{Dir: cfg.DataDir}.Get()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored session and its conversation",
	Long:  `Deletes the persisted conversation state and transcript of the terminal client's session, then removes the stored id so the next chat starts fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		store := session.FileStore{Dir: cfg.DataDir}
		id, err := store.Get()
		if err != nil {
			return err
		}
		if err := a.manager.Reset(ctx, id); err != nil {
			return fmt.Errorf("resetting session %s: %w", id, err)
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session %s reset\n", id)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions with stored transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := a.transcripts.ListSessions(ctx, limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %4d messages  %s\n", s.SessionID, s.Messages, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	sessionListCmd.Flags().Int("limit", 20, "maximum number of sessions")
	sessionCmd.AddCommand(sessionShowCmd, sessionResetCmd, sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}
