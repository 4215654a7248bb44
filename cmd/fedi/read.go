package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmerrifield20/fedikit/pkg/client"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(statusesCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(instanceCmd)
}

// withClient adapts a call that needs an authenticated client into a RunE.
func withClient(fn func(cmd *cobra.Command, c *client.Client, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		v, err := fn(cmd, c, args)
		if err != nil {
			return err
		}
		return printJSON(cmd, v)
	}
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Show the authenticated account",
	Args:  cobra.NoArgs,
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		return c.VerifyCredentials(commandContext(cmd))
	}),
}

var accountCmd = &cobra.Command{
	Use:   "account <id>",
	Short: "Show an account",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.Account(commandContext(cmd), id)
	}),
}

// ── timeline ─────────────────────────────────────────────────────────────────

var timelineLocal bool

var timelineCmd = &cobra.Command{
	Use:   "timeline [home|public|tag <hashtag>]",
	Short: "Show a timeline (home by default)",
	Args:  cobra.RangeArgs(0, 2),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		ctx := commandContext(cmd)
		kind := "home"
		if len(args) > 0 {
			kind = args[0]
		}
		switch {
		case kind == "home" && len(args) <= 1:
			return c.HomeTimeline(ctx)
		case kind == "public" && len(args) <= 1:
			return c.PublicTimeline(ctx, timelineLocal)
		case kind == "tag" && len(args) == 2:
			return c.TagTimeline(ctx, args[1], timelineLocal)
		default:
			return nil, fmt.Errorf("usage: %s", cmd.Use)
		}
	}),
}

func init() {
	timelineCmd.Flags().BoolVar(&timelineLocal, "local", false, "only statuses from this server (public and tag timelines)")
}

// ── statuses ─────────────────────────────────────────────────────────────────

var (
	statusesOnlyMedia      bool
	statusesExcludeReplies bool
	statusesSinceID        uint64
)

var statusesCmd = &cobra.Command{
	Use:   "statuses <account-id>",
	Short: "List an account's statuses",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.AccountStatuses(commandContext(cmd), id, client.StatusesOptions{
			OnlyMedia:      statusesOnlyMedia,
			ExcludeReplies: statusesExcludeReplies,
			SinceID:        statusesSinceID,
		})
	}),
}

func init() {
	statusesCmd.Flags().BoolVar(&statusesOnlyMedia, "only-media", false, "only statuses with attachments")
	statusesCmd.Flags().BoolVar(&statusesExcludeReplies, "exclude-replies", false, "skip replies")
	statusesCmd.Flags().Uint64Var(&statusesSinceID, "since-id", 0, "only statuses newer than this id")
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications",
	Args:  cobra.NoArgs,
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		return c.Notifications(commandContext(cmd))
	}),
}

// ── search ───────────────────────────────────────────────────────────────────

var (
	searchResolve  bool
	searchAccounts bool
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search accounts, statuses and hashtags",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		if searchAccounts {
			return c.SearchAccounts(commandContext(cmd), args[0], searchLimit)
		}
		return c.Search(commandContext(cmd), args[0], searchResolve)
	}),
}

func init() {
	searchCmd.Flags().BoolVar(&searchResolve, "resolve", false, "look up remote accounts and statuses")
	searchCmd.Flags().BoolVar(&searchAccounts, "accounts", false, "search accounts only")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum accounts to return with --accounts")
}

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Show server information",
	Args:  cobra.NoArgs,
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		return c.Instance(commandContext(cmd))
	}),
}
