package main

import (
	"github.com/spf13/cobra"

	"github.com/jmerrifield20/fedikit/pkg/client"
	"github.com/jmerrifield20/fedikit/pkg/entities"
)

func init() {
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
}

// ── post ─────────────────────────────────────────────────────────────────────

var (
	postReplyTo    uint64
	postSpoiler    string
	postVisibility string
	postSensitive  bool
)

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Publish a status",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		status := client.StatusBuilder{
			Status:         args[0],
			InReplyToID:    postReplyTo,
			SpoilerText:    postSpoiler,
			IdempotencyKey: client.NewIdempotencyKey(),
		}
		if postVisibility != "" {
			if err := status.Visibility.UnmarshalText([]byte(postVisibility)); err != nil {
				return nil, err
			}
		}
		if cmd.Flags().Changed("sensitive") {
			status.Sensitive = &postSensitive
		}
		return c.NewStatus(commandContext(cmd), status)
	}),
}

func init() {
	postCmd.Flags().Uint64Var(&postReplyTo, "reply-to", 0, "id of the status to reply to")
	postCmd.Flags().StringVar(&postSpoiler, "spoiler", "", "content warning")
	postCmd.Flags().StringVar(&postVisibility, "visibility", "",
		"one of "+string(entities.VisibilityPublic)+", "+string(entities.VisibilityUnlisted)+", "+
			string(entities.VisibilityPrivate)+", "+string(entities.VisibilityDirect))
	postCmd.Flags().BoolVar(&postSensitive, "sensitive", false, "mark attached media as sensitive")
}

var deleteCmd = &cobra.Command{
	Use:   "delete <status-id>",
	Short: "Delete one of your statuses",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.DeleteStatus(commandContext(cmd), id)
	}),
}

var followCmd = &cobra.Command{
	Use:   "follow <account-id>",
	Short: "Follow an account",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.Follow(commandContext(cmd), id)
	}),
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <account-id>",
	Short: "Stop following an account",
	Args:  cobra.ExactArgs(1),
	RunE: withClient(func(cmd *cobra.Command, c *client.Client, args []string) (any, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.Unfollow(commandContext(cmd), id)
	}),
}
