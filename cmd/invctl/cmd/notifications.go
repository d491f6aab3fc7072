package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/inventoryapi"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Short:   "Read and watch inventory notifications",
	Aliases: []string{"notification", "notif"},
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		unread, _ := cmd.Flags().GetBool("unread")

		var result *inventoryapi.Page[domain.Notification]
		if unread {
			result, err = a.api.UnreadNotifications(cmd.Context(), page, size)
		} else {
			result, err = a.api.Notifications(cmd.Context(), page, size)
		}
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tMESSAGE\tREAD\tWHEN")
		for _, n := range result.Content {
			read := " "
			if n.Read {
				read = "x"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t[%s]\t%s\n",
				n.ID, n.Type, n.Message, read, n.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
		return nil
	},
}

var notificationsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the unread notification count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.api.UnreadCount(cmd.Context())
		if err != nil {
			return describeError(err)
		}
		fmt.Println(count)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "mark-read [NOTIFICATION_ID]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.MarkRead(cmd.Context(), args[0]); err != nil {
			return describeError(err)
		}
		fmt.Println("Marked read.")
		return nil
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.MarkAllRead(cmd.Context()); err != nil {
			return describeError(err)
		}
		fmt.Println("All notifications marked read.")
		return nil
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream notifications live until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.ctx.WSEndpoint == "" {
			return fmt.Errorf("context '%s' has no WebSocket endpoint. Set one with '%s config set-context %s --server ... --ws ws://...'",
				a.ctx.Name, appName, a.ctx.Name)
		}

		stream := inventoryapi.NewStream(a.ctx.WSEndpoint, appLogger)
		defer stream.Close()

		stream.SubscribeNotifications(func(n domain.Notification) {
			fmt.Printf("[%s] %s: %s\n", n.CreatedAt.Format("15:04:05"), n.Type, n.Message)
		})
		if err := stream.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to notification stream: %w", err)
		}

		fmt.Println("Watching notifications. Press Ctrl-C to stop.")
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		select {
		case <-interrupt:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsCountCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)

	notificationsListCmd.Flags().Int("page", 0, "page number")
	notificationsListCmd.Flags().Int("size", 10, "page size")
	notificationsListCmd.Flags().Bool("unread", false, "only unread notifications")
}
