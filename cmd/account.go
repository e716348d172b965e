package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Show the subscription and open Stripe checkout or portal",
}

var apikeyCmd = &cobra.Command{
	Use:     "apikey",
	Aliases: []string{"apikeys", "api-key"},
	Short:   "Manage API keys",
}

var webhookCmd = &cobra.Command{
	Use:     "webhook",
	Aliases: []string{"webhooks"},
	Short:   "Manage webhooks",
}

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications"},
	Short:   "List and acknowledge notifications",
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log",
}

func init() {
	rootCmd.AddCommand(billingCmd, apikeyCmd, webhookCmd, notificationCmd, auditCmd)

	checkout := &cobra.Command{
		Use:     "checkout <plan>",
		Short:   "Create a checkout session for a plan and print its URL",
		Example: `  einvoice billing checkout professional`,
		Args:    cobra.ExactArgs(1),
		RunE:    runBillingCheckout,
	}
	checkout.Flags().String("success-url", "", "Redirect after successful payment")
	checkout.Flags().String("cancel-url", "", "Redirect after canceled payment")
	billingCmd.AddCommand(
		&cobra.Command{Use: "status", Short: "Show plan and usage", Args: cobra.NoArgs, RunE: runBillingStatus},
		checkout,
		&cobra.Command{Use: "portal", Short: "Print the URL of the billing portal", Args: cobra.NoArgs, RunE: runBillingPortal},
	)

	apikeyCreate := &cobra.Command{Use: "create <name>", Short: "Create an API key", Args: cobra.ExactArgs(1), RunE: runAPIKeyCreate}
	apikeyCreate.Flags().StringSlice("scope", nil, "Scope to grant (repeatable)")
	apikeyCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List API keys", Args: cobra.NoArgs, RunE: runAPIKeyList},
		apikeyCreate,
		deleteCommand("API key", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting API key", func(cl clientCtx) error { return cl.client.DeleteAPIKey(cl.ctx, id) })
		}),
	)

	webhookCreate := &cobra.Command{
		Use:     "create <url>",
		Short:   "Register a webhook",
		Example: `  einvoice webhook create https://hooks.example.de/einvoice --event invoice.created --event invoice.validated`,
		Args:    cobra.ExactArgs(1),
		RunE:    runWebhookCreate,
	}
	webhookCreate.Flags().StringSlice("event", nil, "Event to subscribe to (repeatable)")
	webhookCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List webhooks", Args: cobra.NoArgs, RunE: runWebhookList},
		webhookCreate,
		deleteCommand("webhook", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting webhook", func(cl clientCtx) error { return cl.client.DeleteWebhook(cl.ctx, id) })
		}),
		&cobra.Command{Use: "test <id>", Short: "Send a test delivery", Args: cobra.ExactArgs(1), RunE: runWebhookTest},
	)

	notificationList := &cobra.Command{Use: "list", Short: "List notifications", Args: cobra.NoArgs, RunE: runNotificationList}
	notificationList.Flags().Bool("unread", false, "Only unread notifications")
	notificationRead := &cobra.Command{Use: "read [id]", Short: "Mark a notification (or --all) as read", Args: cobra.MaximumNArgs(1), RunE: runNotificationRead}
	notificationRead.Flags().Bool("all", false, "Mark all notifications as read")
	notificationCmd.AddCommand(notificationList, notificationRead)

	auditList := &cobra.Command{Use: "list", Short: "List audit log entries", Args: cobra.NoArgs, RunE: runAuditList}
	auditList.Flags().Int("page", 1, "Page number")
	auditList.Flags().Int("page-size", 50, "Entries per page")
	auditList.Flags().String("action", "", "Filter by action, e.g. invoice.deleted")
	auditCmd.AddCommand(auditList)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("02.01.2006 15:04")
}

func runBillingStatus(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "loading subscription", func(cl clientCtx) error {
		sub, err := cl.client.Subscription(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, sub, func() string {
			limit := "unlimited"
			if sub.InvoiceLimit > 0 {
				limit = fmt.Sprint(sub.InvoiceLimit)
			}
			s := fmt.Sprintf("Plan:     %s (%s)\nInvoices: %d of %s this period\n", sub.Plan, sub.Status, sub.InvoicesUsed, limit)
			if sub.CurrentPeriodEnd != nil {
				s += "Renews:   " + formatTime(sub.CurrentPeriodEnd) + "\n"
				if sub.CancelAtEnd {
					s += "          (cancels at period end)\n"
				}
			}
			return s
		})
	})
}

func runBillingCheckout(cmd *cobra.Command, args []string) error {
	req := models.CheckoutRequest{Plan: args[0]}
	req.SuccessURL, _ = cmd.Flags().GetString("success-url")
	req.CancelURL, _ = cmd.Flags().GetString("cancel-url")

	return withClient(cmd, "creating checkout session", func(cl clientCtx) error {
		session, err := cl.client.CreateCheckout(cl.ctx, req)
		if err != nil {
			return err
		}
		return printResult(cmd, session, func() string { return "Open this URL to complete the checkout:\n" + session.URL + "\n" })
	})
}

func runBillingPortal(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "opening billing portal", func(cl clientCtx) error {
		session, err := cl.client.CreatePortal(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, session, func() string { return session.URL + "\n" })
	})
}

func runAPIKeyList(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "listing API keys", func(cl clientCtx) error {
		keys, err := cl.client.ListAPIKeys(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, keys, func() string {
			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k.ID, k.Name, k.Prefix + "…", strings.Join(k.Scopes, ","), formatTime(k.LastUsedAt)})
			}
			return tui.RenderTable([]string{"ID", "NAME", "KEY", "SCOPES", "LAST USED"}, rows, "No API keys.")
		})
	})
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	in := models.APIKeyInput{Name: args[0]}
	in.Scopes, _ = cmd.Flags().GetStringSlice("scope")

	return withClient(cmd, "creating API key", func(cl clientCtx) error {
		key, err := cl.client.CreateAPIKey(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, key, func() string {
			return fmt.Sprintf("Created API key %s (%s).\n\n  %s\n\nStore it now; it is not shown again.\n", key.Name, key.ID, key.Key)
		})
	})
}

func runWebhookList(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "listing webhooks", func(cl clientCtx) error {
		hooks, err := cl.client.ListWebhooks(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, hooks, func() string {
			rows := make([][]string, 0, len(hooks))
			for _, h := range hooks {
				state := "active"
				if !h.Active {
					state = "inactive"
				}
				rows = append(rows, []string{h.ID, h.URL, strings.Join(h.Events, ","), state})
			}
			return tui.RenderTable([]string{"ID", "URL", "EVENTS", "STATE"}, rows, "No webhooks.")
		})
	})
}

func runWebhookCreate(cmd *cobra.Command, args []string) error {
	in := models.WebhookInput{URL: args[0]}
	in.Events, _ = cmd.Flags().GetStringSlice("event")
	if len(in.Events) == 0 {
		return fmt.Errorf("at least one --event is required")
	}

	return withClient(cmd, "creating webhook", func(cl clientCtx) error {
		hook, err := cl.client.CreateWebhook(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, hook, func() string {
			s := fmt.Sprintf("Created webhook %s for %s.\n", hook.ID, hook.URL)
			if hook.Secret != "" {
				s += "Signing secret: " + hook.Secret + "\n"
			}
			return s
		})
	})
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "testing webhook", func(cl clientCtx) error {
		result, err := cl.client.TestWebhook(cl.ctx, args[0])
		if err != nil {
			return err
		}
		if err := printResult(cmd, result, func() string {
			if result.Success {
				return fmt.Sprintf("Delivered (HTTP %d).\n", result.StatusCode)
			}
			return fmt.Sprintf("Delivery failed (HTTP %d): %s\n", result.StatusCode, result.Message)
		}); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("test delivery failed")
		}
		return nil
	})
}

func runNotificationList(cmd *cobra.Command, args []string) error {
	unread, _ := cmd.Flags().GetBool("unread")
	return withClient(cmd, "listing notifications", func(cl clientCtx) error {
		items, err := cl.client.ListNotifications(cl.ctx, unread)
		if err != nil {
			return err
		}
		return printResult(cmd, items, func() string {
			rows := make([][]string, 0, len(items))
			for _, n := range items {
				mark := ""
				if !n.Read {
					mark = "●"
				}
				rows = append(rows, []string{mark, n.ID, formatTime(&n.CreatedAt), n.Title, n.Message})
			}
			return tui.RenderTable([]string{"", "ID", "DATE", "TITLE", "MESSAGE"}, rows, "No notifications.")
		})
	})
}

func runNotificationRead(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) == 1) {
		return fmt.Errorf("give either a notification ID or --all")
	}
	return withClient(cmd, "marking notifications read", func(cl clientCtx) error {
		if all {
			if err := cl.client.MarkAllNotificationsRead(cl.ctx); err != nil {
				return err
			}
			return printDone(cmd, "All notifications marked as read.")
		}
		if err := cl.client.MarkNotificationRead(cl.ctx, args[0]); err != nil {
			return err
		}
		return printDone(cmd, "Notification %s marked as read.", args[0])
	})
}

func runAuditList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	action, _ := cmd.Flags().GetString("action")

	return withClient(cmd, "loading audit log", func(cl clientCtx) error {
		entries, err := cl.client.AuditLog(cl.ctx, page, pageSize, action)
		if err != nil {
			return err
		}
		return printResult(cmd, entries, func() string {
			rows := make([][]string, 0, len(entries.Items))
			for _, e := range entries.Items {
				resource := strings.TrimSuffix(e.ResourceType+" "+e.ResourceID, " ")
				rows = append(rows, []string{formatTime(&e.CreatedAt), e.Action, resource, e.UserEmail, e.IPAddress})
			}
			return tui.RenderTable([]string{"TIME", "ACTION", "RESOURCE", "USER", "IP"}, rows, "No audit entries.") +
				fmt.Sprintf("  %d entries total\n", entries.Total)
		})
	})
}
