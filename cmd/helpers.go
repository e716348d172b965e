package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"einvoice/internal/api"
	"einvoice/internal/logger"
)

// clientCtx bundles an authenticated client with the command's context.
type clientCtx struct {
	client *api.Client
	ctx    context.Context
}

// withClient runs fn with an authenticated client and maps its error for the user.
func withClient(cmd *cobra.Command, action string, fn func(cl clientCtx) error) error {
	log := logger.WithComponent(cmd.Parent().Name())

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, action, log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	if err := fn(clientCtx{client: client, ctx: ctx}); err != nil {
		return handleAPIError(err, action, log)
	}
	return nil
}

// deleteCommand builds a "delete <id>" subcommand for a resource.
func deleteCommand(resource string, del func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + resource,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd, args[0]); err != nil {
				return err
			}
			return printDone(cmd, "Deleted %s %s.", resource, args[0])
		},
	}
}
