package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Notifications lists the account's recent notifications.
func (r *Runner) Notifications(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	notifications, err := r.seo.Notifications(ctx, int(cmd.Int("limit")), int(cmd.Int("skip")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(notifications, true)
	}

	if len(notifications) == 0 {
		return r.writePlain("No notifications\n")
	}

	for _, notification := range notifications {
		marker := " "
		if !notification.Read {
			marker = "•"
		}
		r.writePlain("%s [%s] %s\n", marker, notification.CreatedAt, notification.Message)
	}
	return nil
}
