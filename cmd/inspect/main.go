package main

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// staleAfter highlights messages waiting for a recipient longer than this.
const staleAfter = time.Hour

type inspector struct {
	db  *badger.DB
	log *slog.Logger
}

// inspect prints what the relay still holds: undelivered messages, groups or the audit log.
func main() {
	in := &inspector{log: logs.GetLoggerFromString("ERROR")}

	app := &cli.Command{
		Name:      "inspect",
		Usage:     "Read-only view of a relay badger directory",
		UsageText: "inspect [--db DIR] messages|groups|audit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the badger directory",
				Sources: cli.EnvVars("BADGER_FILEPATH"),
				Value:   "./data/badger",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colors",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("no-color") {
				color.Disable()
			}
			db, err := openDB(c.String("db"))
			if err != nil {
				return ctx, fmt.Errorf("open badger: %w", err)
			}
			in.db = db
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if in.db != nil {
				return in.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "messages",
				Usage:  "messages still owed to at least one member, oldest first",
				Action: in.messages,
			},
			{
				Name:   "groups",
				Usage:  "groups and their member count",
				Action: in.groups,
			},
			{
				Name:  "audit",
				Usage: "latest audit entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "entries to print, 0 for all", Value: 50},
				},
				Action: in.audit,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err))
		os.Exit(1)
	}
}

func (in *inspector) messages(ctx context.Context, _ *cli.Command) error {
	messages, err := repositories.NewMessageRepository(in.db, in.log, 0).Pending(ctx)
	if err != nil {
		return err
	}
	table := newTable([]string{"Message", "Group", "Sender", "Kind", "Received", "Waiting for", "Age"})
	now := time.Now()
	for _, m := range messages {
		table.Append(messageRow(m, now))
	}
	fmt.Println(color.Bold.Sprintf("%d undelivered message(s)", len(messages)))
	table.Render()
	return nil
}

func (in *inspector) groups(ctx context.Context, _ *cli.Command) error {
	groups, err := repositories.NewGroupRepository(in.db, in.log).List(ctx)
	if err != nil {
		return err
	}
	table := newTable([]string{"Group", "Name", "Members", "Created by", "Created at"})
	for _, g := range groups {
		table.Append([]string{
			string(g.ID), g.Name, fmt.Sprint(g.Members.Len()), string(g.CreatedBy),
			g.CreatedAt.Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}

func (in *inspector) audit(ctx context.Context, c *cli.Command) error {
	entries, err := repositories.NewAuditRepository(in.db).List(ctx, int(c.Int("limit")))
	if err != nil {
		return err
	}
	table := newTable([]string{"Log", "At", "Username", "Action", "Target"})
	for _, e := range entries {
		action := string(e.Action)
		if e.Action == domain.ActionSendDenied {
			action = color.Red.Sprint(action)
		}
		table.Append([]string{short(e.ID.String()), e.At.Format(time.RFC3339), e.Username, action, e.Target})
	}
	table.Render()
	return nil
}

func messageRow(m domain.Message, now time.Time) []string {
	outstanding := lo.Map(m.Outstanding().Sorted(), func(id domain.UserID, _ int) string { return short(string(id)) })
	received := fmt.Sprintf("%d/%d", m.ReceivedBy.Len(), m.IntendedFor.Len())
	age := now.Sub(m.CreatedAt).Truncate(time.Second)
	if age > staleAfter {
		received = color.Yellow.Sprint(received)
	}
	return []string{
		short(m.ID.String()),
		m.GroupName,
		m.SenderName,
		string(m.Payload.Kind()),
		received,
		strings.Join(outstanding, ","),
		age.String(),
	}
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetHeaderLine(false)
	return table
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// openDB opens read-only, bypassing the lock so it works while the relay runs.
func openDB(path string) (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
}
