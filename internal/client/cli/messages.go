package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	gs "github.com/dmitrijs2005/messagely/internal/server/grpc"
)

func (a *App) Inbox(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.MessagesTo(ctx, &gs.UserMessagesRequest{Username: a.userName})
	if err != nil {
		return a.report(err)
	}
	if len(resp.Messages) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tSENT\tBODY")
	for _, m := range resp.Messages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.FromUser.Username, m.SentAt.Local().Format(timeLayout), preview(m.Body))
	}
	return tw.Flush()
}

func (a *App) Outbox(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.MessagesFrom(ctx, &gs.UserMessagesRequest{Username: a.userName})
	if err != nil {
		return a.report(err)
	}
	if len(resp.Messages) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTO\tSENT\tBODY")
	for _, m := range resp.Messages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.ToUser.Username, m.SentAt.Local().Format(timeLayout), preview(m.Body))
	}
	return tw.Flush()
}

func (a *App) Send(ctx context.Context) error {

	to, err := GetSimpleText(a.reader, "To (user name)", a.out)
	if err != nil {
		return a.report(err)
	}

	body, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return a.report(err)
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.SendMessage(ctx, &gs.SendMessageRequest{ToUsername: to, Body: body})
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Sent message #%d to %s\n", resp.Message.ID, resp.Message.ToUsername)
	return nil
}

func (a *App) Read(ctx context.Context, id string) error {
	if id == "" {
		var err error
		if id, err = GetSimpleText(a.reader, "Message id", a.out); err != nil {
			return a.report(err)
		}
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return a.report(fmt.Errorf("invalid message id %q", id))
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.GetMessage(ctx, &gs.GetMessageRequest{ID: n})
	if err != nil {
		return a.report(err)
	}

	m := resp.Message
	fmt.Fprintf(a.out, "#%d from %s to %s at %s\n\n%s\n", m.ID, m.FromUser.Username, m.ToUser.Username, m.SentAt.Local().Format(timeLayout), m.Body)
	return nil
}

// preview shortens a body to its first line, at most 40 runes.
func preview(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	r := []rune(line)
	if len(r) > 40 {
		return string(r[:39]) + "…"
	}
	if line != body {
		return line + " …"
	}
	return line
}
