package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	gs "github.com/dmitrijs2005/messagely/internal/server/grpc"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.ListUsers(ctx, &gs.ListUsersRequest{})
	if err != nil {
		return a.report(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME")
	for _, u := range resp.Users {
		fmt.Fprintf(tw, "%s\t%s %s\n", u.Username, u.FirstName, u.LastName)
	}
	return tw.Flush()
}

func (a *App) User(ctx context.Context, username string) error {
	if username == "" {
		var err error
		if username, err = GetSimpleText(a.reader, "Enter user name", a.out); err != nil {
			return a.report(err)
		}
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.GetUser(ctx, &gs.GetUserRequest{Username: username})
	if err != nil {
		return a.report(err)
	}

	u := resp.User
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name:\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Joined:\t%s\n", u.JoinAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Last login:\t%s\n", u.LastLoginAt.Local().Format(timeLayout))
	return tw.Flush()
}
