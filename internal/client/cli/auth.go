package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	gs "github.com/dmitrijs2005/messagely/internal/server/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (a *App) Register(ctx context.Context) error {

	req := &gs.RegisterRequest{}
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter user name", &req.Username},
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter phone", &req.Phone},
	}

	for _, p := range prompts {
		v, err := GetSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return a.report(err)
		}
		*p.dst = v
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.Register(ctx, req)
	if err != nil {
		return a.report(err)
	}

	a.token = resp.Token
	a.userName = req.Username
	fmt.Fprintln(a.out, "Registered and logged in")
	return nil
}

func (a *App) Login(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.api.Login(ctx, &gs.LoginRequest{Username: userName, Password: string(password)})
	if err != nil {
		return a.report(err)
	}

	a.token = resp.Token
	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// report prints err for the user and returns it. A rejected token ends
// the session.
func (a *App) report(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}

	switch st.Code() {
	case codes.Unauthenticated:
		if a.isLoggedIn() {
			a.token = ""
			a.userName = ""
			fmt.Fprintln(a.out, "Session is no longer valid, please log in again")
			return err
		}
	case codes.Unavailable, codes.DeadlineExceeded:
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable")
		return err
	}

	fmt.Fprintln(a.out, "error:", st.Message())
	return err
}
