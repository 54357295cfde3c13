package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	args     []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Users(context.Context) error { f.calls = append(f.calls, "users"); return nil }
func (f *fakeExec) User(_ context.Context, u string) error {
	f.calls = append(f.calls, "user")
	f.args = append(f.args, u)
	return nil
}
func (f *fakeExec) Inbox(context.Context) error  { f.calls = append(f.calls, "inbox"); return nil }
func (f *fakeExec) Outbox(context.Context) error { f.calls = append(f.calls, "outbox"); return nil }
func (f *fakeExec) Send(context.Context) error   { f.calls = append(f.calls, "send"); return nil }
func (f *fakeExec) Read(_ context.Context, id string) error {
	f.calls = append(f.calls, "read")
	f.args = append(f.args, id)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	input := rdr("help\ninbox\nlogin\nhelp\nusers\nuser bob\ninbox\noutbox\nsend\nread 42\n\nfoobar\nlogout\nexit\nusers\n")
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "(status)" }, input, &out)

	assert.Equal(t, []string{"login", "users", "user", "inbox", "outbox", "send", "read", "logout"}, exec.calls)
	assert.Equal(t, []string{"bob", "42"}, exec.args)
	assert.Contains(t, out.String(), "Please log in first")
	assert.Contains(t, out.String(), "Available commands: register, login, exit")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "messagely (status)> ")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("register"), &out)

	assert.Equal(t, []string{"register"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(ctx, exec, func() string { return "" }, rdr("register\n"), &out)

	assert.Empty(t, exec.calls)
}
