package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls   []string
	moreErr error
	ageErr  error
}

func (f *fakeExec) More(context.Context) error {
	f.calls = append(f.calls, "more")
	return f.moreErr
}

func (f *fakeExec) Page(_ context.Context, n int) error {
	f.calls = append(f.calls, "page:"+strings.Repeat("I", n))
	return nil
}

func (f *fakeExec) Search(q string) { f.calls = append(f.calls, "search:"+q) }

func (f *fakeExec) Age(age string) error {
	f.calls = append(f.calls, "age:"+age)
	return f.ageErr
}

func (f *fakeExec) Type(typ string) { f.calls = append(f.calls, "type:"+typ) }

func (f *fakeExec) LoadMore() { f.calls = append(f.calls, "next") }

func (f *fakeExec) Filters(context.Context) error {
	f.calls = append(f.calls, "filters")
	return nil
}

func (f *fakeExec) Stats() error {
	f.calls = append(f.calls, "stats")
	return nil
}

func run(t *testing.T, f *fakeExec, input string) []string {
	t.Helper()
	var out []string
	runREPL(context.Background(), f, bufio.NewScanner(strings.NewReader(input)),
		func(s string) { out = append(out, s) })
	return out
}

func TestREPL_Dispatch(t *testing.T) {
	f := &fakeExec{}
	run(t, f, "m\nmore\npage 2\nsearch golden dog\ns\nage Baby\ntype Cat\nnext\nfilters\nstats\n")

	assert.Equal(t, []string{
		"more", "more", "page:II",
		"search:golden dog", "search:",
		"age:Baby", "type:Cat", "next", "filters", "stats",
	}, f.calls)
}

func TestREPL_ExitStops(t *testing.T) {
	f := &fakeExec{}
	run(t, f, "more\nexit\nmore\n")
	assert.Equal(t, []string{"more"}, f.calls)
}

func TestREPL_Errors(t *testing.T) {
	f := &fakeExec{moreErr: errors.New("offline"), ageErr: errors.New("bad age")}
	out := run(t, f, "more\nage Old\n")
	assert.Equal(t, []string{"error: offline", "error: bad age"}, out)
}

func TestREPL_BadInput(t *testing.T) {
	f := &fakeExec{}
	out := run(t, f, "\npage x\npage 0\nfly\nhelp\n")

	assert.Empty(t, f.calls)
	assert.Len(t, out, 4)
	assert.Equal(t, "usage: page N (N >= 1)", out[0])
	assert.Equal(t, "usage: page N (N >= 1)", out[1])
	assert.Contains(t, out[2], `unknown command "fly"`)
	assert.Equal(t, helpText, out[3])
}

func TestREPL_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeExec{}
	runREPL(ctx, f, bufio.NewScanner(strings.NewReader("more\n")), func(string) {})
	assert.Empty(t, f.calls)
}
