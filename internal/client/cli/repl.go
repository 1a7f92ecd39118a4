package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type execIface interface {
	More(ctx context.Context) error
	Page(ctx context.Context, n int) error
	Search(q string)
	Age(age string) error
	Type(typ string)
	LoadMore()
	Filters(ctx context.Context) error
	Stats() error
}

const helpText = `commands:
  more | m          fetch the next feed page
  page N            fetch feed page N
  search TEXT | s   set the search query (empty clears it)
  age AGE           set the age filter (Baby, Young, Adult, Senior or empty)
  type TYPE         set the type filter (empty clears it)
  next              load the next remote search page
  filters           list cached types and ages
  stats             print client metrics
  help | exit`

// runREPL reads commands from scanner until "exit", EOF or ctx is done.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner, println func(string)) {
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch strings.ToLower(cmd) {
		case "exit", "quit":
			return
		case "help":
			println(helpText)
		case "more", "m":
			err = a.More(ctx)
		case "page":
			n, perr := strconv.Atoi(arg)
			if perr != nil || n < 1 {
				println("usage: page N (N >= 1)")
				continue
			}
			err = a.Page(ctx, n)
		case "search", "s":
			a.Search(arg)
		case "age":
			err = a.Age(arg)
		case "type":
			a.Type(arg)
		case "next":
			a.LoadMore()
		case "filters":
			err = a.Filters(ctx)
		case "stats":
			err = a.Stats()
		default:
			println(fmt.Sprintf("unknown command %q, type 'help'", cmd))
		}

		if err != nil {
			println("error: " + err.Error())
		}
	}
}
