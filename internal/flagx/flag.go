// Package flagx lets several parsers share one command line: each picks out
// only the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// name returns the flag name of arg without leading dashes and any "=value"
// suffix, so "-c", "--c" and "--c=x" all yield "c". ok is false for
// arguments that are not flags.
func name(arg string) (n string, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	n = strings.TrimLeft(arg, "-")
	n, _, _ = strings.Cut(n, "=")
	return n, n != ""
}

// FilterArgs keeps the arguments in args that belong to one of the allowed
// flags, together with a separate value when one follows. Flag names may be
// given with one or two dashes in both args and allowed.
//
//	FilterArgs([]string{"-c", "a.json", "-x", "1", "--db=p.db"}, []string{"-c", "-db"})
//	// [-c a.json --db=p.db]
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		if n, ok := name(f); ok {
			keep[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		n, ok := name(arg)
		if !ok {
			continue
		}
		if _, want := keep[n]; !want {
			continue
		}
		out = append(out, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (shorthand)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
