// Package flagx lets independent flag sets share one command line. Each
// parser keeps only the flags it owns and leaves the rest alone.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Set names the flags a parser owns, without leading dashes. The value
// reports whether the flag consumes a following argument; boolean flags
// map to false.
type Set map[string]bool

// Filter returns the arguments belonging to flags in s, in their original
// order. Both "-name" and "--name" spellings are recognized, as are
// "-name=value" forms. Parsing stops at "--".
func (s Set) Filter(args []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		takesValue, ok := s[name]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)

		if takesValue && !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

var configFlags = Set{"c": true, "config": true}

// ConfigPath extracts the configuration file named by -c or -config from
// args. When both are given the last one wins. An empty string means no
// file was requested.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(configFlags.Filter(args))

	return path
}
