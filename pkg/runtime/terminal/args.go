package terminal

import "strings"

// NormalizeArgs rewrites the single-dash long flag -os, which pflag cannot
// express, into --operating-system.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		switch {
		case arg == "--":
			copy(out[i:], args[i:])
			return out
		case arg == "-os":
			out[i] = "--operating-system"
		case strings.HasPrefix(arg, "-os="):
			out[i] = "--operating-system=" + strings.TrimPrefix(arg, "-os=")
		default:
			out[i] = arg
		}
	}
	return out
}
