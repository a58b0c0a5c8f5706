package cmd

import "strings"

const timeRangeFlag = "--time-range"

// normalizeTimeRangeArgs rewrites "--time-range START END" into
// "--time-range=START,END" so the flag can be parsed as a single value.
// "--time-range START,END" and "--time-range=START,END" are left alone.
func normalizeTimeRangeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if a == timeRangeFlag && i+2 < len(args) &&
			!strings.Contains(args[i+1], ",") && !strings.HasPrefix(args[i+2], "-") {
			out = append(out, timeRangeFlag+"="+args[i+1]+","+args[i+2])
			i += 2
			continue
		}
		out = append(out, a)
	}
	return out
}
