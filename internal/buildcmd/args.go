package buildcmd

import "strings"

// DefaultNinjaStatus makes ninja print the exact prefix the line parser
// reads: finished/total counts plus elapsed time.
const DefaultNinjaStatus = "[%f/%t] %e "

// StatusEnv returns the environment entries to inject into a launched
// build so its progress lines carry parseable counts. Only ninja-family
// tools honor NINJA_STATUS; other tools ignore the variable.
func StatusEnv(format string) []string {
	if format == "" {
		format = DefaultNinjaStatus
	}
	return []string{"NINJA_STATUS=" + format}
}

// LooksLikeNinja reports whether the command name is a ninja-family
// build tool, used to decide whether injecting NINJA_STATUS is useful.
func LooksLikeNinja(bin string) bool {
	name := bin
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	return name == "ninja" || name == "samu" || name == "n2"
}
