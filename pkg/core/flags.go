package core

// ParseBoolFlags parses grouped short boolean flags such as -abc and returns
// the operands. A nil target accepts a flag without recording it.
func ParseBoolFlags(p *Process, applet string, args []string, flags map[byte]*bool, aliases map[byte]byte) ([]string, ExitCode) {
	var operands []string
	for i, arg := range args {
		if arg == "--" {
			return append(operands, args[i+1:]...), ExitSuccess
		}
		if len(arg) < 2 || arg[0] != '-' {
			operands = append(operands, arg)
			continue
		}
		for j := 1; j < len(arg); j++ {
			c := arg[j]
			if alias, ok := aliases[c]; ok {
				c = alias
			}
			target, ok := flags[c]
			if !ok {
				return nil, UsageError(p, applet, "invalid option -- '"+arg[j:j+1]+"'")
			}
			if target != nil {
				*target = true
			}
		}
	}
	return operands, ExitSuccess
}
