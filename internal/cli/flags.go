package cli

import "github.com/spf13/pflag"

// Partial updates only touch fields the user actually set; these helpers
// turn a flag value into a pointer that is nil when the flag was left out.

func strFlagPtr(flags *pflag.FlagSet, name string, value *string) *string {
	if flags.Changed(name) {
		return value
	}
	return nil
}

func intFlagPtr(flags *pflag.FlagSet, name string, value *int) *int {
	if flags.Changed(name) {
		return value
	}
	return nil
}

func floatFlagPtr(flags *pflag.FlagSet, name string, value *float64) *float64 {
	if flags.Changed(name) {
		return value
	}
	return nil
}
