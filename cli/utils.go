package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printf prints a message with a newline.
func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, yellow("Warning: ")+format+"\n", a...)
}
