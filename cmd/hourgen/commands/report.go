package commands

import (
	"fmt"
	"io"

	"github.com/teranos/hourgen/errors"
)

// ReportError writes err and its hints for the user.
func ReportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
