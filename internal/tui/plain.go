package tui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// PrintList writes the contacts as an aligned plain text table, for output
// that is not a terminal.
func PrintList(w io.Writer, contacts []pkgmodel.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, presenter.NoResults)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Id, c.Name, c.Phone, c.Email)
	}
	return tw.Flush()
}
