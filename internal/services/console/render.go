package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"cafe-system/internal/models"
)

// renderCategory prints one numbered category table
func renderCategory(out io.Writer, category *models.Category) {
	fmt.Fprintf(out, "Category: %s\n", category.Name())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tItem\tPrice\tQuantity")
	fmt.Fprintln(w, "-\t----\t-----\t--------")
	for n, item := range category.Items() {
		fmt.Fprintf(w, "%d\t%s\t$%s\t%d\n", n, item.Name(), item.UnitPrice().StringFixed(2), item.Stock())
	}
	w.Flush()

	fmt.Fprintln(out)
}

// renderOrder prints the lines of an order followed by its total
func renderOrder(out io.Writer, lines []models.Line, total decimal.Decimal) {
	fmt.Fprintln(out, "Your Order:")
	for _, line := range lines {
		fmt.Fprintf(out, "%s - $%s\n", line.Name, line.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(out, "Total: $%s\n", total.StringFixed(2))
}

// parseSelection reads "N" or "NxQ" where N is an item number and Q a quantity
func parseSelection(input string) (number, quantity int, err error) {
	input = strings.ToLower(strings.TrimSpace(input))

	numberPart, quantityPart, hasQuantity := strings.Cut(input, "x")

	number, err = strconv.Atoi(strings.TrimSpace(numberPart))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid item number %q: %w", numberPart, err)
	}
	if number < 0 {
		return 0, 0, fmt.Errorf("invalid item number %d", number)
	}

	quantity = 1
	if hasQuantity {
		quantity, err = strconv.Atoi(strings.TrimSpace(quantityPart))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid quantity %q: %w", quantityPart, err)
		}
	}

	return number, quantity, nil
}
