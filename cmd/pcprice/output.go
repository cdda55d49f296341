package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
)

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) printProducts(resp *pcprice.ProductResponse) error {
	if !e.table {
		return e.printJSON(resp)
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTORE\tPRICE\tSTOCK")
	for _, p := range resp.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Store, p.DisplayPrice(), p.StockStatus().Label())
	}
	return tw.Flush()
}

func (e *env) printCatalog(page *pcprice.CatalogPage) error {
	if !e.table {
		return e.printJSON(page)
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTORE\tPRICE\tSTOCK")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Store, p.DisplayPrice(), p.StockStatus().Label())
	}
	fmt.Fprintf(tw, "\t%d-%d of %d\t\t\t\n", page.Skip+1, page.Skip+page.Count, page.Total)
	return tw.Flush()
}

func (e *env) printComparison(cmp *pcprice.ComparisonResponse) error {
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%d stores)\n", cmp.ProductName, cmp.TotalStores)
	fmt.Fprintln(tw, "STORE\tNAME\tPRICE\tCONFIDENCE")
	for _, m := range cmp.Matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\n", m.Store, m.Name, m.DisplayPrice(), m.MatchConfidence*100)
	}
	fmt.Fprintf(tw, "lowest\t%s\t%s\t\n", cmp.LowestPrice.Store, cmp.LowestPrice.DisplayPrice())
	fmt.Fprintf(tw, "savings\t$%.2f\t%.1f%%\t\n", cmp.PriceDifferenceUSD, cmp.SavingsPercentage)
	return tw.Flush()
}
