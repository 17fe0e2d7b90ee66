package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/czajorlukasz/fiskread/document"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.BIN>",
		Short: "Assemble a locally-saved .BIN archive file into a document and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc := document.Assemble(data)
			printDocument(doc)
			return nil
		},
	}
}

func printDocument(doc *document.Document) {
	if doc.Header != nil {
		h := doc.Header
		fmt.Printf("header: doc_type=%v doc_number=%v timestamp=%v seller_tax_id=%v\n",
			deref(h.DocType), deref(h.DocNumber), derefStr(h.TimestampISO), derefStr(h.SellerTaxID))
	}
	for _, line := range doc.Lines {
		fmt.Printf("line: %s\n", line)
	}
	for i, item := range doc.Items {
		fmt.Printf("item %d: %d packaging, %d values\n", i, len(item.Packaging), len(item.Values))
	}
	fmt.Printf("payments: %d\n", len(doc.Payments))
	if doc.VATSummary != nil {
		fmt.Printf("vat_summary: %v\n", doc.VATSummary.Numbers)
	}
	if doc.Totals != nil {
		fmt.Printf("totals: %v\n", doc.Totals.Values)
	}
	if doc.Footer != nil {
		fmt.Printf("footer: doc_number=%v status=%v\n", deref(doc.Footer.DocNumber), deref(doc.Footer.Status))
	}
	if doc.Digest != nil {
		fmt.Printf("digest: %s\n", doc.Digest.Hex)
	}
	fmt.Printf("signatures: %d, unknowns: %d, raw_records: %d\n",
		len(doc.Signatures), len(doc.Unknowns), len(doc.RawRecords))
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
