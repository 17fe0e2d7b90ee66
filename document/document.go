// Package document assembles a flat record stream into a hierarchical
// document tree: a header, an ordered list of line texts, items carrying
// nested packaging/value entries, document-level packaging/values for
// entries preceding any item, payments, a VAT summary, totals, a footer,
// digest, signatures and unknowns.
//
// Assembly keeps a single cursor onto the current item as a local
// variable threaded through the walk, rather than shared mutable state —
// nested entries are owned outright by the Item they attach to, never
// shared.
package document

import "github.com/czajorlukasz/fiskread/record"

// Item is one sale line (record.TypeSale) plus any packaging/value
// records that followed it before the next sale line. Other record types,
// payments and the footer included, do not end the association.
type Item struct {
	Sale      *record.Sale
	Packaging []*record.Packaging
	Values    []*record.Amount
}

// RawRecord audits the (type, size) of one record in stream order,
// regardless of whether it was interpreted.
type RawRecord struct {
	Type uint16
	Size uint16
}

// Unknown pairs an uninterpreted record's type with its generic decode.
type Unknown struct {
	Type   uint16
	Parsed *record.UnknownRecord
}

// Document is the assembled document tree.
type Document struct {
	Header     *record.Header
	Lines      []string
	Items      []*Item
	Packaging  []*record.Packaging // entries seen before any item
	Values     []*record.Amount    // entries seen before any item
	Payments   []*record.Payment
	VATSummary *record.VATSummary
	Totals     *record.CurrencySum
	Footer     *record.Footer
	Digest     *record.Digest
	Signatures []*record.Signature
	Unknowns   []Unknown
	RawRecords []RawRecord
}

// Assemble decodes data's tagged records and walks them once into a Document.
func Assemble(data []byte) *Document {
	doc := &Document{}
	var current *Item

	for _, d := range record.DecodeAll(data) {
		doc.RawRecords = append(doc.RawRecords, RawRecord{Type: d.Raw.Type, Size: d.Raw.Size})

		switch d.Raw.Type {
		case record.TypeHeader:
			doc.Header = d.Header
		case record.TypeLine:
			if d.Line != nil {
				doc.Lines = append(doc.Lines, d.Line.Text)
			}
		case record.TypeSale:
			current = &Item{Sale: d.Sale}
			doc.Items = append(doc.Items, current)
		case record.TypePackaging:
			if current != nil {
				current.Packaging = append(current.Packaging, d.Pack)
			} else {
				doc.Packaging = append(doc.Packaging, d.Pack)
			}
		case record.TypeAmount:
			if current != nil {
				current.Values = append(current.Values, d.Amount)
			} else {
				doc.Values = append(doc.Values, d.Amount)
			}
		case record.TypePayment:
			doc.Payments = append(doc.Payments, d.Payment)
		case record.TypeVATSummary:
			doc.VATSummary = d.VAT // last one wins
		case record.TypeCurrencySum:
			doc.Totals = d.Sum // last one wins
		case record.TypeFooter:
			doc.Footer = d.Footer
		case record.TypeDigest:
			doc.Digest = d.Digest
		case record.TypeSigShort, record.TypeSigLong:
			doc.Signatures = append(doc.Signatures, d.Sig)
		default:
			doc.Unknowns = append(doc.Unknowns, Unknown{Type: d.Raw.Type, Parsed: d.Unknown})
		}
	}
	return doc
}
