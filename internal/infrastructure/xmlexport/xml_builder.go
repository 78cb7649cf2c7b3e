// Package xmlexport construye la representación XML de intercambio de una
// factura (UBL 2.1 simplificado, sin extensiones ni firma).
package xmlexport

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

var _ billing.InvoiceXMLBuilder = (*XMLBuilderService)(nil)

// XMLBuilderService construye el XML de la factura.
type XMLBuilderService struct {
	supplierName  string
	supplierTaxID string
}

// NewXMLBuilderService crea el servicio con los datos del emisor.
func NewXMLBuilderService(supplierName, supplierTaxID string) *XMLBuilderService {
	return &XMLBuilderService{supplierName: supplierName, supplierTaxID: supplierTaxID}
}

// Build genera el documento Invoice. Los montos van en pesos con dos
// decimales (los centavos internos divididos por 100).
func (s *XMLBuilderService) Build(invoice *entity.Invoice, client *entity.Client) ([]byte, error) {
	if invoice == nil || client == nil {
		return nil, fmt.Errorf("xmlexport: faltan invoice o client")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)

	invoiceID := invoice.Prefix + invoice.Number
	root.CreateElement("cbc:UBLVersionID").SetText("2.1")
	root.CreateElement("cbc:ID").SetText(invoiceID)
	root.CreateElement("cbc:IssueDate").SetText(invoice.Date.Format("2006-01-02"))
	root.CreateElement("cbc:IssueTime").SetText(invoice.Date.Format("15:04:05-07:00"))
	root.CreateElement("cbc:DocumentCurrencyCode").SetText("COP")

	s.writeSupplierParty(root)
	s.writeCustomerParty(root, client)
	writeTaxTotal(root, invoice.Figures)
	writeWithholdingTaxTotals(root, invoice.Figures)
	writeLegalMonetaryTotal(root, invoice.Figures)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (s *XMLBuilderService) writeSupplierParty(root *etree.Element) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	party.CreateElement("cac:PartyIdentification").
		CreateElement("cbc:ID").SetText(normalizeTaxID(s.supplierTaxID))
	party.CreateElement("cac:PartyName").
		CreateElement("cbc:Name").SetText(s.supplierName)
}

func (s *XMLBuilderService) writeCustomerParty(root *etree.Element, client *entity.Client) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	party.CreateElement("cac:PartyIdentification").
		CreateElement("cbc:ID").SetText(normalizeTaxID(client.TaxID))
	party.CreateElement("cac:PartyName").
		CreateElement("cbc:Name").SetText(client.Name)
	if client.Address != "" {
		party.CreateElement("cac:PostalAddress").
			CreateElement("cbc:StreetName").SetText(client.Address)
	}
}

func writeTaxTotal(root *etree.Element, f entity.InvoiceFigures) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	writeAmount(taxTotal, "cbc:TaxAmount", f.IvaMinor)
	sub := taxTotal.CreateElement("cac:TaxSubtotal")
	writeAmount(sub, "cbc:TaxableAmount", f.SubtotalExVatMinor)
	writeAmount(sub, "cbc:TaxAmount", f.IvaMinor)
	cat := sub.CreateElement("cac:TaxCategory")
	cat.CreateElement("cbc:ID").SetText("01") // IVA
}

// writeWithholdingTaxTotals: retenciones informativas (el comprador las
// descuenta al pagar; no reducen el total facturado).
func writeWithholdingTaxTotals(root *etree.Element, f entity.InvoiceFigures) {
	write := func(code string, amountMinor int64) {
		wht := root.CreateElement("cac:WithholdingTaxTotal")
		writeAmount(wht, "cbc:TaxAmount", amountMinor)
		sub := wht.CreateElement("cac:TaxSubtotal")
		writeAmount(sub, "cbc:TaxableAmount", f.SubtotalExVatMinor)
		writeAmount(sub, "cbc:TaxAmount", amountMinor)
		sub.CreateElement("cac:TaxCategory").
			CreateElement("cbc:ID").SetText(code)
	}
	if f.RetefuenteApplied {
		write("06", f.RetefuenteMinor) // ReteRenta
	}
	if f.IcaApplied {
		write("07", f.IcaMinor) // ReteICA
	}
}

func writeLegalMonetaryTotal(root *etree.Element, f entity.InvoiceFigures) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	writeAmount(total, "cbc:LineExtensionAmount", f.SubtotalExVatMinor)
	writeAmount(total, "cbc:TaxExclusiveAmount", f.SubtotalExVatMinor)
	writeAmount(total, "cbc:TaxInclusiveAmount", f.TotalMinor)
	writeAmount(total, "cbc:PayableAmount", f.TotalMinor)
}

func writeAmount(parent *etree.Element, tag string, minor int64) {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", "COP")
	e.SetText(formatAmount(minor))
}

// formatAmount presenta centavos como pesos con dos decimales. Ej: 119000000 → "1190000.00"
func formatAmount(minor int64) string {
	return strconv.FormatInt(minor/100, 10) + "." + fmt.Sprintf("%02d", minor%100)
}

func normalizeTaxID(taxID string) string {
	var out []byte
	for _, b := range []byte(taxID) {
		if b >= '0' && b <= '9' {
			out = append(out, b)
		}
	}
	return string(out)
}
