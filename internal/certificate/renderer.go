package certificate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"barangay/pkg/types"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const (
	pageMarginMM = 20.0
	qrSizeMM     = 32.0
	qrSizePx     = 256
)

// Renderer lays out certificates as A4 PDFs, one page per requested
// document.
type Renderer struct {
	barangayName string
	locality     string
}

func NewRenderer(config *types.Config) *Renderer {
	return &Renderer{
		barangayName: config.BarangayName,
		locality:     config.BarangayLocality,
	}
}

// qrPayload is encoded on every page so a printed certificate can be
// matched back to its request.
type qrPayload struct {
	RequestID string    `json:"requestId"`
	Document  string    `json:"document"`
	Resident  string    `json:"resident"`
	IssuedAt  time.Time `json:"issuedAt"`
}

func (r *Renderer) RenderPDF(cert types.Certificate) ([]byte, error) {
	if len(cert.Documents) == 0 {
		return nil, types.ErrNoDocuments
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.SetTitle(fmt.Sprintf("%s certificate %s", r.barangayName, cert.RequestID), true)
	pdf.SetCreator(r.barangayName, true)
	pdf.SetCreationDate(cert.IssuedAt)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr("Request "+cert.RequestID), "", 0, "C", false, 0, "")
	})

	for i, document := range cert.Documents {
		if err := r.page(pdf, tr, cert, document, i); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write certificate pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) page(pdf *fpdf.Fpdf, tr func(string) string, cert types.Certificate, document string, index int) error {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Republic of the Philippines", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(r.locality), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, tr(strings.ToUpper(r.barangayName)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "OFFICE OF THE PUNONG BARANGAY", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(strings.ToUpper(document)), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "TO WHOM IT MAY CONCERN:", "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, tr(r.body(cert, document)), "", "J", false)
	pdf.Ln(3)

	pdf.MultiCell(0, 7, tr("Purpose: "+purposeFor(cert, document)), "", "L", false)

	if types.IsBusinessDocument(document) && cert.BusinessInfo != nil {
		pdf.Ln(2)
		pdf.MultiCell(0, 7, tr("Business name: "+cert.BusinessInfo.BusinessName), "", "L", false)
		pdf.MultiCell(0, 7, tr("Business address: "+cert.BusinessInfo.BusinessAddress), "", "L", false)
		pdf.MultiCell(0, 7, tr("Owner: "+cert.BusinessInfo.OwnerName), "", "L", false)
	}

	if strings.TrimSpace(cert.Notes) != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 7, tr("Remarks: "+cert.Notes), "", "L", false)
	}

	pdf.Ln(6)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf("Issued on %s at %s, %s.",
		cert.IssuedAt.Format("January 2, 2006"), r.barangayName, r.locality)), "", "L", false)

	png, err := qrcode.Encode(qrContent(cert, document), qrcode.Medium, qrSizePx)
	if err != nil {
		return fmt.Errorf("failed to encode certificate qr code: %w", err)
	}

	name := fmt.Sprintf("qr-%d", index)
	options := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(png))

	y := pdf.GetY() + 10
	pdf.ImageOptions(name, pageMarginMM, y, qrSizeMM, qrSizeMM, false, options, 0, "")

	pageWidth, _ := pdf.GetPageSize()
	pdf.SetXY(pageWidth-pageMarginMM-70, y+qrSizeMM-8)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 6, "PUNONG BARANGAY", "T", 1, "C", false, 0, "")

	return pdf.Error()
}

func (r *Renderer) body(cert types.Certificate, document string) string {
	address := strings.TrimSpace(cert.Address)
	if address == "" {
		address = "Address not provided"
	}

	switch {
	case document == types.DocBarangayIndigency:
		return fmt.Sprintf("This is to certify that %s, residing at %s, belongs to an indigent family of this barangay.", cert.ResidentName, address)
	case document == types.DocBarangayResidency:
		return fmt.Sprintf("This is to certify that %s is a bona fide resident of this barangay with address at %s.", cert.ResidentName, address)
	case document == types.DocBarangayID:
		return fmt.Sprintf("This is to certify that %s, residing at %s, is a registered resident of this barangay and is entitled to a barangay identification card.", cert.ResidentName, address)
	case types.IsBusinessDocument(document):
		return fmt.Sprintf("This is to certify that the business described below, owned by a resident of this barangay, is allowed to operate within %s subject to existing ordinances.", r.barangayName)
	default:
		return fmt.Sprintf("This is to certify that %s, residing at %s, has no derogatory record on file in this barangay.", cert.ResidentName, address)
	}
}

func purposeFor(cert types.Certificate, document string) string {
	if purpose := strings.TrimSpace(cert.Purposes[document]); purpose != "" {
		return purpose
	}
	return fmt.Sprintf("For %s purposes", strings.ToLower(strings.TrimPrefix(document, "Barangay ")))
}

func qrContent(cert types.Certificate, document string) string {
	data, err := json.Marshal(qrPayload{
		RequestID: cert.RequestID,
		Document:  document,
		Resident:  cert.ResidentName,
		IssuedAt:  cert.IssuedAt,
	})
	if err != nil {
		return cert.RequestID
	}
	return string(data)
}
