package infra

// Pickup receipt generation using go-pdf/fpdf. Renders an A7-size
// thermal-style slip: store header, ticket code and date, device line,
// one row per repair item, discount line when set, and a bold total.
// The file is written to storagePath/receipt_{code}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GeneratePickupReceiptPDF writes a receipt PDF for a finished repair ticket.
// store may be nil when the store profile has not been configured yet.
// Returns the absolute path of the generated file.
func GeneratePickupReceiptPDF(svc *model.Service, store *model.StoreSetting, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", strings.ReplaceAll(svc.Code, "/", "-"))
	filePath := filepath.Join(storagePath, fileName)

	// 74mm x 105mm, roughly thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	storeName := "Service Receipt"
	if store != nil && store.Name != "" {
		storeName = store.Name
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Repair Service Receipt", "", 1, "C", false, 0, "")
	if store != nil && store.Phone != "" {
		pdf.CellFormat(contentW, 4, store.Phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, svc.Code, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, svc.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%s %s", svc.Brand, svc.Model), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Customer: "+svc.CustomerName, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.68 // repair item
	col2 := contentW * 0.32 // price

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Service", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	subtotal := decimal.Zero
	for _, item := range svc.Items {
		name := item.Name
		if len(name) > 28 {
			name = name[:27] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, item.Price.StringFixed(2), "", 1, "R", false, 0, "")
		subtotal = subtotal.Add(item.Price)
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	if svc.Discount > 0 {
		pdf.CellFormat(col1, 5, "Subtotal:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, subtotal.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(col1, 5, fmt.Sprintf("Discount (%d%%):", svc.Discount), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "-"+subtotal.Sub(svc.TotalPrice).StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, svc.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for trusting us with your device!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
