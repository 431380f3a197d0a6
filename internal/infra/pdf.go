package infra

// pdf.go — invoice PDF rendering using go-pdf/fpdf.
// Layout: A4 portrait with
//   - company header and invoice number / date / state
//   - contract counterpart and role
//   - line table (services or products)
//   - totals block (lines, additional charge, grand total)
//
// Files are stored as storagePath/factura_{id}.pdf.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pactumsuite/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// RutaFacturaPDF returns where the PDF of an invoice is stored.
func RutaFacturaPDF(storagePath, facturaID string) string {
	return filepath.Join(storagePath, fmt.Sprintf("factura_%s.pdf", facturaID))
}

// GuardarFacturaPDF renders the invoice into storagePath (created if needed)
// and returns the file path.
func GuardarFacturaPDF(storagePath, empresa string, f *dto.FacturaResponse) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := RutaFacturaPDF(storagePath, f.ID)

	pdf := construirFacturaPDF(empresa, f)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// EscribirFacturaPDF renders the invoice straight into w.
func EscribirFacturaPDF(w io.Writer, empresa string, f *dto.FacturaResponse) error {
	pdf := construirFacturaPDF(empresa, f)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

func construirFacturaPDF(empresa string, f *dto.FacturaResponse) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(fmt.Sprintf("Factura N° %d", f.NumConsecutivo)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Fecha: "+f.Fecha, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Estado: "+f.Estado, "", 1, "L", false, 0, "")
	if f.Entidad != "" {
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s: %s", f.ClienteOProveedor, f.Entidad)), "", 1, "L", false, 0, "")
	}
	if f.Nota != nil && *f.Nota != "" {
		pdf.MultiCell(contentW, 5, tr("Nota: "+*f.Nota), "", "L", false)
	}
	pdf.Ln(4)

	// ── Lines ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.14
	col3 := contentW * 0.20
	col4 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Descripcion", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range f.Servicios {
		cant := decimal.NewFromInt(int64(s.Cantidad))
		pdf.CellFormat(col1, 6, tr(recortar(s.Descripcion, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d %s", s.Cantidad, s.UnidadMedida), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+s.Importe.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+s.Importe.Mul(cant).StringFixed(2), "", 1, "R", false, 0, "")
	}
	for _, p := range f.Productos {
		nombre := p.Nombre
		if nombre == "" {
			nombre = p.ProductoID
		}
		pdf.CellFormat(col1, 6, tr(recortar(nombre, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, p.Cantidad.StringFixed(2), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+p.PrecioVenta.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+p.Cantidad.Mul(p.PrecioVenta).StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	etiqueta := col1 + col2 + col3
	total := f.Totales.SumaGeneral
	pdf.SetFont("Helvetica", "", 9)
	if !f.Totales.SumaServicios.IsZero() {
		pdf.CellFormat(etiqueta, 6, "Servicios:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+f.Totales.SumaServicios.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !f.Totales.SumaProductos.IsZero() {
		pdf.CellFormat(etiqueta, 6, "Productos:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+f.Totales.SumaProductos.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if f.CargoAdicional != nil && !f.CargoAdicional.IsZero() {
		pdf.CellFormat(etiqueta, 6, "Cargo adicional:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+f.CargoAdicional.StringFixed(2), "", 1, "R", false, 0, "")
		total = total.Add(*f.CargoAdicional)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(etiqueta, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	return pdf
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
