package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

const (
	pageMargin     = 15.0
	leftShare      = 0.70
	columnPadding  = 4.0
	imageShare     = 0.90
	maxImageHeight = 140.0
	fontFamily     = "Helvetica"
)

var _ ports.ProductSheetRenderer = (*ProductSheet)(nil)

// ProductSheet renders a one-page A4 instrument sheet: image and description on
// the left, commercial details on the right behind a gray rule.
type ProductSheet struct{}

func NewProductSheet() *ProductSheet {
	return &ProductSheet{}
}

func (ProductSheet) Render(instrument *catalogdomain.Instrument, image *domain.Image) ([]byte, error) {
	if instrument == nil {
		return nil, fmt.Errorf("instrument is nil")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	leftWidth := usable * leftShare
	rightX := pageMargin + leftWidth
	rightWidth := usable - leftWidth
	top := pageMargin

	leftBottom := renderLeftColumn(pdf, tr, instrument, image, top, leftWidth)

	pdf.SetLeftMargin(rightX + columnPadding)
	pdf.SetXY(rightX+columnPadding, top)
	textWidth := rightWidth - columnPadding

	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(211, 211, 211)
	pdf.MultiCell(textWidth, 5, tr("Sold: "+strconv.FormatInt(instrument.UnitsSold, 10)), "", "L", false)

	pdf.SetFont(fontFamily, "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(textWidth, 8, tr(instrument.Name), "", "L", false)

	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(textWidth, 6, tr("Brand: "+instrument.Brand), "", "L", false)
	pdf.MultiCell(textWidth, 6, tr("Model: "+instrument.Model), "", "L", false)

	pdf.Ln(2)
	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(textWidth, 10, "$"+instrument.Price.StringFixed(2), "", "L", false)

	pdf.Ln(2)
	pdf.SetFont(fontFamily, "B", 11)
	if instrument.HasFreeShipping() {
		pdf.SetTextColor(0, 255, 0)
		pdf.MultiCell(textWidth, 6, "Shipping cost: Free", "", "L", false)
	} else {
		pdf.SetTextColor(255, 200, 0)
		pdf.MultiCell(textWidth, 6, tr("Shipping cost: $"+instrument.ShippingCost), "", "L", false)
	}
	rightBottom := pdf.GetY()
	pdf.SetLeftMargin(pageMargin)

	bottom := leftBottom
	if rightBottom > bottom {
		bottom = rightBottom
	}
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(0.3)
	pdf.Line(rightX, top, rightX, bottom)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderLeftColumn draws the image and the description and returns the y where it stopped.
func renderLeftColumn(pdf *fpdf.Fpdf, tr func(string) string, instrument *catalogdomain.Instrument, image *domain.Image, top, width float64) float64 {
	y := top
	if image != nil {
		y = placeImage(pdf, image, top, width)
	}
	pdf.SetXY(pageMargin, y+columnPadding)
	textWidth := width - columnPadding

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.MultiCell(textWidth, 6, "Description:", "", "L", false)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(textWidth, 5, tr(instrument.Description), "", "L", false)
	return pdf.GetY()
}

// placeImage embeds the image centered in the column. A broken image is skipped.
func placeImage(pdf *fpdf.Fpdf, image *domain.Image, top, columnWidth float64) float64 {
	imageType := fpdfImageType(image.Format)
	if imageType == "" {
		return top
	}
	options := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader(image.Name, options, bytes.NewReader(image.Data))
	if !pdf.Ok() || info == nil || info.Width() == 0 {
		pdf.ClearError()
		return top
	}
	width := columnWidth * imageShare
	height := width * info.Height() / info.Width()
	if height > maxImageHeight {
		width = width * maxImageHeight / height
		height = maxImageHeight
	}
	x := pageMargin + (columnWidth-width)/2
	pdf.ImageOptions(image.Name, x, top, width, height, false, options, 0, "")
	if !pdf.Ok() {
		pdf.ClearError()
		return top
	}
	return top + height
}

func fpdfImageType(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	default:
		return ""
	}
}
