package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 40px; }
h1 { color: #2563eb; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
td { padding: 8px 0; border-bottom: 1px solid #e5e7eb; }
td.label { color: #6b7280; width: 40%; }
.total { font-size: 20px; font-weight: bold; }
</style>
</head>
<body>
<h1>Booking Receipt</h1>
<p>Reference {{.Reference}} &middot; issued {{.IssuedAt}}</p>
<table>
<tr><td class="label">Service</td><td>{{.ServiceTitle}}</td></tr>
<tr><td class="label">Provider</td><td>{{.ProviderName}}</td></tr>
<tr><td class="label">Customer</td><td>{{.CustomerName}}</td></tr>
<tr><td class="label">Scheduled</td><td>{{.Scheduled}}</td></tr>
<tr><td class="label">Duration</td><td>{{.Duration}}</td></tr>
<tr><td class="label">Address</td><td>{{.Address}}</td></tr>
<tr><td class="label">Status</td><td>{{.Status}}</td></tr>
<tr><td class="label">Total</td><td class="total">{{.Total}}</td></tr>
</table>
</body>
</html>`

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// PDFRenderer turns an HTML document into PDF bytes. Tests replace it.
var PDFRenderer = generatePDFFromHTML

type receiptData struct {
	Reference    string
	IssuedAt     string
	ServiceTitle string
	ProviderName string
	CustomerName string
	Scheduled    string
	Duration     string
	Address      string
	Status       string
	Total        string
}

// RenderReceiptHTML expects a booking loaded with its Service, User and
// Provider.
func RenderReceiptHTML(booking *models.Booking) (string, error) {
	data := receiptData{
		Reference: booking.ID.String(),
		IssuedAt:  timeNow().UTC().Format("January 2, 2006"),
		Scheduled: booking.BookingDateTime.UTC().Format("Mon Jan 2, 2006 15:04 MST"),
		Duration:  fmt.Sprintf("%g h", booking.Duration),
		Address:   booking.Address,
		Status:    string(booking.Status),
		Total:     fmt.Sprintf("%.2f", booking.TotalPrice),
	}
	if booking.Service != nil {
		data.ServiceTitle = booking.Service.Title
	}
	if booking.Provider != nil {
		data.ProviderName = booking.Provider.Name
	}
	if booking.User != nil {
		data.CustomerName = booking.User.Name
	}

	var rendered bytes.Buffer
	if err := receiptTmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func GenerateReceiptPDF(booking *models.Booking) ([]byte, error) {
	html, err := RenderReceiptHTML(booking)
	if err != nil {
		return nil, err
	}
	return PDFRenderer(html)
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
