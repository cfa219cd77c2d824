package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"asha_connect_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

const receiptHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #222; margin: 0; }
  .header { text-align: center; border-bottom: 2px solid #222; padding-bottom: 12px; }
  .header h1 { margin: 0; font-size: 22px; }
  .header p { margin: 4px 0 0; font-size: 12px; color: #555; }
  table { width: 100%; margin-top: 24px; border-collapse: collapse; }
  td { padding: 8px 4px; border-bottom: 1px solid #ddd; font-size: 14px; }
  td.label { width: 40%; color: #555; }
  .amount { font-size: 18px; font-weight: bold; }
  .footer { margin-top: 32px; font-size: 11px; color: #777; }
</style>
</head>
<body>
<div class="header">
  <h1>Asha Connect Foundation</h1>
  <p>Donation Receipt</p>
</div>
<table>
  <tr><td class="label">Receipt No.</td><td>DON-{{.ID}}</td></tr>
  <tr><td class="label">Date</td><td>{{.Date}}</td></tr>
  <tr><td class="label">Donor</td><td>{{.FullName}}</td></tr>
  <tr><td class="label">Email</td><td>{{.Email}}</td></tr>
  <tr><td class="label">Mobile</td><td>{{.Mobile}}</td></tr>
  {{if .PAN}}<tr><td class="label">PAN</td><td>{{.PAN}}</td></tr>{{end}}
  <tr><td class="label">Amount</td><td class="amount">&#8377; {{printf "%.2f" .Amount}}</td></tr>
</table>
<div class="footer">
  <p>Thank you for supporting our work. This receipt acknowledges the
  contribution described above.</p>
</div>
</body>
</html>`

// RenderReceiptHTML renders the donation receipt HTML document
func RenderReceiptHTML(donation *models.Donation) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptHTMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse receipt template: %w", err)
	}

	data := struct {
		ID       uint
		Date     string
		FullName string
		Email    string
		Mobile   string
		PAN      string
		Amount   float64
	}{
		ID:       donation.ID,
		Date:     donation.CreatedAt.Format("02 Jan 2006"),
		FullName: donation.FullName,
		Email:    donation.Email,
		Mobile:   donation.Mobile,
		PAN:      donation.PAN,
		Amount:   donation.Amount,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute receipt template: %w", err)
	}
	return buf.String(), nil
}

// GenerateDonationReceipt renders the receipt for a donation to PDF using
// headless Chrome.
func GenerateDonationReceipt(donation *models.Donation) ([]byte, error) {
	htmlContent, err := RenderReceiptHTML(donation)
	if err != nil {
		return nil, err
	}
	return generatePDF(htmlContent)
}

// generatePDF renders HTML content to an A4 portrait PDF
func generatePDF(htmlContent string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	const (
		paperWidth  = 8.27 // A4 inches
		paperHeight = 11.69
		margin      = 1.0
	)

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
