// Package document 申请摘要文档的渲染与存储
package document

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	appdomain "github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// SummaryInput 摘要文档渲染输入
type SummaryInput struct {
	Application *appdomain.Application
	JobTitle    string
	CompanyName string
}

// RenderSummary 渲染申请摘要 PDF
func RenderSummary(input SummaryInput) ([]byte, error) {
	app := input.Application
	if app == nil {
		return nil, fmt.Errorf("application is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Application %s", app.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Application Summary")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	writeRow(pdf, "Application", app.ID)
	writeRow(pdf, "Position", input.JobTitle)
	writeRow(pdf, "Company", input.CompanyName)
	writeRow(pdf, "Status", string(app.Status))
	writeRow(pdf, "Submitted", app.SubmittedAt.Format(time.RFC1123))
	writeRow(pdf, "Valid until", app.ValidityUntil.Format(time.RFC1123))
	pdf.Ln(6)

	if app.CandidateStatement != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 10, "Candidate Statement")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, app.CandidateStatement, "", "L", false)
		pdf.Ln(4)
	}

	if len(app.Form) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 10, "Submitted Form")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 11)
		keys := make([]string, 0, len(app.Form))
		for k := range app.Form {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeRow(pdf, k, fmt.Sprintf("%v", app.Form[k]))
		}
		pdf.Ln(4)
	}

	if len(app.Attachments) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 10, "Attachments")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 11)
		for _, a := range app.Attachments {
			pdf.Cell(0, 6, "- "+a)
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, value, "", "L", false)
}
