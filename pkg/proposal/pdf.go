package proposal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// ValidFor is how long a proposal stays open.
const ValidFor = 30 * 24 * time.Hour

const (
	company     = "JAVANET ICT SOLUTIONS"
	dateLayout  = "January 02, 2006"
	minPDFBytes = 100
)

var letterhead = []string{
	"House 26, T.O.S Benson Crescent, Utako, Abuja, Nigeria",
	"Phone: +234 703 067 3089 | Email: info@javanetict.com",
	"Website: www.javanetict.com",
}

var (
	cbtFeatures = []string{
		"Advanced question bank management system",
		"Automated grading and analytics dashboard",
		"Secure, Role-Based Authentication",
		"Multi-format question support",
	}
	liveFeatures = []string{
		"HD video conferencing with virtual whiteboard",
		"Intelligent Matching Engine",
		"Smart Attendance & Payroll",
		"Teacher Recruitment Suite",
	}
	scopeItems = []string{
		"Custom platform branding with institution's colors and logo",
		"Complete source code transfer and ownership rights",
		"Full installation and configuration on your servers",
		"Administrator and teacher training sessions",
		"One year of comprehensive technical support",
		"Lifetime system updates and security patches",
	}
)

type rgb struct{ r, g, b int }

var (
	blue  = rgb{13, 110, 253}
	green = rgb{25, 135, 84}
	grey  = rgb{102, 102, 102}
	ink   = rgb{51, 51, 51}
)

// Amount is a deployment fee as sent by clients: either a bare string or a
// fee object carrying an "amount" field.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var obj struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("deployment_fee: %w", err)
	}
	*a = Amount(obj.Amount)
	return nil
}

// Data is everything printed on a proposal.
type Data struct {
	ProposalID        string `json:"proposal_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Institution       string `json:"institution"`
	Phone             string `json:"phone"`
	Country           string `json:"country"`
	NeedsCBT          bool   `json:"needs_ctb"`
	NeedsLiveClasses  bool   `json:"needs_live_classes"`
	EstimatedStudents int    `json:"estimated_students"`
	EstimatedTeachers int    `json:"estimated_teachers"`
	DeploymentFee     Amount `json:"deployment_fee"`
}

// Filename is the attachment name for a proposal PDF.
func Filename(id, institution string) string {
	if id == "" {
		id = "temp"
	}
	return fmt.Sprintf("Proposal_%s_%s.pdf", id, strings.ReplaceAll(institution, " ", "_"))
}

// RenderPDF writes the proposal document for d, dated now.
func RenderPDF(w io.Writer, d Data, now time.Time) error {
	if d.ProposalID == "" {
		d.ProposalID = TempID(now)
	}
	if d.DeploymentFee == "" {
		d.DeploymentFee = "N/A"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Deployment Proposal "+d.ProposalID, true)
	pdf.SetAuthor(company, true)
	pdf.SetCreator("jnsuite", true)
	pdf.SetCreationDate(now)

	doc := &document{pdf: pdf, tr: translator(pdf)}
	doc.render(d, now)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to render proposal: %w", err)
	}
	if buf.Len() < minPDFBytes {
		return fmt.Errorf("PDF too small (%d bytes)", buf.Len())
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// translator maps text onto the cp1252 core fonts.
func translator(pdf *fpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	unsupported := strings.NewReplacer("₦", "NGN ", "✓", "-")
	return func(s string) string {
		return tr(unsupported.Replace(s))
	}
}

type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func (doc *document) render(d Data, now time.Time) {
	pdf := doc.pdf
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	doc.width = pageW - left - right

	expires := now.Add(ValidFor)

	doc.font("B", 22, blue)
	doc.centered(12, company)
	doc.font("", 12, grey)
	for _, line := range letterhead {
		doc.centered(6, line)
	}
	pdf.Ln(3)
	doc.rule(1, blue, 1)
	pdf.Ln(6)

	doc.font("B", 10, blue)
	for _, row := range [][2]string{
		{"PROPOSAL ID", "#" + d.ProposalID},
		{"DATE", now.Format(dateLayout)},
		{"VALID UNTIL", expires.Format(dateLayout)},
	} {
		pdf.CellFormat(50, 7, doc.tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(75, 7, doc.tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	doc.heading("TO:")
	doc.font("B", 10, ink)
	doc.line(d.Name)
	doc.font("", 10, ink)
	doc.line(d.Institution)
	doc.line(d.Country)
	doc.line("Email: " + d.Email)
	phone := d.Phone
	if phone == "" {
		phone = "Not provided"
	}
	doc.line("Phone: " + phone)
	pdf.Ln(8)

	doc.font("B", 16, blue)
	doc.centered(9, "CUSTOM E-LEARNING PLATFORM DEPLOYMENT PROPOSAL")
	pdf.Ln(2)
	doc.rule(0.6, blue, 2)
	pdf.Ln(6)

	doc.heading("1. EXECUTIVE SUMMARY")
	doc.font("", 10, ink)
	doc.paragraph(fmt.Sprintf(
		"This formal proposal outlines the comprehensive one-time deployment package for a "+
			"customized e-learning platform tailored specifically for %s located in %s. "+
			"The proposed solution is designed to support approximately %d students and %d teachers.",
		d.Institution, d.Country, d.EstimatedStudents, d.EstimatedTeachers))
	pdf.Ln(8)

	doc.heading("2. ONE-TIME DEPLOYMENT FEE")
	doc.font("B", 20, green)
	doc.centered(10, string(d.DeploymentFee))
	doc.font("", 9, grey)
	doc.centered(5, "No Monthly Fees • Complete Ownership • Source Code Included")
	pdf.Ln(8)

	doc.heading("3. PLATFORM MODULES INCLUDED")
	if d.NeedsCBT {
		doc.module("✓ Computer-Based Testing (CBT) System", blue, cbtFeatures)
	}
	if d.NeedsLiveClasses {
		doc.module("✓ Live Interactive Classroom", green, liveFeatures)
	}
	pdf.Ln(4)

	doc.heading("4. SCOPE OF DEPLOYMENT")
	doc.font("", 10, ink)
	for _, item := range scopeItems {
		doc.line("• " + item)
	}
	pdf.Ln(10)

	doc.font("", 8, grey)
	col := doc.width / 3
	for _, row := range [][3]string{
		{company, "PROPOSAL VALID FOR 30 DAYS", "AUTHORIZED SIGNATURE"},
		{"Building Digital Learning Ecosystems", "Issue Date: " + now.Format(dateLayout), "_________________________"},
		{"Transforming Education Through Technology", "Expiry: " + expires.Format(dateLayout), "CEO, JAVANET ICT SOLUTIONS LTD"},
	} {
		for i, cell := range row {
			ln := 0
			if i == len(row)-1 {
				ln = 1
			}
			pdf.CellFormat(col, 6, doc.tr(cell), "", ln, "C", false, 0, "")
		}
	}
}

func (doc *document) font(style string, size float64, c rgb) {
	doc.pdf.SetFont("Helvetica", style, size)
	doc.pdf.SetTextColor(c.r, c.g, c.b)
}

func (doc *document) heading(s string) {
	doc.font("B", 14, ink)
	doc.pdf.CellFormat(0, 8, doc.tr(s), "", 1, "L", false, 0, "")
	doc.pdf.Ln(1)
}

func (doc *document) centered(h float64, s string) {
	doc.pdf.CellFormat(0, h, doc.tr(s), "", 1, "C", false, 0, "")
}

func (doc *document) line(s string) {
	doc.pdf.CellFormat(0, 5, doc.tr(s), "", 1, "L", false, 0, "")
}

func (doc *document) paragraph(s string) {
	doc.pdf.MultiCell(0, 5, doc.tr(s), "", "J", false)
}

// rule draws a centered horizontal line over a fraction of the text width.
func (doc *document) rule(width float64, c rgb, thickness float64) {
	pdf := doc.pdf
	left, _, _, _ := pdf.GetMargins()
	span := doc.width * width
	x := left + (doc.width-span)/2
	y := pdf.GetY()
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(thickness * 0.35)
	pdf.Line(x, y, x+span, y)
}

func (doc *document) module(title string, c rgb, features []string) {
	pdf := doc.pdf
	left, _, _, _ := pdf.GetMargins()

	doc.font("B", 11, c)
	pdf.SetX(left + 5)
	pdf.CellFormat(0, 6, doc.tr(title), "", 1, "L", false, 0, "")
	doc.font("", 9, ink)
	for _, f := range features {
		pdf.SetX(left + 10)
		pdf.CellFormat(0, 5, doc.tr("• "+f), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}
