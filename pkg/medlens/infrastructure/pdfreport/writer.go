package pdfreport

import (
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"medlens/pkg/common"
	"medlens/pkg/medlens/domain"
)

// ConfigKeyFontPath path to a TTF font used for the PDF. When unset, a few well-known DejaVu locations are probed.
const ConfigKeyFontPath = "reportFontPath"

var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontName       = "report"
	textWidth      = 500.0
	bottomMargin   = 780.0
	lineHeight     = 14.0
	headingSize    = 14
	bodySize       = 11
	titleSize      = 20
	disclaimerSize = 9
)

// Writer renders a completed pipeline result as a clinician-facing PDF: the SOAP note, differentials and
// workup first, the plain-language patient report after, the disclaimer always last.
type Writer struct {
	fontPath string
}

func NewWriter(config *common.Config) *Writer {
	return &Writer{fontPath: config.GetString(ConfigKeyFontPath)}
}

// Write renders `result` to the given path. Only the stages that completed are rendered, so a partial
// result still produces a useful document.
func (w *Writer) Write(result *domain.PipelineResult, outPath string) error {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()
	if err := w.loadFont(&pdf); err != nil {
		return err
	}

	if err := pdf.SetFont(fontName, "", titleSize); err != nil {
		return err
	}
	_ = pdf.Cell(nil, "MedLens Analysis Report")
	pdf.Br(24)
	if err := pdf.SetFont(fontName, "", bodySize); err != nil {
		return err
	}
	_ = pdf.Cell(nil, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Br(10)
	if !result.Success {
		_ = pdf.Cell(nil, "Pipeline error: "+result.Error)
		pdf.Br(10)
	}
	pdf.Br(10)

	if result.ClinicalAssessment != nil {
		assessment := result.ClinicalAssessment
		if err := w.writeSection(&pdf, "SOAP Note", assessment.SOAPNote()); err != nil {
			return err
		}
		if len(assessment.DifferentialDiagnosis) > 0 {
			if err := w.writeSection(&pdf, "Differential Diagnosis", "- "+strings.Join(assessment.DifferentialDiagnosis, "\n- ")); err != nil {
				return err
			}
		}
		if len(assessment.RecommendedWorkup) > 0 {
			if err := w.writeSection(&pdf, "Recommended Workup", "- "+strings.Join(assessment.RecommendedWorkup, "\n- ")); err != nil {
				return err
			}
		}
		if err := w.writeSection(&pdf, "Urgency", assessment.Urgency); err != nil {
			return err
		}
	} else if result.VisualFindings != nil {
		// Reasoning never ran, fall back to the raw visual findings.
		if err := w.writeSection(&pdf, "Visual Findings", result.VisualFindings.Description); err != nil {
			return err
		}
	}

	if report := result.PatientReport; report != nil {
		if err := w.writeSection(&pdf, "Summary For The Patient", report.Summary); err != nil {
			return err
		}
		if err := w.writeSection(&pdf, "What We Found", report.WhatWeFound); err != nil {
			return err
		}
		if err := w.writeSection(&pdf, "What It Might Mean", report.WhatItMightMean); err != nil {
			return err
		}
		if err := w.writeSection(&pdf, "Next Steps", report.NextSteps); err != nil {
			return err
		}
		if len(report.QuestionsToAsk) > 0 {
			if err := w.writeSection(&pdf, "Questions To Ask Your Doctor", "- "+strings.Join(report.QuestionsToAsk, "\n- ")); err != nil {
				return err
			}
		}
		if err := w.writeSection(&pdf, "Readability", fmt.Sprintf("Flesch-Kincaid grade level: %.1f", report.FleschKincaidGrade)); err != nil {
			return err
		}
	}

	if err := pdf.SetFont(fontName, "", disclaimerSize); err != nil {
		return err
	}
	disclaimer := domain.ReportDisclaimer
	if result.PatientReport != nil {
		disclaimer = result.PatientReport.Disclaimer
	}
	if err := w.writeParagraph(&pdf, disclaimer); err != nil {
		return err
	}

	return pdf.WritePdf(outPath)
}

func (w *Writer) loadFont(pdf *gopdf.GoPdf) error {
	paths := defaultFontPaths
	if w.fontPath != "" {
		paths = []string{w.fontPath}
	}
	var lastErr error
	for _, path := range paths {
		if err := pdf.AddTTFFont(fontName, path); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("failed to load a TTF font for the PDF report (install ttf-dejavu or set %s): %w", ConfigKeyFontPath, lastErr)
}

func (w *Writer) writeSection(pdf *gopdf.GoPdf, heading, body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if err := pdf.SetFont(fontName, "", headingSize); err != nil {
		return err
	}
	w.pageBreakIfNeeded(pdf)
	_ = pdf.Cell(nil, heading)
	pdf.Br(lineHeight + 4)
	if err := pdf.SetFont(fontName, "", bodySize); err != nil {
		return err
	}
	if err := w.writeParagraph(pdf, body); err != nil {
		return err
	}
	pdf.Br(10)
	return nil
}

func (w *Writer) writeParagraph(pdf *gopdf.GoPdf, text string) error {
	for _, paragraphLine := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraphLine) == "" {
			pdf.Br(lineHeight)
			continue
		}
		lines, err := pdf.SplitText(paragraphLine, textWidth)
		if err != nil {
			return err
		}
		for _, line := range lines {
			w.pageBreakIfNeeded(pdf)
			_ = pdf.Cell(nil, line)
			pdf.Br(lineHeight)
		}
	}
	return nil
}

func (w *Writer) pageBreakIfNeeded(pdf *gopdf.GoPdf) {
	if pdf.GetY() > bottomMargin {
		pdf.AddPage()
	}
}
