package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"medlens/pkg/common"
	"medlens/pkg/medlens/api"
	"medlens/pkg/medlens/domain"
	"medlens/pkg/medlens/infrastructure/pdfreport"
	"medlens/pkg/medlens/infrastructure/web"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		config = common.NewConfig()
	}
	medLens := api.NewAPI(config)
	pdfWriter := pdfreport.NewWriter(config)
	urlFinder := web.NewURLFinder()
	patientContext := &domain.PatientContext{}
	var lastResult *domain.PipelineResult
	fmt.Println("MedLens console. Type an image path (optionally followed by a short clinical context) to analyze.")
	fmt.Println("Context commands: :age :sex :complaint :history :pmh :medications :allergies :notes :reset :pdf <path>")
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			handleCommand(line, patientContext, lastResult, pdfWriter)
			continue
		}
		result, err := analyze(medLens, urlFinder, patientContext, line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		lastResult = result
		printResult(result)
	}
	return nil
}

func handleCommand(line string, patientContext *domain.PatientContext, lastResult *domain.PipelineResult, pdfWriter *pdfreport.Writer) {
	command, argument, _ := strings.Cut(line[1:], " ")
	argument = strings.TrimSpace(argument)
	switch command {
	case "age":
		patientContext.Age = argument
	case "sex":
		patientContext.Sex = argument
	case "complaint":
		patientContext.ChiefComplaint = argument
	case "history":
		patientContext.HistoryOfPresentIllness = argument
	case "pmh":
		patientContext.PastMedicalHistory = argument
	case "medications":
		patientContext.Medications = argument
	case "allergies":
		patientContext.Allergies = argument
	case "notes":
		patientContext.AdditionalNotes = argument
	case "reset":
		*patientContext = domain.PatientContext{}
		fmt.Println("patient context cleared")
	case "pdf":
		if lastResult == nil {
			fmt.Println("nothing to export yet, run an analysis first")
			return
		}
		if argument == "" {
			argument = "medlens-report.pdf"
		}
		if err := pdfWriter.Write(lastResult, argument); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("report written to " + argument)
	default:
		fmt.Println("unknown command: " + command)
	}
}

// analyze treats the first token of the line as the image (a local path or a URL, URLs are downloaded to a
// temp file first) and the rest as the optional clinical context.
func analyze(medLens api.API, urlFinder common.URLFinder, patientContext *domain.PatientContext, line string) (*domain.PipelineResult, error) {
	imageRef, clinicalContext, _ := strings.Cut(line, " ")
	clinicalContext = strings.TrimSpace(clinicalContext)
	imagePath := imageRef
	if urls := urlFinder.FindURLs(imageRef); len(urls) != 0 {
		if !common.IsImageFormat(urls[0]) {
			return nil, fmt.Errorf("'%s' does not look like an image URL", urls[0])
		}
		imagePath = filepath.Join(os.TempDir(), "medlens-"+filepath.Base(urls[0]))
		if err := common.DownloadFromURL(urls[0], imagePath); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(imagePath); err != nil {
		return nil, err
	}
	onProgress := func(stage string, fraction float64, message string) {
		fmt.Printf("[%3.0f%%] %s...\n", fraction*100, message)
	}
	return medLens.Analyze(imagePath, patientContext, clinicalContext, onProgress), nil
}

func printResult(result *domain.PipelineResult) {
	if !result.Success {
		fmt.Println("pipeline failed: " + result.Error)
		if result.VisualFindings != nil {
			fmt.Println("\npartial visual findings:\n" + result.VisualFindings.Description)
		}
		return
	}
	fmt.Println("\n=== SOAP NOTE ===")
	fmt.Println(result.SOAPNote())
	assessment := result.ClinicalAssessment
	if len(assessment.DifferentialDiagnosis) > 0 {
		fmt.Println("\n=== DIFFERENTIAL DIAGNOSIS ===")
		for i, diagnosis := range assessment.DifferentialDiagnosis {
			fmt.Printf("%d. %s\n", i+1, diagnosis)
		}
	}
	fmt.Println("\nUrgency: " + assessment.Urgency)
	report := result.PatientReport
	fmt.Println("\n=== PATIENT REPORT ===")
	fmt.Println(report.Summary)
	if report.WhatWeFound != "" {
		fmt.Println("\nWhat we found: " + report.WhatWeFound)
	}
	if report.WhatItMightMean != "" {
		fmt.Println("\nWhat it might mean: " + report.WhatItMightMean)
	}
	if report.NextSteps != "" {
		fmt.Println("\nNext steps: " + report.NextSteps)
	}
	for _, question := range report.QuestionsToAsk {
		fmt.Println("  ? " + question)
	}
	fmt.Printf("\nReadability grade: %.1f\n", report.FleschKincaidGrade)
	fmt.Println("\n" + report.Disclaimer)
	fmt.Printf("\nTimings: visual %.1fs, reasoning %.1fs, report %.1fs (total %.1fs)\n",
		result.Timings[domain.StageVisualAnalysis],
		result.Timings[domain.StageClinicalReasoning],
		result.Timings[domain.StagePatientReport],
		result.TotalTime,
	)
}
