package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medlens/pkg/common"
	"medlens/pkg/medlens/api"
	"medlens/pkg/medlens/domain"
)

const (
	// ConfigKeyListenAddress the address the HTTP server binds to
	ConfigKeyListenAddress = "listenAddress"

	maxUploadBytes = 32 << 20
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
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Post("/analyze", analyzeHandler(medLens))
	address := config.GetStringOrDefault(ConfigKeyListenAddress, ":8080")
	fmt.Println("listening on " + address)
	return http.ListenAndServe(address, router)
}

// analyzeHandler accepts a multipart form with an `image` file plus optional patient context fields, runs
// the pipeline and returns the full PipelineResult as JSON. A failed pipeline is still HTTP 200: the
// failure is data (the Success flag and Error field), not a transport error.
func analyzeHandler(medLens api.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "missing image file", http.StatusBadRequest)
			return
		}
		defer func() {
			_ = file.Close()
		}()
		if !common.IsImageFormat(header.Filename) {
			http.Error(w, "unsupported image format", http.StatusBadRequest)
			return
		}
		imagePath, err := saveUpload(file, header.Filename)
		if err != nil {
			http.Error(w, "failed to store upload", http.StatusInternalServerError)
			return
		}
		defer func() {
			_ = os.Remove(imagePath)
		}()
		patientContext := &domain.PatientContext{
			Age:                     r.FormValue("age"),
			Sex:                     r.FormValue("sex"),
			ChiefComplaint:          r.FormValue("chief_complaint"),
			HistoryOfPresentIllness: r.FormValue("history_of_present_illness"),
			PastMedicalHistory:      r.FormValue("past_medical_history"),
			Medications:             r.FormValue("medications"),
			Allergies:               r.FormValue("allergies"),
			AdditionalNotes:         r.FormValue("additional_notes"),
		}
		result := medLens.Analyze(imagePath, patientContext, r.FormValue("clinical_context"), nil)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func saveUpload(file io.Reader, filename string) (string, error) {
	target, err := os.CreateTemp("", "medlens-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = target.Close()
	}()
	if _, err := io.Copy(target, file); err != nil {
		return "", err
	}
	return target.Name(), nil
}
