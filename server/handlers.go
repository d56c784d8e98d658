package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ByLCY/bookprint/layout"
	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/photo"
	"github.com/ByLCY/bookprint/printspec"
)

type errorResponse struct {
	Error string `json:"error"`
}

type spineResponse struct {
	PageCount  int     `json:"pageCount"`
	SpineWidth float64 `json:"spineWidth"`
	InRange    bool    `json:"inRange"`
}

type coverResponse struct {
	PageCount int               `json:"pageCount"`
	InRange   bool              `json:"inRange"`
	Cover     printspec.Cover   `json:"cover"`
	Panels    []printspec.Panel `json:"panels"`
}

type pagesResponse struct {
	StopCount        int `json:"stopCount"`
	PageCount        int `json:"pageCount"`
	FrontMatterPages int `json:"frontMatterPages"`
	BackMatterPages  int `json:"backMatterPages"`
}

type structureResponse struct {
	pagesResponse
	StoryPages int                  `json:"storyPages"`
	Pages      []printspec.BookPage `json:"pages"`
}

type analyzeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type analyzeResponse struct {
	printspec.ImageAnalysis
	Printable bool        `json:"printable"`
	Photo     *photo.Info `json:"photo,omitempty"`
}

type pricingResponse struct {
	printspec.Pricing
	EstimatedMarginCents int64 `json:"estimatedMarginCents"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// intParam reads a required integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer, got %q", name, raw)
	}
	return n, nil
}

// stopsParam reads the stops query parameter and rejects counts whose book
// would exceed the format's page limit.
func (s *Server) stopsParam(r *http.Request) (int, error) {
	stops, err := intParam(r, "stops")
	if err != nil {
		return 0, err
	}
	if limit := s.format.MaxStops(); stops < 0 || stops > limit {
		return 0, fmt.Errorf("stops must be between 0 and %d for %s, got %d", limit, s.format.Name, stops)
	}
	return stops, nil
}

func (s *Server) inRange(pages int) bool {
	return pages >= s.format.MinPages && pages <= s.format.MaxPages
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "format": s.format.Name})
}

func (s *Server) handleSpine(w http.ResponseWriter, r *http.Request) {
	pages, err := intParam(r, "pages")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncComputation("spine")
	writeJSON(w, http.StatusOK, spineResponse{
		PageCount:  pages,
		SpineWidth: printspec.SpineWidth(pages),
		InRange:    s.inRange(pages),
	})
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	pages, err := intParam(r, "pages")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncComputation("cover")
	c := s.format.Cover(pages)
	writeJSON(w, http.StatusOK, coverResponse{
		PageCount: pages,
		InRange:   s.inRange(pages),
		Cover:     c,
		Panels:    s.format.Panels(c),
	})
}

func (s *Server) pageCounts(stops int) pagesResponse {
	return pagesResponse{
		StopCount:        stops,
		PageCount:        s.format.PrintedPageCount(stops),
		FrontMatterPages: printspec.FrontMatterPages(stops),
		BackMatterPages:  printspec.BackMatterPages(stops),
	}
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	stops, err := s.stopsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncComputation("pages")
	writeJSON(w, http.StatusOK, s.pageCounts(stops))
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	stops, err := s.stopsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncComputation("structure")
	pages := s.format.BookStructure(stops)
	writeJSON(w, http.StatusOK, structureResponse{
		pagesResponse: s.pageCounts(stops),
		StoryPages:    printspec.StoryPageCount(pages),
		Pages:         pages,
	})
}

// handleAnalyze accepts either a JSON body {"width":…,"height":…} or a
// multipart upload in the "file" field.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var resp analyzeResponse
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, uploadStatus(err), fmt.Sprintf("read upload: %v", err))
			return
		}
		defer file.Close()
		report, err := photo.Analyze(file, s.format)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, photo.ErrNotImage) {
				status = http.StatusUnsupportedMediaType
			}
			writeError(w, status, err.Error())
			return
		}
		resp.ImageAnalysis = report.Analysis
		resp.Photo = &report.Info
	} else {
		var req analyzeRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, uploadStatus(err), fmt.Sprintf("invalid JSON body: %v", err))
			return
		}
		resp.ImageAnalysis = s.format.AnalyzeImage(req.Width, req.Height)
	}

	resp.Printable = resp.Status.Printable()
	metrics.IncImageAnalysis(string(resp.Status))
	writeJSON(w, http.StatusOK, resp)
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (s *Server) handleCoverTemplate(w http.ResponseWriter, r *http.Request) {
	pages, err := intParam(r, "pages")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := layout.BuildCover(s.format, pages, layout.BuildOptions{
		Guides: true,
		Meta:   layout.DocumentMeta{Title: fmt.Sprintf("Cover template, %d pages", pages)},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := s.render.Render(res)
	if err != nil {
		log.Error().Err(err).Int("pages", pages).Msg("render cover template")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	metrics.IncProof("cover")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="cover-%d.pdf"`, pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricingResponse{
		Pricing:              s.pricing,
		EstimatedMarginCents: s.pricing.EstimatedMarginCents(),
	})
}
