package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/morph"
	"github.com/MeKo-Tech/morphium/internal/utils"
	"github.com/MeKo-Tech/morphium/internal/version"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// morphHandler runs a two-image morph at a single alpha value.
//
// Expects a multipart form with files "image_a" and "image_b", JSON line
// sets in "lines_a" and "lines_b", and an "alpha" value in [0,1].
func (s *Server) morphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.parseUploadForm(w, r); err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return // error already written
	}

	imgA, err := s.formImage(w, r, "image_a")
	if err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}
	imgB, err := s.formImage(w, r, "image_b")
	if err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}

	linesA, err := s.formLines(w, r, "lines_a")
	if err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}
	linesB, err := s.formLines(w, r, "lines_b")
	if err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}

	alpha, err := formFloat(r, "alpha", 0.5)
	if err != nil || alpha < 0 || alpha > 1 {
		s.writeErrorResponse(w, "Invalid alpha value (expected 0..1)", http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}

	params, err := s.formParams(r)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid warp parameters: %v", err), http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	res, err := morph.Morph(ctx, imgA, imgB, linesA, linesB, alpha, params, warp.Options{Workers: s.warpWorkers})
	duration := time.Since(start)

	if err != nil {
		morphRequestsTotal.WithLabelValues("morph", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Morph failed: %v", err), http.StatusInternalServerError)
		return
	}

	morphRequestsTotal.WithLabelValues("morph", "success").Inc()
	morphProcessingDuration.WithLabelValues("morph").Observe(duration.Seconds())

	response := MorphResponse{
		Success: true,
		Alpha:   alpha,
		Blended: encodePNGBase64(res.Blended),
		TimeMS:  duration.Milliseconds(),
	}
	if formBool(r, "include_warped") {
		response.WarpedA = encodePNGBase64(res.WarpedA)
		response.WarpedB = encodePNGBase64(res.WarpedB)
	}

	s.writeJSONResponse(w, response)
}

// mergeHandler blends three images into one using barycentric weights.
//
// Expects files "image_1".."image_3", line sets "lines_1".."lines_3" and
// weight values "t1", "t2", "t3".
func (s *Server) mergeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.parseUploadForm(w, r); err != nil {
		morphRequestsTotal.WithLabelValues("merge", "error").Inc()
		return
	}

	var imgs [3]image.Image
	var lineSets [3]geometry.LineSet
	for i := 0; i < 3; i++ {
		img, err := s.formImage(w, r, fmt.Sprintf("image_%d", i+1))
		if err != nil {
			morphRequestsTotal.WithLabelValues("merge", "error").Inc()
			return
		}
		lines, err := s.formLines(w, r, fmt.Sprintf("lines_%d", i+1))
		if err != nil {
			morphRequestsTotal.WithLabelValues("merge", "error").Inc()
			return
		}
		imgs[i] = img
		lineSets[i] = lines
	}

	weights, err := formWeights(r)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid weights: %v", err), http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("merge", "error").Inc()
		return
	}

	params, err := s.formParams(r)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid warp parameters: %v", err), http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("merge", "error").Inc()
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	res, err := morph.MergeMultiple(ctx, imgs, lineSets, weights, params, warp.Options{Workers: s.warpWorkers})
	duration := time.Since(start)

	if err != nil {
		morphRequestsTotal.WithLabelValues("merge", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Merge failed: %v", err), http.StatusInternalServerError)
		return
	}

	morphRequestsTotal.WithLabelValues("merge", "success").Inc()
	morphProcessingDuration.WithLabelValues("merge").Observe(duration.Seconds())

	response := MergeResponse{
		Success: true,
		Weights: [3]float64{res.Weights.T1, res.Weights.T2, res.Weights.T3},
		Blended: encodePNGBase64(res.Blended),
		TimeMS:  duration.Milliseconds(),
	}
	for i, img := range res.Warped {
		response.Warped[i] = encodePNGBase64(img)
	}

	s.writeJSONResponse(w, response)
}

// gridHandler returns grid polylines displaced through the warp field, for
// client-side overlay rendering. No image upload is required.
func (s *Server) gridHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}

	width, errW := formInt(r, "width", 0)
	height, errH := formInt(r, "height", 0)
	spacing, errS := formInt(r, "spacing", s.gridSpacing)
	if errW != nil || errH != nil || errS != nil || width <= 0 || height <= 0 {
		s.writeErrorResponse(w, "Invalid grid dimensions", http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}

	srcLines, err := s.formLines(w, r, "lines_src")
	if err != nil {
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}
	dstLines, err := s.formLines(w, r, "lines_dst")
	if err != nil {
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}

	params, err := s.formParams(r)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid warp parameters: %v", err), http.StatusBadRequest)
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}

	grid := warp.GenerateGrid(width, height, spacing)
	warped, err := warp.WarpGridPoints(grid, srcLines, dstLines, params)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Grid warp failed: %v", err), http.StatusInternalServerError)
		morphRequestsTotal.WithLabelValues("grid", "error").Inc()
		return
	}

	morphRequestsTotal.WithLabelValues("grid", "success").Inc()

	response := GridResponse{Success: true, Polylines: make([][]gridPoint, len(warped))}
	for i, line := range warped {
		pts := make([]gridPoint, len(line))
		for j, p := range line {
			pts[j] = gridPoint{X: p.X, Y: p.Y}
		}
		response.Polylines[i] = pts
	}

	s.writeJSONResponse(w, response)
}

// parseUploadForm applies the upload size limit and parses the multipart form.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return err
	}
	return nil
}

// formImage reads and decodes an uploaded image file.
func (s *Server) formImage(w http.ResponseWriter, r *http.Request, field string) (image.Image, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("No %s file provided", field), http.StatusBadRequest)
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, fmt.Errorf("file too large: %d bytes", header.Size)
	}

	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return nil, err
	}
	return img, nil
}

// formLines decodes a JSON feature line set from a form value.
func (s *Server) formLines(w http.ResponseWriter, r *http.Request, field string) (geometry.LineSet, error) {
	raw := r.FormValue(field)
	if raw == "" {
		s.writeErrorResponse(w, fmt.Sprintf("Missing %s", field), http.StatusBadRequest)
		return nil, fmt.Errorf("missing form field %s", field)
	}

	var lines geometry.LineSet
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid %s JSON: %v", field, err), http.StatusBadRequest)
		return nil, err
	}
	if err := lines.Validate(); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid %s: %v", field, err), http.StatusBadRequest)
		return nil, err
	}
	return lines, nil
}

// formParams returns the server's warp parameters with any per-request overrides.
func (s *Server) formParams(r *http.Request) (warp.Params, error) {
	params := s.warpParams

	var err error
	if params.A, err = formFloat(r, "param_a", params.A); err != nil {
		return params, err
	}
	if params.B, err = formFloat(r, "param_b", params.B); err != nil {
		return params, err
	}
	if params.P, err = formFloat(r, "param_p", params.P); err != nil {
		return params, err
	}
	return params, params.Validate()
}

func formWeights(r *http.Request) (geometry.Weights, error) {
	w := geometry.EqualWeights()

	var err error
	if w.T1, err = formFloat(r, "t1", w.T1); err != nil {
		return w, err
	}
	if w.T2, err = formFloat(r, "t2", w.T2); err != nil {
		return w, err
	}
	if w.T3, err = formFloat(r, "t3", w.T3); err != nil {
		return w, err
	}
	return w.Normalize()
}

func formFloat(r *http.Request, field string, def float64) (float64, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func formInt(r *http.Request, field string, def int) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func formBool(r *http.Request, field string) bool {
	v, err := strconv.ParseBool(r.FormValue(field))
	return err == nil && v
}

// requestContext derives a context with the configured processing timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeoutSec <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), time.Duration(s.timeoutSec)*time.Second)
}

// encodePNGBase64 encodes an image as a base64 PNG string.
func encodePNGBase64(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, utils.ToNRGBA(img)); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response with the given status code.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding error response: %v\n", err)
	}
}
