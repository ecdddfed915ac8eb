package support

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/morphium/internal/server"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// RegisterServerSteps registers steps for the HTTP API.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the morph server is running$`, testCtx.theMorphServerIsRunning)
	sc.Step(`^I request "([^"]*)"$`, testCtx.iRequestEndpoint)
	sc.Step(`^I morph "([^"]*)" and "([^"]*)" with lines "([^"]*)" at alpha (\d+(?:\.\d+)?)$`, testCtx.iMorphImages)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response should report success$`, testCtx.theResponseShouldReportSuccess)
}

// theMorphServerIsRunning starts an in-process test server with defaults.
func (testCtx *TestContext) theMorphServerIsRunning() error {
	srv, err := server.NewServer(server.Config{
		CORSOrigin:  "*",
		MaxUploadMB: 10,
		TimeoutSec:  60,
		WarpParams:  warp.DefaultParams(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	testServer := httptest.NewServer(mux)
	testCtx.ServerURL = testServer.URL
	testCtx.serverCleanup = testServer.Close
	return nil
}

func (testCtx *TestContext) iRequestEndpoint(path string) error {
	resp, err := http.Get(testCtx.ServerURL + path) //nolint:noctx // Test request with server-managed lifetime
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return testCtx.recordResponse(resp)
}

// iMorphImages uploads two fixture images and a shared line file to /morph.
func (testCtx *TestContext) iMorphImages(imageA, imageB, lines string, alpha float64) error {
	linesData, err := os.ReadFile(testCtx.TempPath(lines)) //nolint:gosec // G304: Test fixture with controlled path
	if err != nil {
		return fmt.Errorf("failed to read line file: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for field, name := range map[string]string{"image_a": imageA, "image_b": imageB} {
		data, err := os.ReadFile(testCtx.TempPath(name)) //nolint:gosec // G304: Test fixture with controlled path
		if err != nil {
			return fmt.Errorf("failed to read image %s: %w", name, err)
		}
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			return err
		}
		if _, err := part.Write(data); err != nil {
			return err
		}
	}

	for field, value := range map[string]string{
		"lines_a": string(linesData),
		"lines_b": string(linesData),
		"alpha":   fmt.Sprintf("%g", alpha),
	} {
		if err := writer.WriteField(field, value); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := http.Post(testCtx.ServerURL+"/morph", writer.FormDataContentType(), body) //nolint:noctx // Test request with server-managed lifetime
	if err != nil {
		return fmt.Errorf("morph request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return testCtx.recordResponse(resp)
}

func (testCtx *TestContext) recordResponse(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(data)
	return nil
}

func (testCtx *TestContext) theResponseStatusShouldBe(status int) error {
	if testCtx.LastHTTPStatusCode != status {
		return fmt.Errorf("expected status %d, got %d:\n%s",
			status, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, expected) {
		return fmt.Errorf("response does not contain %q:\n%s", expected, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldReportSuccess() error {
	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !payload.Success {
		return fmt.Errorf("response reports failure:\n%s", testCtx.LastHTTPResponse)
	}
	return nil
}
