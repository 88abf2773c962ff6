package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storystudio/config"
	"storystudio/internal/aiclient"
	"storystudio/internal/player"
	"storystudio/internal/scenes"
	"storystudio/internal/session"
	"storystudio/internal/worker"
	"storystudio/models"
)

type stubClient struct {
	contentErr error

	lastConvertFormat       models.ConvertFormat
	lastImageStyle          models.ImageStyle
	lastInfographicLanguage models.Language
}

func (s *stubClient) GenerateContent(ctx context.Context, req aiclient.ContentRequest) (*aiclient.ContentResult, error) {
	if s.contentErr != nil {
		return nil, s.contentErr
	}
	return &aiclient.ContentResult{
		Content: models.GeneratedContent{Article: "article about " + req.Topic, Script: "script", Titles: "titles"},
	}, nil
}

func (s *stubClient) GenerateTopicIdeas(ctx context.Context, niche string, language models.Language) ([]string, error) {
	if strings.TrimSpace(niche) == "" {
		return nil, nil
	}
	return []string{"idea one", "idea two"}, nil
}

func (s *stubClient) ConvertText(ctx context.Context, source string, format models.ConvertFormat, language models.Language) (string, error) {
	s.lastConvertFormat = format
	return fmt.Sprintf("converted to %s in %s", format, language), nil
}

func (s *stubClient) AnalyzeSeo(ctx context.Context, topic string, language models.Language) (*models.SeoAnalysis, error) {
	return &models.SeoAnalysis{KeywordDifficulty: 42, SearchVolumeTrend: "Rising"}, nil
}

func (s *stubClient) GenerateImage(ctx context.Context, prompt string, style models.ImageStyle, quality models.ImageQuality, ar models.AspectRatio) (string, error) {
	s.lastImageStyle = style
	return "aW1hZ2U=", nil
}

func (s *stubClient) SummarizeToInfographic(ctx context.Context, text string, language models.Language) (string, error) {
	s.lastInfographicLanguage = language
	return "aW5mbw==", nil
}

func (s *stubClient) Close() error { return nil }

// GenerateSceneImage and GenerateSceneAudio make stubClient double as the
// scene generator's asset client.
func (s *stubClient) GenerateSceneImage(ctx context.Context, prompt string, ar models.AspectRatio) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *stubClient) GenerateSceneAudio(ctx context.Context, text string, voice models.Voice) (string, error) {
	return base64.StdEncoding.EncodeToString(make([]byte, 2400*2)), nil
}

func newTestApp(t *testing.T, client *stubClient) (*fiber.App, *ApplicationHandler) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{FFmpegPath: "ffmpeg", WorkDir: t.TempDir(), SceneConcurrency: 5, ExportWorkers: 1}
	sessions := session.NewManager(player.NewSilentDevice(), log)
	generator := scenes.NewGenerator(client, cfg.SceneConcurrency, log)
	exports := worker.NewRunner(cfg.ExportWorkers, 4, log)
	t.Cleanup(exports.Stop)

	h := NewApplicationHandler(client, generator, sessions, exports, cfg, log)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	apiV1.Post("/content", h.GenerateContent)
	apiV1.Post("/content/ideas", h.GenerateTopicIdeas)
	apiV1.Post("/content/convert", h.ConvertText)
	apiV1.Post("/images", h.GenerateImage)
	apiV1.Post("/images/infographic", h.SummarizeToInfographic)
	apiV1.Post("/storyboards", h.CreateStoryboard)
	apiV1.Get("/storyboards/:storyboardId", h.GetStoryboard)
	apiV1.Delete("/storyboards/:storyboardId", h.DeleteStoryboard)
	apiV1.Get("/storyboards/:storyboardId/player/state", h.PlaybackState)
	apiV1.Post("/storyboards/:storyboardId/exports/:kind", h.StartExport)
	apiV1.Get("/storyboards/:storyboardId/exports/:kind", h.ExportStatus)
	apiV1.Get("/storyboards/:storyboardId/exports/:kind/download", h.DownloadExport)
	return app, h
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGenerateContentEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/content", fiber.Map{
		"topic": "urban beekeeping",
		"style": string(models.StyleInformational),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	content := data["content"].(map[string]interface{})
	assert.Equal(t, "article about urban beekeeping", content["article"])
}

func TestGenerateContentValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/content", fiber.Map{"style": "Informational"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateContentBackendFailure(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{contentErr: fmt.Errorf("backend down")})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/content", fiber.Map{
		"topic": "anything",
		"style": string(models.StyleInformational),
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGenerateContentRejectsUnknownEnums(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	cases := []fiber.Map{
		{"topic": "cats", "style": "Totally Bogus Style"},
		{"topic": "cats", "style": string(models.StyleInformational), "language": "Klingon"},
		{"topic": "cats", "style": string(models.StyleInformational), "compliance": "Bogus Regime"},
	}
	for _, body := range cases {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/content", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}

	// The real enum values, including the one with an apostrophe, still pass.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/content", fiber.Map{
		"topic":      "cats",
		"style":      string(models.StylePersonal),
		"language":   string(models.LanguageChinese),
		"compliance": string(models.ComplianceCOPPA),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestConvertTextEndpoint(t *testing.T) {
	client := &stubClient{}
	app, _ := newTestApp(t, client)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/content/convert", fiber.Map{
		"text":          "An article about bees.",
		"target_format": "script",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "script", data["target_format"])
	assert.Equal(t, "converted to script in English", data["text"])
	assert.Equal(t, models.ConvertToScript, client.lastConvertFormat)
}

func TestConvertTextRequiresKnownFormat(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	for _, body := range []fiber.Map{
		{"text": "some text"},
		{"text": "some text", "target_format": "haiku"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/content/convert", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestGenerateImageThreadsStyle(t *testing.T) {
	client := &stubClient{}
	app, _ := newTestApp(t, client)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/images", fiber.Map{
		"prompt": "a lighthouse",
		"style":  string(models.ImageStyleAnime),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, models.ImageStyleAnime, client.lastImageStyle)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/images", fiber.Map{
		"prompt": "a lighthouse",
		"style":  "Cubist",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestInfographicCarriesLanguage(t *testing.T) {
	client := &stubClient{}
	app, _ := newTestApp(t, client)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/images/infographic", fiber.Map{
		"text":     "Key points about tides.",
		"language": string(models.LanguageChinese),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, models.LanguageChinese, client.lastInfographicLanguage)
}

func TestTopicIdeasBlankNiche(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/content/ideas", fiber.Map{"niche": "  "})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Empty(t, data["ideas"])
}

func createStoryboard(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/storyboards", fiber.Map{
		"script": "First scene narration.\n\nSecond scene narration.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	board := data["storyboard"].(map[string]interface{})
	assert.Equal(t, float64(2), board["scene_count"])
	return board["id"].(string)
}

func TestStoryboardLifecycle(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})
	id := createStoryboard(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/storyboards/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/storyboards/"+id+"/player/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	state := body["data"].(map[string]interface{})
	assert.Equal(t, float64(-1), state["active_scene"])

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/storyboards/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/storyboards/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestZipExportFlow(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})
	id := createStoryboard(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/storyboards/"+id+"/exports/zip", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		resp = doJSON(t, app, http.MethodGet, "/api/v1/storyboards/"+id+"/exports/zip", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		status = body["data"].(map[string]interface{})["status"].(string)
		if status == string(worker.StatusDone) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, string(worker.StatusDone), status)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/storyboards/"+id+"/exports/zip/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "storyboard.zip")
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestExportUnknownKind(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})
	id := createStoryboard(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/storyboards/"+id+"/exports/gif", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportStatusUnknownStoryboard(t *testing.T) {
	app, _ := newTestApp(t, &stubClient{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/storyboards/nope/exports/zip", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
