package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// ShareImageService renders the shareable profile card as a PNG by
// screenshotting an HTML template in headless Chrome.
type ShareImageService struct {
	logger *slog.Logger
}

// ShareCardData feeds the share card template.
type ShareCardData struct {
	Username          string
	AvatarLetter      string
	CardCount         int
	CompletionPercent int
	Level             int
	WinRatePercent    int
	Lunari            int
}

func NewShareImageService() *ShareImageService {
	service := &ShareImageService{
		logger: slog.With(slog.String("service", "share_image")),
	}
	service.testChromedpAvailability()
	return service
}

func (s *ShareImageService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>"))
	if err != nil {
		s.logger.Error("chromedp not available - share card generation will fail",
			slog.String("error", err.Error()))
	}
}

// GenerateShareCard renders the profile share card for a user.
func (s *ShareImageService) GenerateShareCard(ctx context.Context, data ShareCardData) ([]byte, error) {
	start := time.Now()

	if data.AvatarLetter == "" && data.Username != "" {
		data.AvatarLetter = strings.ToUpper(data.Username[:1])
	}
	if data.AvatarLetter == "" {
		data.AvatarLetter = "?"
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#share-card", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#share-card", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate share card",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Info("Share card generated",
		slog.String("username", data.Username),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))

	return imageBytes, nil
}

func (s *ShareImageService) generateHTML(data ShareCardData) (string, error) {
	templatePath := filepath.Join("templates", "share_card.html")

	templateContent, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New("share_card").Parse(string(templateContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	// data: URLs treat # as a fragment marker.
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")
	return htmlContent, nil
}
