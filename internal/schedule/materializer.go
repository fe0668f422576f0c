package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GenerationRequest is what the content service receives for one day.
type GenerationRequest struct {
	Date            civil.Date                `json:"date"`
	TablesVersion   string                    `json:"tablesVersion"`
	DayInCycle      int                       `json:"dayInCycle"`
	CycleNumber     int                       `json:"cycleNumber"`
	GlobalDayIn84   int                       `json:"globalDayIn84"`
	Category        periodization.Category    `json:"category"`
	Format          *periodization.Format     `json:"format"`
	FormatChoices   []periodization.Format    `json:"formatChoices"`
	DifficultyStars *int                      `json:"difficultyStars"`
	Difficulty      *periodization.Difficulty `json:"difficulty"`
	DifficultyLabel string                    `json:"difficultyLabel"`
	Overridden      bool                      `json:"overridden"`
	Note            string                    `json:"note,omitempty"`
}

func NewGenerationRequest(day ProjectedDay) GenerationRequest {
	eff := day.Effective()
	req := GenerationRequest{
		Date:            day.Date,
		TablesVersion:   periodization.TablesVersion,
		DayInCycle:      day.Resolved.DayInCycle,
		CycleNumber:     day.Resolved.CycleNumber,
		GlobalDayIn84:   day.Resolved.GlobalDayIn84,
		Category:        eff.Category,
		Format:          eff.Format,
		FormatChoices:   eff.FormatChoices,
		DifficultyStars: eff.DifficultyStars,
		Difficulty:      eff.Difficulty,
		DifficultyLabel: eff.DifficultyLabel,
		Overridden:      eff.Overridden,
	}
	if day.Override != nil {
		req.Note = day.Override.Note
	}
	return req
}

// HTTPMaterializer asks the content service to create the workout for a day.
type HTTPMaterializer struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPMaterializer(contentServiceURL string, timeout time.Duration) *HTTPMaterializer {
	return &HTTPMaterializer{
		endpoint: contentServiceURL + "/workouts/generate",
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (m *HTTPMaterializer) Materialize(ctx context.Context, day ProjectedDay) error {
	reqJson, err := json.Marshal(NewGenerationRequest(day))
	if err != nil {
		return fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(reqJson))
	if err != nil {
		return fmt.Errorf("new generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post generation request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("close generation response body: %s", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content service responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

var _ materializer = (*HTTPMaterializer)(nil)
