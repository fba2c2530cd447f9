package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crimson-sun/sentiment/internal/engine"
	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/output/csvfile"
	"github.com/crimson-sun/sentiment/internal/pipeline"
	"github.com/crimson-sun/sentiment/internal/table"
)

// Classifier is the inference surface the handlers need.
type Classifier interface {
	Classify(text string) (model.Result, error)
	ClassifyColumn(t *table.Table, column string) (*pipeline.Batch, error)
	RunID() uuid.UUID
}

// Handler serves the classification API.
type Handler struct {
	classifier     Classifier
	metrics        *Metrics
	mode           pipeline.ColumnMode
	maxUploadBytes int64
}

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse is the data of a single classification.
type ClassifyResponse struct {
	Label      string  `json:"label"`
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// BatchResponse is the JSON form of a CSV classification.
type BatchResponse struct {
	Column  string         `json:"column"`
	Rows    int            `json:"rows"`
	Tally   model.Tally    `json:"tally"`
	Records []model.Record `json:"records"`
}

// HealthStatus is the body of /health and /ready.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{Status: "healthy", Components: map[string]string{"process": "ok"}})
}

// Ready handles GET /ready. The server is ready once artifacts are loaded.
func (h *Handler) Ready(c *gin.Context) {
	if h.classifier == nil {
		c.JSON(http.StatusServiceUnavailable, HealthStatus{
			Status:     "not ready",
			Components: map[string]string{"model": "not loaded"},
		})
		return
	}
	c.JSON(http.StatusOK, HealthStatus{
		Status:     "ready",
		Components: map[string]string{"model": "loaded", "run_id": h.classifier.RunID().String()},
	})
}

// Classify handles POST /api/v1/classify.
func (h *Handler) Classify(c *gin.Context) {
	if h.classifier == nil {
		respondError(c, http.StatusServiceUnavailable, CodeNotReady, "model not loaded")
		return
	}
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleInvalidRequest(c, "invalid request body")
		return
	}

	start := time.Now()
	res, err := h.classifier.Classify(req.Text)
	h.metrics.duration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, engine.ErrEmptyInput) {
			h.metrics.emptyInputs.Inc()
		}
		handleError(c, err)
		return
	}
	h.metrics.observeResult(res)

	respondSuccess(c, http.StatusOK, ClassifyResponse{
		Label:      res.Label.String(),
		Prediction: res.Label.Prediction(),
		Confidence: res.Confidence,
	})
}

// ClassifyCSV handles POST /api/v1/classify/csv. The upload is the
// multipart field "file"; "column" names the text column. The reply is the
// augmented CSV as an attachment, or JSON with ?format=json.
func (h *Handler) ClassifyCSV(c *gin.Context) {
	if h.classifier == nil {
		respondError(c, http.StatusServiceUnavailable, CodeNotReady, "model not loaded")
		return
	}
	if c.Request.ContentLength > h.maxUploadBytes {
		handleError(c, &http.MaxBytesError{Limit: h.maxUploadBytes})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(c, err)
			return
		}
		handleInvalidRequest(c, "multipart field \"file\" is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()

	t, err := table.Read(f)
	if err != nil {
		handleInvalidRequest(c, err.Error())
		return
	}
	column, err := pipeline.ResolveColumn(t, h.mode, c.PostForm("column"))
	if err != nil {
		handleError(c, err)
		return
	}

	start := time.Now()
	b, err := h.classifier.ClassifyColumn(t, column)
	h.metrics.duration.WithLabelValues("classify_csv").Observe(time.Since(start).Seconds())
	if err != nil {
		handleError(c, err)
		return
	}
	tally := b.Tally()
	h.metrics.observeTally(tally)

	if c.Query("format") == "json" {
		respondSuccess(c, http.StatusOK, BatchResponse{
			Column:  column,
			Rows:    b.Table.Len(),
			Tally:   tally,
			Records: b.Records(),
		})
		return
	}

	data, err := b.Table.CSV()
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvfile.DefaultName+`"`)
	c.Header("X-Positive-Count", strconv.Itoa(tally.Positive))
	c.Header("X-Negative-Count", strconv.Itoa(tally.Negative))
	c.Header("X-Empty-Count", strconv.Itoa(tally.Empty))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
