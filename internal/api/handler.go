package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"statdemo/app"
	"statdemo/domain/bayes"
	"statdemo/domain/scenario"
	"statdemo/internal/errors"
	"statdemo/internal/logging"
)

// Handler exposes the demo service as JSON over HTTP
type Handler struct {
	service       *app.DemoService
	defaultSize   int
	defaultSeed   int64
	maxSampleSize int
	logger        *zap.Logger
}

// Options carries the request defaults and limits
type Options struct {
	DefaultSampleSize int
	DefaultSeed       int64
	MaxSampleSize     int
}

// NewHandler creates a new handler
func NewHandler(service *app.DemoService, opts Options, logger *zap.Logger) *Handler {
	if opts.DefaultSampleSize <= 0 {
		opts.DefaultSampleSize = scenario.DefaultSampleSize
	}
	if opts.MaxSampleSize <= 0 {
		opts.MaxSampleSize = 5000
	}
	return &Handler{
		service:       service,
		defaultSize:   opts.DefaultSampleSize,
		defaultSeed:   opts.DefaultSeed,
		maxSampleSize: opts.MaxSampleSize,
		logger:        logging.OrNop(logger),
	}
}

// Register mounts the routes under /api
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/bayes", h.GetPosterior)
	api.GET("/bayes/ranges", h.GetRanges)
	api.GET("/scenarios", h.ListScenarios)
	api.GET("/scenarios/:id/report", h.GetScenarioReport)
	api.POST("/analyze", h.Analyze)
}

// GetPosterior computes the posterior; missing parameters take the demo
// defaults. With clamp=true values are pulled into the slider ranges first.
func (h *Handler) GetPosterior(c *gin.Context) {
	defaults := bayes.Defaults()

	var in bayes.Input
	var err error
	if in.Prevalence, err = queryFloat(c, "prevalence", defaults.Prevalence); err != nil {
		h.fail(c, err)
		return
	}
	if in.Sensitivity, err = queryFloat(c, "sensitivity", defaults.Sensitivity); err != nil {
		h.fail(c, err)
		return
	}
	if in.Specificity, err = queryFloat(c, "specificity", defaults.Specificity); err != nil {
		h.fail(c, err)
		return
	}
	if c.Query("clamp") == "true" {
		in = bayes.SliderRanges().Clamp(in)
	}

	out, err := h.service.Posterior(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, out)
}

// GetRanges returns the slider bounds and defaults
func (h *Handler) GetRanges(c *gin.Context) {
	h.respond(c, http.StatusOK, gin.H{
		"ranges":   bayes.SliderRanges(),
		"defaults": bayes.Defaults(),
	})
}

// ListScenarios returns the scenario catalog
func (h *Handler) ListScenarios(c *gin.Context) {
	h.respond(c, http.StatusOK, gin.H{"scenarios": h.service.Scenarios()})
}

// GetScenarioReport runs the comparison for one scenario
func (h *Handler) GetScenarioReport(c *gin.Context) {
	req := app.ComparisonRequest{Scenario: scenario.ID(c.Param("id"))}

	n, err := queryInt(c, "n", int64(h.defaultSize))
	if err != nil {
		h.fail(c, err)
		return
	}
	if n > int64(h.maxSampleSize) {
		h.fail(c, errors.InvalidParameter("n", n, "must not exceed "+strconv.Itoa(h.maxSampleSize)))
		return
	}
	req.SampleSize = int(n)

	if req.Seed, err = queryInt(c, "seed", h.defaultSeed); err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.service.Compare(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, result)
}

// AnalyzeRequest carries caller supplied groups
type AnalyzeRequest struct {
	Control   []float64 `json:"control"`
	Treatment []float64 `json:"treatment"`
}

// Analyze runs the comparison on posted groups
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "code": errors.CodeInvalidParameter})
		return
	}
	if len(req.Control)+len(req.Treatment) > 2*h.maxSampleSize {
		h.fail(c, errors.InvalidParameter("groups", len(req.Control)+len(req.Treatment), "too many values"))
		return
	}

	report, err := h.service.Analyze(req.Control, req.Treatment)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, gin.H{
		"report":                  report,
		"t_test_conclusion":       report.TTestConclusion(),
		"mann_whitney_conclusion": report.MannWhitneyConclusion(),
		"justification":           report.Justification(),
	})
}

// respond encodes v before writing so an encoding failure becomes a 500
// instead of a 200 with an empty body.
func (h *Handler) respond(c *gin.Context, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.fail(c, errors.Wrap(err, "encode response"))
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if field := errors.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidParameter, errors.CodeInsufficientSampleSize:
		return http.StatusBadRequest
	case errors.CodeUnknownScenario:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func queryFloat(c *gin.Context, name string, fallback float64) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidParameter(name, raw, "not a number")
	}
	return v, nil
}

func queryInt(c *gin.Context, name string, fallback int64) (int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidParameter(name, raw, "not an integer")
	}
	return v, nil
}
