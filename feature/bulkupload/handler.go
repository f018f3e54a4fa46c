package bulkupload

import (
	"bulk-ingest/core/logger"
	"bulk-ingest/feature/bulkupload/engine"
	"bulk-ingest/feature/bulkupload/jobs"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for bulk uploads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bulk upload routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bulkupload")
	group.Post("/validate", h.HandleValidate)
	group.Post("/jobs", h.HandleCreateJob)
	group.Get("/jobs/:id", h.HandleGetJob)
	group.Get("/jobs/:id/results", h.HandleGetResults)
	group.Post("/jobs/:id/abort", h.HandleAbortJob)
}

// HandleValidate checks a raw feed document against the schema.
// @Summary Validate Feed
// @Description Checks a raw bulk upload feed against the ingestion schema without queuing a job.
// @Tags bulkupload
// @Accept xml
// @Produce json
// @Param feed body string true "Feed document"
// @Success 200 {object} map[string]interface{} "Validity and violations"
// @Router /bulkupload/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	violations := h.service.Validate(c.Body())
	return c.JSON(fiber.Map{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// HandleCreateJob stores the raw feed body and queues a job.
// @Summary Create Bulk Upload Job
// @Description Validates and stores the feed, then queues a job the scheduler processes in capped invocations.
// @Tags bulkupload
// @Accept xml
// @Produce json
// @Param feed body string true "Feed document"
// @Param partner_id query int false "Partner the job runs for"
// @Param max_records query int false "Per-invocation result cap"
// @Param ingestion_profile_id query int false "Run-level ingestion profile"
// @Success 201 {object} models.Job "Queued job"
// @Failure 400 {object} map[string]interface{} "Empty or invalid feed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulkupload/jobs [post]
func (h *Handler) HandleCreateJob(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req := JobRequest{
		PartnerID:        c.QueryInt("partner_id"),
		MaxRecordsPerRun: c.QueryInt("max_records"),
	}
	if id := c.QueryInt("ingestion_profile_id", -1); id >= 0 {
		req.IngestionProfileID = &id
	}

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty feed document"})
	}

	job, violations, err := h.service.CreateJob(c.Context(), req, body)
	if errors.Is(err, engine.ErrSchemaValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      err.Error(),
			"violations": violations,
		})
	}
	if err != nil {
		l.Error("Failed to create bulk upload job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleGetJob returns the job status and counters.
// @Summary Get Bulk Upload Job
// @Description Returns the status, resume offset and counters of a job.
// @Tags bulkupload
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.Job "Job"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulkupload/jobs/{id} [get]
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(job)
}

// HandleGetResults returns the per-item results of a job in line order.
// @Summary Get Bulk Upload Results
// @Description Lists the per-item upload results recorded for a job.
// @Tags bulkupload
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job id and results"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulkupload/jobs/{id}/results [get]
func (h *Handler) HandleGetResults(c *fiber.Ctx) error {
	results, err := h.service.Results(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"job_id":  c.Params("id"),
		"results": results,
	})
}

// HandleAbortJob flags the job so it stops before its next item.
// @Summary Abort Bulk Upload Job
// @Description Requests that the running or pending job stops before its next item.
// @Tags bulkupload
// @Produce json
// @Param id path string true "Job ID"
// @Success 202 {object} map[string]string "Abort requested"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulkupload/jobs/{id}/abort [post]
func (h *Handler) HandleAbortJob(c *fiber.Ctx) error {
	if err := h.service.Abort(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "abort requested"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, jobs.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	logger.WithRayID(h.service.logger, c).Error("Bulk upload request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
