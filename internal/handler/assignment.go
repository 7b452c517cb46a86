// This file defines the organizer-facing assignment API: triggering real
// and simulated runs, the standalone compatibility check, best-candidate
// ranking, and read access to the audit trail, conflicts and requests of
// an event.

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/expoflow/exhibition-backend/internal/assignment"
	"github.com/expoflow/exhibition-backend/internal/queue"
	"github.com/expoflow/exhibition-backend/internal/repository"
	queuepub "github.com/expoflow/exhibition-backend/internal/service"
)

// AssignmentHandler bundles the run coordinator and the read-side
// repositories for the assignment endpoints.
type AssignmentHandler struct {
	Coordinator  *assignment.Coordinator
	EventRepo    *repository.EventRepo
	RequestRepo  *repository.RequestRepo
	ConflictRepo *repository.ConflictRepo
	HistoryRepo  *repository.HistoryRepo
}

// NewAssignmentHandler constructs a new AssignmentHandler and panics if any
// dependency is nil.
func NewAssignmentHandler(co *assignment.Coordinator, events *repository.EventRepo, requests *repository.RequestRepo, conflicts *repository.ConflictRepo, history *repository.HistoryRepo) *AssignmentHandler {
	if co == nil || events == nil || requests == nil || conflicts == nil || history == nil {
		panic("nil dependency passed to NewAssignmentHandler")
	}
	return &AssignmentHandler{
		Coordinator:  co,
		EventRepo:    events,
		RequestRepo:  requests,
		ConflictRepo: conflicts,
		HistoryRepo:  history,
	}
}

// runConfigReq is the optional request body of run and simulate.  All
// fields are pointers so absent keys fall back to the documented
// defaults instead of Go zero values.
type runConfigReq struct {
	Algorithm                *string `json:"algorithm"`
	IncludeAutomaticRequests *bool   `json:"include_automatic_requests"`
	IncludePendingRequests   *bool   `json:"include_pending_requests"`
	RespectPreferences       *bool   `json:"respect_preferences"`
	OptimizeOccupancy        *bool   `json:"optimize_occupancy"`
	AllowReassignment        *bool   `json:"allow_reassignment"`
}

// apply overlays the provided fields onto a default configuration.
func (r runConfigReq) apply() assignment.RunConfig {
	cfg := assignment.DefaultRunConfig()
	if r.Algorithm != nil {
		cfg.Algorithm = assignment.Algorithm(*r.Algorithm)
	}
	if r.IncludeAutomaticRequests != nil {
		cfg.IncludeAutomaticRequests = *r.IncludeAutomaticRequests
	}
	if r.IncludePendingRequests != nil {
		cfg.IncludePendingRequests = *r.IncludePendingRequests
	}
	if r.RespectPreferences != nil {
		cfg.RespectPreferences = *r.RespectPreferences
	}
	if r.OptimizeOccupancy != nil {
		cfg.OptimizeOccupancy = *r.OptimizeOccupancy
	}
	if r.AllowReassignment != nil {
		cfg.AllowReassignment = *r.AllowReassignment
	}
	return cfg
}

// runInputs parses the event id, actor identity and configuration
// shared by the run and simulate endpoints.  When ok is false the
// error response has already been written and the returned error is
// what the handler should pass back to echo.
func (h *AssignmentHandler) runInputs(c echo.Context) (eventID uint64, cfg assignment.RunConfig, meta assignment.RunMeta, ok bool, err error) {
	eventID, perr := pathID(c, "id")
	if perr != nil {
		return 0, cfg, meta, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	actorID, uerr := getUserID(c)
	if uerr != nil {
		return 0, cfg, meta, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body runConfigReq
	// An empty body means "use the defaults"; only malformed JSON is rejected.
	if berr := c.Bind(&body); berr != nil {
		return 0, cfg, meta, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	meta = assignment.RunMeta{
		ActorID:   actorID,
		OriginIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	return eventID, body.apply(), meta, true, nil
}

// RunAssignments triggers a real assignment run for the event.  The
// summary is returned on success; on full success a completion event
// is published to the message queue for downstream consumers.
func (h *AssignmentHandler) RunAssignments(c echo.Context) error {
	eventID, cfg, meta, ok, err := h.runInputs(c)
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	summary, err := h.Coordinator.Run(ctx, eventID, cfg, meta)
	if err != nil {
		return writeEngineError(c, err)
	}
	h.publishCompleted(ctx, meta, summary)
	return c.JSON(http.StatusOK, summary)
}

// SimulateAssignments runs the same selection, ordering and matching
// as a real run and discards every write.  Nothing is published.
func (h *AssignmentHandler) SimulateAssignments(c echo.Context) error {
	eventID, cfg, meta, ok, err := h.runInputs(c)
	if !ok {
		return err
	}
	sim, err := h.Coordinator.Simulate(c.Request().Context(), eventID, cfg, meta)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, sim)
}

// publishCompleted emits the run-completed event to RabbitMQ in the
// background.  Publish failures are logged by the publisher and never
// affect the HTTP response; the run has already committed.
func (h *AssignmentHandler) publishCompleted(ctx context.Context, meta assignment.RunMeta, s *assignment.RunSummary) {
	eventName := ""
	if ev, err := h.EventRepo.GetByID(ctx, s.EventID); err == nil {
		eventName = ev.Name
	}
	msg := queue.AssignmentRunCompletedEvent{
		EventID:           s.EventID,
		EventName:         eventName,
		ActorID:           meta.ActorID,
		Algorithm:         string(s.Config.Algorithm),
		AssignmentsMade:   s.AssignmentsMade,
		RequestsProcessed: s.RequestsProcessed,
		ConflictsDetected: s.ConflictsDetected,
		AvailableStands:   s.AvailableStands,
		CompletedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queuepub.PublishAssignmentCompleted(pubCtx, msg)
	}()
}

// CheckCompatibility scores one company against one stand without
// touching any request.  Both IDs arrive as query parameters.
func (h *AssignmentHandler) CheckCompatibility(c echo.Context) error {
	companyID, err := strconv.ParseUint(c.QueryParam("company_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}
	standID, err := strconv.ParseUint(c.QueryParam("stand_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stand_id required"})
	}
	report, err := h.Coordinator.CheckCompatibility(c.Request().Context(), companyID, standID, nil)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// BestCandidates ranks the available stands of an event for one
// company, best score first.  The optional limit parameter caps the
// list; it defaults to 5.
func (h *AssignmentHandler) BestCandidates(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	companyID, err := strconv.ParseUint(c.QueryParam("company_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}
	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	candidates, err := h.Coordinator.BestCandidates(c.Request().Context(), companyID, eventID, limit, nil)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": candidates})
}

// historyItem is one audit row in list responses.  The details JSON
// is passed through raw so clients see the snapshot exactly as the
// engine recorded it.
type historyItem struct {
	ID         uint64          `json:"id"`
	Kind       string          `json:"kind"`
	RequestID  *uint64         `json:"request_id,omitempty"`
	StandID    *uint64         `json:"stand_id,omitempty"`
	ActorID    uint64          `json:"actor_id"`
	OriginIP   string          `json:"origin_ip"`
	UserAgent  string          `json:"user_agent"`
	Details    json.RawMessage `json:"details"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// ListHistory returns the audit trail of an event, newest first.
func (h *AssignmentHandler) ListHistory(c echo.Context) error {
	ctx := c.Request().Context()
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	entries, err := h.HistoryRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyItem{
			ID:         e.ID,
			Kind:       e.Kind,
			RequestID:  e.RequestID,
			StandID:    e.StandID,
			ActorID:    e.ActorID,
			OriginIP:   e.OriginIP,
			UserAgent:  e.UserAgent,
			Details:    rawOrNull(e.Details),
			RecordedAt: e.RecordedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// conflictItem is one recorded conflict in list responses, with the
// contender snapshot passed through raw.
type conflictItem struct {
	ID               uint64          `json:"id"`
	StandID          uint64          `json:"stand_id"`
	Contenders       json.RawMessage `json:"contenders"`
	Severity         string          `json:"severity"`
	DetectionMethod  string          `json:"detection_method"`
	ResolutionStatus string          `json:"resolution_status"`
	DetectedAt       time.Time       `json:"detected_at"`
}

// ListConflicts returns the recorded conflicts of an event, newest first.
func (h *AssignmentHandler) ListConflicts(c echo.Context) error {
	ctx := c.Request().Context()
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	conflicts, err := h.ConflictRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]conflictItem, 0, len(conflicts))
	for _, cf := range conflicts {
		out = append(out, conflictItem{
			ID:               cf.ID,
			StandID:          cf.StandID,
			Contenders:       rawOrNull(cf.Contenders),
			Severity:         cf.Severity,
			DetectionMethod:  cf.DetectionMethod,
			ResolutionStatus: cf.ResolutionStatus,
			DetectedAt:       cf.DetectedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// requestItem is one assignment request in list responses.
type requestItem struct {
	ID               uint64          `json:"id"`
	CompanyID        uint64          `json:"company_id"`
	RequestedStandID *uint64         `json:"requested_stand_id,omitempty"`
	AssignedStandID  *uint64         `json:"assigned_stand_id,omitempty"`
	Status           string          `json:"status"`
	AssignmentMode   string          `json:"assignment_mode"`
	PriorityScore    float64         `json:"priority_score"`
	Criteria         json.RawMessage `json:"criteria"`
	SubmittedAt      time.Time       `json:"submitted_at"`
}

// ListEventRequests returns all assignment requests of an event for
// organizer review, newest first.
func (h *AssignmentHandler) ListEventRequests(c echo.Context) error {
	ctx := c.Request().Context()
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	requests, err := h.RequestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]requestItem, 0, len(requests))
	for _, r := range requests {
		out = append(out, requestItem{
			ID:               r.ID,
			CompanyID:        r.CompanyID,
			RequestedStandID: r.RequestedStandID,
			AssignedStandID:  r.AssignedStandID,
			Status:           r.Status,
			AssignmentMode:   r.AssignmentMode,
			PriorityScore:    r.PriorityScore,
			Criteria:         rawOrNull(r.Criteria),
			SubmittedAt:      r.SubmittedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// rawOrNull turns a stored JSON string into a raw message, mapping
// the empty string to JSON null.
func rawOrNull(s string) json.RawMessage {
	if s == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}

// writeEngineError maps engine error kinds onto HTTP status codes.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case assignment.IsKind(err, assignment.KindNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case assignment.IsKind(err, assignment.KindValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
