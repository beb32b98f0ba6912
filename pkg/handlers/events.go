package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/middleware"
	"calendareventservice/pkg/models"
)

// EventManager is the event record service as seen by the HTTP layer.
type EventManager interface {
	Create(ctx context.Context, event *models.Event, userID string) (*models.Event, error)
	List(ctx context.Context, userID string) ([]models.Event, error)
	Update(ctx context.Context, id string, data *models.Event, userID string) (*models.Event, error)
	Delete(ctx context.Context, id, userID string) error
}

type EventHandler struct {
	events   EventManager
	validate *validator.Validate
}

func NewEventHandler(events EventManager) *EventHandler {
	return &EventHandler{events: events, validate: validator.New()}
}

type eventRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Participants []string `json:"participants" validate:"dive,email"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string   `json:"time" validate:"required,datetime=15:04"`
	Duration     float64  `json:"duration" validate:"required,gt=0"`
	SessionNotes string   `json:"sessionNotes"`
}

func (r *eventRequest) toModel() *models.Event {
	date, _ := time.Parse("2006-01-02", r.Date)
	return &models.Event{
		Title:        r.Title,
		Description:  r.Description,
		Participants: pq.StringArray(r.Participants),
		Date:         date,
		Time:         r.Time,
		Duration:     r.Duration,
		SessionNotes: r.SessionNotes,
	}
}

func (h *EventHandler) parseEvent(c *fiber.Ctx) (*eventRequest, *apperr.ValidationError) {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, &apperr.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}}
	}
	if err := h.validate.Struct(&req); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag() + " validation"
			}
		} else {
			fields["body"] = err.Error()
		}
		return nil, &apperr.ValidationError{Fields: fields}
	}
	return &req, nil
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDKey).(string)
	return id
}

// Create persists the event and mirrors it to the caller's calendar.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	req, verr := h.parseEvent(c)
	if verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Fields})
	}
	event, err := h.events.Create(c.Context(), req.toModel(), callerID(c))
	if err != nil {
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// List returns the caller's events.
func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.events.List(c.Context(), callerID(c))
	if err != nil {
		return serverError(c)
	}
	if events == nil {
		events = []models.Event{}
	}
	return c.JSON(events)
}

// Update overwrites an event's fields and refreshes the remote mirror.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	req, verr := h.parseEvent(c)
	if verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Fields})
	}
	event, err := h.events.Update(c.Context(), c.Params("id"), req.toModel(), callerID(c))
	if err != nil {
		return serverError(c)
	}
	if event == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Event not found"})
	}
	return c.JSON(event)
}

// Delete removes an event locally and, when mirrored, remotely.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	err := h.events.Delete(c.Context(), c.Params("id"), callerID(c))
	if errors.Is(err, apperr.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Event not found"})
	}
	if err != nil {
		return serverError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}
