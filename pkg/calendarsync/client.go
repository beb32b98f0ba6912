// Package calendarsync mirrors local event records into the owning user's
// Google Calendar. Each call builds a short-lived provider client from the
// user's stored token pair; there is no shared oauth client between
// requests.
package calendarsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/models"
	"calendareventservice/pkg/repository"
)

const calendarID = "primary"

// Events are placed on the calendar in this zone regardless of the caller's
// locale.
var eventLocation = loadEventLocation()

func loadEventLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

type Client struct {
	users  repository.UserStore
	events repository.EventStore
	oauth  *oauth2.Config
	logger *slog.Logger
	opts   []option.ClientOption
}

// NewClient wires the sync client. Extra options are appended to every
// provider service construction; tests use them to point at a fake API.
func NewClient(users repository.UserStore, events repository.EventStore, oauth *oauth2.Config, logger *slog.Logger, opts ...option.ClientOption) *Client {
	return &Client{users: users, events: events, oauth: oauth, logger: logger, opts: opts}
}

// Insert creates the remote twin of a freshly persisted event and writes
// the returned remote id back onto the local record.
func (c *Client) Insert(ctx context.Context, userID string, event *models.Event) error {
	svc, err := c.serviceFor(ctx, userID)
	if err != nil {
		return err
	}
	body, err := buildEventBody(event)
	if err != nil {
		return err
	}
	created, err := svc.Events.Insert(calendarID, body).Do()
	if err != nil {
		return wrapProviderErr("insert", err)
	}
	event.GoogleCalendarID = created.Id
	if err := c.events.Save(ctx, event); err != nil {
		return fmt.Errorf("failed to store remote event id: %w", err)
	}
	c.logger.Info("event mirrored to calendar", "eventID", event.ID, "googleCalendarID", created.Id)
	return nil
}

// Update refreshes the remote event body. Events that were never
// successfully inserted have no remote twin and are skipped.
func (c *Client) Update(ctx context.Context, userID string, event *models.Event) error {
	if !event.Synced() {
		return nil
	}
	svc, err := c.serviceFor(ctx, userID)
	if err != nil {
		return err
	}
	body, err := buildEventBody(event)
	if err != nil {
		return err
	}
	if _, err := svc.Events.Update(calendarID, event.GoogleCalendarID, body).Do(); err != nil {
		return wrapProviderErr("update", err)
	}
	c.logger.Info("remote event updated", "eventID", event.ID, "googleCalendarID", event.GoogleCalendarID)
	return nil
}

// Delete removes the remote event. A remote id pointing at an already
// deleted event is not guarded against; the provider's own error is the
// only backstop.
func (c *Client) Delete(ctx context.Context, userID, googleCalendarID string) error {
	svc, err := c.serviceFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(calendarID, googleCalendarID).Do(); err != nil {
		return wrapProviderErr("delete", err)
	}
	c.logger.Info("remote event deleted", "googleCalendarID", googleCalendarID)
	return nil
}

func (c *Client) serviceFor(ctx context.Context, userID string) (*calendar.Service, error) {
	user, err := c.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		Expiry:       user.TokenExpiry,
	}
	httpClient := c.oauth.Client(ctx, token)
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// buildEventBody translates a local event into the provider schema: start
// is the event's date and time-of-day composed in the fixed zone, end is
// start plus the duration in hours.
func buildEventBody(event *models.Event) (*calendar.Event, error) {
	start, err := eventStart(event)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(event.Duration * float64(time.Hour)))

	attendees := make([]*calendar.EventAttendee, 0, len(event.Participants))
	for _, email := range event.Participants {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	return &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: eventLocation.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: eventLocation.String(),
		},
		Attendees: attendees,
	}, nil
}

func eventStart(event *models.Event) (time.Time, error) {
	clock, err := time.Parse("15:04", event.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event time %q: %w", event.Time, err)
	}
	d := event.Date
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, eventLocation), nil
}

func wrapProviderErr(op string, err error) error {
	return &apperr.ExternalServiceError{Op: op, Err: err}
}
