package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/services/shared/validate"
)

// MaxActivityTitle is the longest activity title accepted, in characters.
const MaxActivityTitle = 100

// ActivityStatus is the progress of an activity.
type ActivityStatus string

const (
	StatusPending    ActivityStatus = "PENDING"
	StatusInProgress ActivityStatus = "IN_PROGRESS"
	StatusCompleted  ActivityStatus = "COMPLETED"
)

// ParseActivityStatus normalizes value, accepting any case and "-" or " "
// as separators.
func ParseActivityStatus(value string) (ActivityStatus, error) {
	switch s := ActivityStatus(normalizeEnum(value)); s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeActivityStatus, "unknown activity status",
		map[string]string{"Value": value})
}

// ActivityPriority ranks an activity.
type ActivityPriority string

const (
	PriorityLow    ActivityPriority = "LOW"
	PriorityMedium ActivityPriority = "MEDIUM"
	PriorityHigh   ActivityPriority = "HIGH"
)

// ParseActivityPriority normalizes value like ParseActivityStatus.
func ParseActivityPriority(value string) (ActivityPriority, error) {
	switch p := ActivityPriority(normalizeEnum(value)); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeActivityPriority, "unknown activity priority",
		map[string]string{"Value": value})
}

func normalizeEnum(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	return strings.NewReplacer("-", "_", " ", "_").Replace(value)
}

// Activity is a to-do item shared within a family.
type Activity struct {
	ID            string           `json:"id"`
	FamilyID      string           `json:"familyId"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Status        ActivityStatus   `json:"status"`
	Priority      ActivityPriority `json:"priority"`
	ExpiresAt     *time.Time       `json:"expirationDate,omitempty"`
	AssigneeEmail string           `json:"assigneeEmail,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ActivityInput is the create-activity form.
type ActivityInput struct {
	FamilyID      string           `json:"familyId"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Status        ActivityStatus   `json:"status"`
	Priority      ActivityPriority `json:"priority"`
	ExpiresAt     *time.Time       `json:"expirationDate,omitempty"`
	AssigneeEmail string           `json:"assigneeEmail,omitempty"`
}

// Normalize trims the form, defaults status and priority, and validates it
// against now.
func (in ActivityInput) Normalize(now time.Time) (ActivityInput, error) {
	in.FamilyID = strings.TrimSpace(in.FamilyID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.AssigneeEmail = strings.TrimSpace(in.AssigneeEmail)

	if err := validate.Required(apperrors.CodeFamilyRequired, "family", in.FamilyID); err != nil {
		return in, err
	}
	if err := validate.Required(apperrors.CodeActivityTitleEmpty, "title", in.Title); err != nil {
		return in, err
	}
	if err := validate.MaxLength(apperrors.CodeActivityTitleLong, "title", in.Title, MaxActivityTitle); err != nil {
		return in, err
	}

	if in.Status == "" {
		in.Status = StatusPending
	}
	status, err := ParseActivityStatus(string(in.Status))
	if err != nil {
		return in, err
	}
	in.Status = status

	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	priority, err := ParseActivityPriority(string(in.Priority))
	if err != nil {
		return in, err
	}
	in.Priority = priority

	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return in, apperrors.New(apperrors.CodeActivityExpiredDate, "expiration must be in the future")
	}
	if in.AssigneeEmail != "" {
		if err := validate.Email(in.AssigneeEmail); err != nil {
			return in, err
		}
	}
	return in, nil
}

// ListActivities returns the activities of a family.
func (c *Client) ListActivities(ctx context.Context, familyID string) ([]Activity, error) {
	familyID = strings.TrimSpace(familyID)
	if err := validate.Required(apperrors.CodeFamilyRequired, "family", familyID); err != nil {
		return nil, err
	}
	var out []Activity
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/activities",
		path:   "/activities",
		query:  url.Values{"familyId": {familyID}},
		gated:  true,
	}, &out)
	return out, err
}

// GetActivity returns one activity.
func (c *Client) GetActivity(ctx context.Context, id string) (Activity, error) {
	var out Activity
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/activities/{id}",
		path:   "/activities/" + url.PathEscape(strings.TrimSpace(id)),
		gated:  true,
	}, &out)
	return out, err
}

// CreateActivity validates in against the current time and creates it.
func (c *Client) CreateActivity(ctx context.Context, in ActivityInput) (Activity, error) {
	in, err := in.Normalize(time.Now())
	if err != nil {
		return Activity{}, err
	}
	var out Activity
	err = c.do(ctx, request{
		method: http.MethodPost,
		route:  "/activities",
		path:   "/activities",
		body:   in,
		gated:  true,
	}, &out)
	return out, err
}

type statusRequest struct {
	Status ActivityStatus `json:"status"`
}

// UpdateActivityStatus moves an activity to status.
func (c *Client) UpdateActivityStatus(ctx context.Context, id string, status ActivityStatus) (Activity, error) {
	parsed, err := ParseActivityStatus(string(status))
	if err != nil {
		return Activity{}, err
	}
	var out Activity
	err = c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/activities/{id}/status",
		path:   "/activities/" + url.PathEscape(strings.TrimSpace(id)) + "/status",
		body:   statusRequest{Status: parsed},
		gated:  true,
	}, &out)
	return out, err
}
