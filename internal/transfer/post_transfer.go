package transfer

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type ScheduleRequest struct {
	MediaURL    string `json:"mediaUrl"`
	Caption     string `json:"caption"`
	ScheduleFor string `json:"scheduleFor"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the request and parses the schedule time. The caption
// may be empty; the platform accepts caption-less posts.
func (r *ScheduleRequest) Validate() (time.Time, ValidationErrors) {
	var errs ValidationErrors

	if r.MediaURL == "" {
		errs = append(errs, FieldError{Field: "mediaUrl", Message: "is required"})
	} else if u, err := url.ParseRequestURI(r.MediaURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, FieldError{Field: "mediaUrl", Message: "must be a valid http(s) URL"})
	}

	var scheduleFor time.Time
	if r.ScheduleFor == "" {
		errs = append(errs, FieldError{Field: "scheduleFor", Message: "is required"})
	} else {
		t, err := time.Parse(time.RFC3339, r.ScheduleFor)
		if err != nil {
			errs = append(errs, FieldError{Field: "scheduleFor", Message: "must be an RFC 3339 datetime"})
		} else {
			scheduleFor = t
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return scheduleFor, nil
}

type CredentialsUpdate struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	ExpiresAt   string `json:"expiresAt"`
}

func (r *CredentialsUpdate) Validate() (time.Time, ValidationErrors) {
	var errs ValidationErrors

	if r.AccessToken == "" {
		errs = append(errs, FieldError{Field: "accessToken", Message: "is required"})
	}
	if r.UserID == "" {
		errs = append(errs, FieldError{Field: "userId", Message: "is required"})
	}

	var expiresAt time.Time
	if r.ExpiresAt == "" {
		errs = append(errs, FieldError{Field: "expiresAt", Message: "is required"})
	} else {
		t, err := time.Parse(time.RFC3339, r.ExpiresAt)
		if err != nil {
			errs = append(errs, FieldError{Field: "expiresAt", Message: "must be an RFC 3339 datetime"})
		} else {
			expiresAt = t
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return expiresAt, nil
}
