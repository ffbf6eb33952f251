package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// saveError is the typed failure of a trip write. It carries a human-readable
// message for the editing UI; retry policy lives with the caller, never here.
type saveError struct {
	Message string
}

func (e *saveError) Error() string { return e.Message }

// Save intents. Publish, archive and unpublish merge the status change into
// the same persisted write as the content, never a second call.
const (
	intentSave      = "save"
	intentPublish   = "publish"
	intentArchive   = "archive"
	intentUnpublish = "unpublish"
)

// TripGateway is the persistence boundary for trip records. SaveTrip returns
// the acknowledged representation; the server may normalize fields, and the
// caller must snapshot exactly what came back, not what was sent.
type TripGateway interface {
	SaveTrip(ctx context.Context, draft TripDraft) (*TripDraft, error)
	DeleteTrip(ctx context.Context, id string) error
}

// storeTripGateway persists trips to the local Postgres store.
type storeTripGateway struct {
	app *App
}

func (g *storeTripGateway) SaveTrip(ctx context.Context, draft TripDraft) (*TripDraft, error) {
	draft.Status = normalizeTripStatus(draft.Status)
	draft.Type = normalizeTripType(draft.Type)

	saved, err := g.app.storeUpsertTrip(ctx, draft)
	if err != nil {
		return nil, &saveError{Message: err.Error()}
	}
	return saved, nil
}

func (g *storeTripGateway) DeleteTrip(ctx context.Context, id string) error {
	if err := g.app.storeDeleteTrip(ctx, id); err != nil {
		return &saveError{Message: err.Error()}
	}
	return nil
}

// restTripGateway delegates trip persistence to an external trip-records
// service speaking the conventional JSON shape: PUT /trips/{id} returning the
// canonical record, DELETE /trips/{id} with a POST fallback for proxies that
// reject the DELETE method.
type restTripGateway struct {
	BaseURL string
	Client  *http.Client
}

func (g *restTripGateway) SaveTrip(ctx context.Context, draft TripDraft) (*TripDraft, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, &saveError{Message: err.Error()}
	}

	u := fmt.Sprintf("%s/trips/%s", strings.TrimRight(g.BaseURL, "/"), draft.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return nil, &saveError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, &saveError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &saveError{Message: readErrorEnvelope(resp)}
	}

	var saved TripDraft
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, &saveError{Message: fmt.Sprintf("invalid response from trip service: %v", err)}
	}
	return &saved, nil
}

func (g *restTripGateway) DeleteTrip(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/trips/%s", strings.TrimRight(g.BaseURL, "/"), id)
	resp, err := g.doDelete(ctx, http.MethodDelete, u)
	if err != nil {
		return &saveError{Message: err.Error()}
	}
	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = g.doDelete(ctx, http.MethodPost, u+"/delete")
		if err != nil {
			return &saveError{Message: err.Error()}
		}
	}
	defer resp.Body.Close()

	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil
		}
		return &saveError{Message: fmt.Sprintf("trip service returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (!result.OK && result.Error != "") {
		message := result.Error
		if message == "" {
			message = fmt.Sprintf("trip service returned status %d", resp.StatusCode)
		}
		return &saveError{Message: message}
	}
	return nil
}

func (g *restTripGateway) doDelete(ctx context.Context, method, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	return g.Client.Do(req)
}

func readErrorEnvelope(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("trip service returned status %d", resp.StatusCode)
}
