// Package client is a Go client of the workout tracker HTTP API. It keeps
// the visitor cookie in a jar so consecutive calls act as one visitor.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/mmtreino/internal/autosave"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/stats"
	"github.com/2beens/mmtreino/internal/visitor"
	"github.com/2beens/mmtreino/internal/workouts"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 15 * time.Second

// APIError is an error envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.Status, e.Message)
}

// Is lets a 409 from a set write count as a locked workout for autosave.
func (e *APIError) Is(target error) bool {
	return target == autosave.ErrLocked && e.Status == http.StatusConflict
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client. Its jar is replaced
// when it has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// VisitorID returns the identity the server assigned, empty before the
// first call.
func (c *Client) VisitorID() string {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == visitor.CookieName {
			return cookie.Value
		}
	}
	return ""
}

type ExerciseFilter struct {
	Search    string
	Group     string
	Equipment string
	Pattern   string
}

func (c *Client) Exercises(ctx context.Context, filter ExerciseFilter) ([]exercises.Exercise, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"search":    filter.Search,
		"group":     filter.Group,
		"equipment": filter.Equipment,
		"pattern":   filter.Pattern,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}

	var resp struct {
		Exercises []exercises.Exercise `json:"exercises"`
	}
	if err := c.do(ctx, http.MethodGet, "/exercises", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Exercises, nil
}

// Exercise returns nil without error when the exercise does not exist.
func (c *Client) Exercise(ctx context.Context, id int) (*exercises.Exercise, error) {
	var resp struct {
		Exercise *exercises.Exercise `json:"exercise"`
	}
	if err := c.do(ctx, http.MethodGet, "/exercises/"+strconv.Itoa(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Exercise, nil
}

// Plan returns nil without error when no plan was imported.
func (c *Client) Plan(ctx context.Context) (*plan.Plan, error) {
	var resp struct {
		Plan *plan.Plan `json:"plan"`
	}
	if err := c.do(ctx, http.MethodGet, "/plan", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Plan, nil
}

type WeekView struct {
	Plan      *plan.Plan          `json:"plan"`
	Week      *plan.WeekSettings  `json:"week"`
	Exercises []plan.PlanExercise `json:"exercises"`
}

func (c *Client) Week(ctx context.Context, weekNumber int) (*WeekView, error) {
	var resp WeekView
	if err := c.do(ctx, http.MethodGet, "/plan/week/"+strconv.Itoa(weekNumber), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Start returns the id of the workout log of the session, new or existing.
func (c *Client) Start(ctx context.Context, params workouts.StartParams) (string, error) {
	body := map[string]any{
		"planId":      params.PlanID,
		"weekNumber":  params.WeekNumber,
		"day":         params.Day,
		"sessionCode": params.SessionCode,
	}
	var resp struct {
		WorkoutLogID string `json:"workoutLogId"`
	}
	if err := c.do(ctx, http.MethodPost, "/workouts/start", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.WorkoutLogID, nil
}

type RecentWorkouts struct {
	Workouts  []workouts.WorkoutLog `json:"workouts"`
	Completed int                   `json:"completed"`
}

// Workouts lists the visitor's most recent workouts. A limit of 0 takes the
// server default.
func (c *Client) Workouts(ctx context.Context, limit int) (*RecentWorkouts, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var resp RecentWorkouts
	if err := c.do(ctx, http.MethodGet, "/workouts", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Workout(ctx context.Context, workoutLogID string) (*workouts.Detail, error) {
	var resp workouts.Detail
	if err := c.do(ctx, http.MethodGet, "/workouts/"+url.PathEscape(workoutLogID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type SetResult struct {
	SetLog *workouts.SetLog `json:"setLog"`
	Stale  bool             `json:"stale"`
}

// SaveSet sends one whole cell. Values are sent as typed; the server
// parses numbers and normalises decimal commas.
func (c *Client) SaveSet(ctx context.Context, workoutLogID string, write autosave.SetWrite) (*SetResult, error) {
	body := map[string]any{
		"exerciseId": write.ExerciseID,
		"setNumber":  write.SetNumber,
		"weightKg":   write.WeightKg,
		"repsDone":   write.RepsDone,
		"rirActual":  write.RirActual,
		"notes":      write.Notes,
		"revision":   write.Revision,
	}
	var resp SetResult
	path := "/workouts/" + url.PathEscape(workoutLogID) + "/set"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordSet makes the client an autosave.Saver. A write the server ignored
// as stale fails with autosave.ErrStale.
func (c *Client) RecordSet(ctx context.Context, workoutLogID string, write autosave.SetWrite) error {
	res, err := c.SaveSet(ctx, workoutLogID, write)
	if err != nil {
		return err
	}
	if res.Stale {
		return fmt.Errorf("record set %d/%d rev %d: %w", write.ExerciseID, write.SetNumber, write.Revision, autosave.ErrStale)
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, workoutLogID string) (*workouts.WorkoutLog, error) {
	var resp struct {
		WorkoutLog *workouts.WorkoutLog `json:"workoutLog"`
	}
	path := "/workouts/" + url.PathEscape(workoutLogID) + "/complete"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.WorkoutLog, nil
}

func (c *Client) Stats(ctx context.Context) (*stats.Stats, error) {
	var resp stats.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}

	if !env.OK {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data of %s %s: %w", method, path, err)
	}
	return nil
}

// IsNotFound reports an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
