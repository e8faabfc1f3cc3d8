package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrPersistence = errors.New("persist: save failed")

// DefaultEndpoint is where the map service accepts new maps.
const DefaultEndpoint = "http://localhost:8000/map/add_map/"

// GenericFailure is shown when the server gives no reason.
const GenericFailure = "could not save the map"

// Failure describes a transport error or a non-2xx reply.
type Failure struct {
	Status int
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	switch {
	case f.Status != 0 && f.Reason != "":
		return fmt.Sprintf("persist: save failed: %d: %s", f.Status, f.Reason)
	case f.Status != 0:
		return fmt.Sprintf("persist: save failed: status %d", f.Status)
	case f.Err != nil:
		return fmt.Sprintf("persist: save failed: %v", f.Err)
	default:
		return ErrPersistence.Error()
	}
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool { return target == ErrPersistence }

// Message is the text to show the user.
func (f *Failure) Message() string {
	if f.Reason != "" {
		return f.Reason
	}
	return GenericFailure
}

// Payload is the request body of a save.
type Payload struct {
	MapName string  `json:"map_name"`
	Matrix  [][]int `json:"matrix"`
}

// Result is the outcome of an asynchronous save.
type Result struct {
	Name string
	Err  error
}

// Gateway posts map snapshots to the map service.
type Gateway struct {
	Endpoint    string
	Client      *http.Client
	Credentials Credentials
	// MaxNameLen caps map names; zero disables the cap.
	MaxNameLen int
	// Now is used for the token expiry check; defaults to time.Now.
	Now func() time.Time
}

func NewGateway(endpoint string, creds Credentials, timeout time.Duration) *Gateway {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Gateway{
		Endpoint:    endpoint,
		Client:      &http.Client{Timeout: timeout},
		Credentials: creds,
		MaxNameLen:  DefaultMaxNameLen,
	}
}

// Save validates name and posts matrix. Invalid names and expired tokens
// return before any request is made.
func (g *Gateway) Save(ctx context.Context, name string, matrix [][]int) error {
	name, err := ValidateName(name, g.MaxNameLen)
	if err != nil {
		return err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	if err := g.Credentials.Check(now()); err != nil {
		return err
	}

	body, err := json.Marshal(Payload{MapName: name, Matrix: matrix})
	if err != nil {
		return fmt.Errorf("persist: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &Failure{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	g.Credentials.Apply(req)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	log := logrus.WithFields(logrus.Fields{"map": name, "endpoint": g.Endpoint})
	resp, err := client.Do(req)
	if err != nil {
		log.WithError(err).Warn("persist: request failed")
		return &Failure{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := readReason(resp.Body)
		log.WithFields(logrus.Fields{"status": resp.StatusCode, "reason": reason}).Warn("persist: save rejected")
		return &Failure{Status: resp.StatusCode, Reason: reason}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	log.Info("persist: map saved")
	return nil
}

// SaveAsync copies matrix and saves it on a new goroutine. Each call is an
// independent request; the returned channel receives exactly one Result.
func (g *Gateway) SaveAsync(ctx context.Context, name string, matrix [][]int) <-chan Result {
	snap := make([][]int, len(matrix))
	for i, row := range matrix {
		snap[i] = append([]int(nil), row...)
	}
	out := make(chan Result, 1)
	go func() {
		out <- Result{Name: name, Err: g.Save(ctx, name, snap)}
		close(out)
	}()
	return out
}

// readReason pulls a human readable reason out of an error body. It
// understands {"detail": "..."} and {"error": "..."} replies and falls back
// to short plain-text bodies.
func readReason(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil {
				return s
			}
			return string(body.Detail)
		}
		if body.Error != "" {
			return body.Error
		}
		return ""
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
