// Package remote is the HTTP client for the external Room/Booking service.
// Every response follows the {success, data?, error?} envelope; a
// success:false body is surfaced as an *APIError so callers can report it as
// a recoverable failure.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/homestay-console/backend/internal/models"
)

// Config holds the remote service connection settings.
type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Client talks to the remote Room/Booking service.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a remote service client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// APIError is a success:false response from the remote service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service error (status %d)", e.Status)
	}
	return e.Message
}

// envelope is the remote service's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Count   int             `json:"count,omitempty"`
	Source  string          `json:"source,omitempty"`
}

// ListRooms fetches the full room snapshot, booking intervals included.
// Legacy field variants are normalized before the rooms reach business code.
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	env, err := c.do(ctx, http.MethodGet, "/rooms", nil)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := json.Unmarshal(env.Data, &rooms); err != nil {
		return nil, fmt.Errorf("decoding rooms: %w", err)
	}
	for i := range rooms {
		rooms[i].Normalize()
	}
	return rooms, nil
}

// RoomCreate is the payload for creating a room. CustomID is the optional
// operator-chosen 4-digit room code; left empty, the remote service assigns
// a database identifier.
type RoomCreate struct {
	CustomID    string   `json:"custom_id,omitempty"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// CreateRoom creates a room and returns the stored document.
func (c *Client) CreateRoom(ctx context.Context, room RoomCreate) (models.Room, error) {
	env, err := c.do(ctx, http.MethodPost, "/rooms", room)
	if err != nil {
		return models.Room{}, err
	}
	return decodeRoom(env.Data)
}

// UpdateRoom applies a partial update to a room's fields.
func (c *Client) UpdateRoom(ctx context.Context, roomID string, fields map[string]any) (models.Room, error) {
	env, err := c.do(ctx, http.MethodPut, "/rooms/"+url.PathEscape(roomID), fields)
	if err != nil {
		return models.Room{}, err
	}
	return decodeRoom(env.Data)
}

// DeleteRoom removes a room.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(roomID), nil)
	return err
}

// CreateBooking adds a booking interval to a room. The remote service
// rejects overlapping intervals; that conflict arrives as an *APIError.
func (c *Client) CreateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error {
	_, err := c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/book", iv)
	return err
}

// UpdateBooking updates guest fields on an existing interval. The original
// (checkIn, checkOut) pair is the identity key; only guest name, phone,
// email and notes are mutable.
func (c *Client) UpdateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error {
	_, err := c.do(ctx, http.MethodPut, "/rooms/"+url.PathEscape(roomID)+"/update-booking", iv)
	return err
}

// CancelBooking removes the interval identified by its (checkIn, checkOut)
// pair.
func (c *Client) CancelBooking(ctx context.Context, roomID, checkIn, checkOut string) error {
	body := map[string]string{"checkIn": checkIn, "checkOut": checkOut}
	_, err := c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/unbook", body)
	return err
}

// SyncAllICal asks the remote service to re-import every configured iCal feed.
func (c *Client) SyncAllICal(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/rooms/sync-all-ical", nil)
	return err
}

// SyncRoomICal re-imports a single room's iCal feed.
func (c *Client) SyncRoomICal(ctx context.Context, roomID string) error {
	_, err := c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/sync-ical", nil)
	return err
}

// SetICalURL stores the iCal feed URL for a room.
func (c *Client) SetICalURL(ctx context.Context, roomID, icalURL string) error {
	body := map[string]string{"icalUrl": icalURL}
	_, err := c.do(ctx, http.MethodPut, "/rooms/"+url.PathEscape(roomID)+"/ical-url", body)
	return err
}

// UploadImage uploads one image into a room's gallery category.
func (c *Client) UploadImage(ctx context.Context, roomID, category, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("category", category); err != nil {
		return fmt.Errorf("encoding upload: %w", err)
	}
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("encoding upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("encoding upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("encoding upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/images", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.send(req)
	return err
}

// DeleteImage removes one image from a room's gallery.
func (c *Client) DeleteImage(ctx context.Context, roomID, imageID string) error {
	path := "/rooms/" + url.PathEscape(roomID) + "/images/" + url.PathEscape(imageID)
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// ReorderImages persists a new ordering for one gallery category.
func (c *Client) ReorderImages(ctx context.Context, roomID, category string, order []string) error {
	body := map[string]any{"category": category, "order": order}
	_, err := c.do(ctx, http.MethodPut, "/rooms/"+url.PathEscape(roomID)+"/images/reorder", body)
	return err
}

// do issues a JSON request and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// send executes the request and maps success:false bodies to *APIError.
func (c *Client) send(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}

// newRequest creates an HTTP request with authentication headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeRoom(data json.RawMessage) (models.Room, error) {
	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return models.Room{}, fmt.Errorf("decoding room: %w", err)
	}
	room.Normalize()
	return room, nil
}
