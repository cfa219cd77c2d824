package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

// unreachableMessage is what every caller sees when the server cannot be
// reached or returns an unparseable body.
const unreachableMessage = "Unable to reach the server. Please try again."

// FieldError is one validation failure keyed by form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is the uniform envelope every API call resolves to. Callers
// branch on Success only; the gateway never returns a transport error.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
	// Set by specific endpoints that respond outside the data envelope
	Token string `json:"token,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Gateway is a thin typed wrapper over the REST API
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway creates a gateway for the given API base URL. An empty
// baseURL falls back to the API_URL environment variable, then the
// development default.
func NewGateway(baseURL string) *Gateway {
	if baseURL == "" {
		baseURL = os.Getenv("API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:5000/api"
	}
	return &Gateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// Get issues a GET request. The token is optional; without one the
// request is simply unauthenticated.
func (g *Gateway) Get(path, token string) *Response {
	return g.do(http.MethodGet, path, nil, "", token)
}

// Post issues a POST request with a JSON body
func (g *Gateway) Post(path string, body interface{}) *Response {
	payload, err := json.Marshal(body)
	if err != nil {
		return failure(fmt.Sprintf("Invalid request payload: %v", err))
	}
	return g.do(http.MethodPost, path, bytes.NewReader(payload), "application/json", "")
}

// Patch issues a PATCH request with a JSON body and bearer token
func (g *Gateway) Patch(path string, body interface{}, token string) *Response {
	payload, err := json.Marshal(body)
	if err != nil {
		return failure(fmt.Sprintf("Invalid request payload: %v", err))
	}
	return g.do(http.MethodPatch, path, bytes.NewReader(payload), "application/json", token)
}

// Delete issues a DELETE request with a bearer token
func (g *Gateway) Delete(path, token string) *Response {
	return g.do(http.MethodDelete, path, nil, "", token)
}

// Upload posts a multipart body. The content type must come from the
// multipart writer so the boundary matches; the gateway never invents
// one.
func (g *Gateway) Upload(path string, body io.Reader, contentType, token string) *Response {
	return g.do(http.MethodPost, path, body, contentType, token)
}

// UploadFile is a convenience wrapper building a single-file multipart
// body with optional extra fields.
func (g *Gateway) UploadFile(path, fieldName, fileName string, file io.Reader, fields map[string]string, token string) *Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return failure(fmt.Sprintf("Invalid form field %s: %v", k, err))
		}
	}

	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return failure(fmt.Sprintf("Invalid upload: %v", err))
	}
	if _, err := io.Copy(part, file); err != nil {
		return failure(fmt.Sprintf("Failed to read upload: %v", err))
	}
	if err := w.Close(); err != nil {
		return failure(fmt.Sprintf("Invalid upload: %v", err))
	}

	return g.Upload(path, &buf, w.FormDataContentType(), token)
}

// do runs one request and converts every failure mode into an envelope.
// DNS errors, refused connections, timeouts and malformed JSON all
// resolve to Success:false rather than propagating.
func (g *Gateway) do(method, path string, body io.Reader, contentType, token string) *Response {
	req, err := http.NewRequest(method, g.baseURL+path, body)
	if err != nil {
		return failure(unreachableMessage)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return failure(unreachableMessage)
	}
	defer resp.Body.Close()

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failure(unreachableMessage)
	}

	if !parsed.Success && parsed.Message == "" {
		parsed.Message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
	}
	return &parsed
}

func failure(message string) *Response {
	return &Response{Success: false, Message: message}
}
