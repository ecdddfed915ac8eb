package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/morph"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// AnimateRequest asks for a morph animation between two images. Frames are
// streamed back one at a time as they are rendered.
type AnimateRequest struct {
	ImageA   []byte           `json:"image_a"`
	ImageB   []byte           `json:"image_b"`
	LinesA   geometry.LineSet `json:"lines_a"`
	LinesB   geometry.LineSet `json:"lines_b"`
	Steps    int              `json:"steps,omitempty"`
	PingPong bool             `json:"ping_pong,omitempty"`
	Params   *warp.Params     `json:"params,omitempty"`
}

// AnimateResponse is a single message in the animation stream.
type AnimateResponse struct {
	Type      string  `json:"type"`
	Status    string  `json:"status"` // "processing", "frame", "completed", "error"
	Frame     int     `json:"frame,omitempty"`
	Total     int     `json:"total,omitempty"`
	Alpha     float64 `json:"alpha,omitempty"`
	Image     string  `json:"image,omitempty"` // base64 PNG
	Progress  float64 `json:"progress,omitempty"`
	Error     string  `json:"error,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

// animateWebSocketHandler handles WebSocket connections for streamed animations.
func (s *Server) animateWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(r, conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(r *http.Request, conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleAnimateMessage(r, conn, data)
		}
	}
}

// handleAnimateMessage renders an animation request and streams the frames.
func (s *Server) handleAnimateMessage(r *http.Request, conn *websocket.Conn, data []byte) {
	var req AnimateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendAnimateError(conn, "", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	imgA, err := decodeImageBytes(req.ImageA)
	if err != nil {
		s.sendAnimateError(conn, requestID, "Invalid image_a: "+err.Error())
		return
	}
	imgB, err := decodeImageBytes(req.ImageB)
	if err != nil {
		s.sendAnimateError(conn, requestID, "Invalid image_b: "+err.Error())
		return
	}

	steps := req.Steps
	if steps <= 0 {
		steps = morph.DefaultSequenceConfig().Steps
	}
	params := s.warpParams
	if req.Params != nil {
		params = *req.Params
		if err := params.Validate(); err != nil {
			s.sendAnimateError(conn, requestID, "Invalid warp parameters: "+err.Error())
			return
		}
	}

	total := steps
	if req.PingPong && steps > 2 {
		total = 2*steps - 2
	}

	s.sendAnimateResponse(conn, AnimateResponse{
		Type:      "animate_response",
		Status:    "processing",
		Total:     total,
		Progress:  0.0,
		RequestID: requestID,
	})

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	frames := make([]string, 0, total)

	// Frames are rendered in display order so the client can show them as
	// they arrive.
	for i := 0; i < steps; i++ {
		alpha := 0.0
		if steps > 1 {
			alpha = float64(i) / float64(steps-1)
		}

		res, err := morph.Morph(ctx, imgA, imgB, req.LinesA, req.LinesB, alpha, params, warp.Options{Workers: s.warpWorkers})
		if err != nil {
			morphRequestsTotal.WithLabelValues("animate", "error").Inc()
			s.sendAnimateError(conn, requestID, fmt.Sprintf("frame %d: %v", i, err))
			return
		}

		encoded := encodePNGBase64(res.Blended)
		frames = append(frames, encoded)
		s.sendAnimateResponse(conn, AnimateResponse{
			Type:      "animate_response",
			Status:    "frame",
			Frame:     i,
			Total:     total,
			Alpha:     alpha,
			Image:     encoded,
			Progress:  float64(i+1) / float64(total),
			RequestID: requestID,
		})
	}

	// Ping-pong replays the interior frames in reverse, already rendered.
	if req.PingPong && steps > 2 {
		frame := steps
		for i := steps - 2; i >= 1; i-- {
			alpha := float64(i) / float64(steps-1)
			s.sendAnimateResponse(conn, AnimateResponse{
				Type:      "animate_response",
				Status:    "frame",
				Frame:     frame,
				Total:     total,
				Alpha:     alpha,
				Image:     frames[i],
				Progress:  float64(frame+1) / float64(total),
				RequestID: requestID,
			})
			frame++
		}
	}

	morphRequestsTotal.WithLabelValues("animate", "success").Inc()
	morphProcessingDuration.WithLabelValues("animate").Observe(time.Since(start).Seconds())

	s.sendAnimateResponse(conn, AnimateResponse{
		Type:      "animate_response",
		Status:    "completed",
		Total:     total,
		Progress:  1.0,
		RequestID: requestID,
	})
}

func (s *Server) sendAnimateResponse(conn *websocket.Conn, response AnimateResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

func (s *Server) sendAnimateError(conn *websocket.Conn, requestID, message string) {
	s.sendAnimateResponse(conn, AnimateResponse{
		Type:      "animate_response",
		Status:    "error",
		Error:     message,
		RequestID: requestID,
	})
}

// decodeImageBytes decodes raw image bytes, accepting base64 text as well
// since JSON []byte fields arrive base64-encoded anyway.
func decodeImageBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
		data = decoded
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
