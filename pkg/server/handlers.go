package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/agendagraph/pkg/errors"
	agio "github.com/matzehuels/agendagraph/pkg/io"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
	"github.com/matzehuels/agendagraph/pkg/render"
)

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}

	m, src := s.runner.Parse(r.Context(), text, opts)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Agenda-Source", string(src))
	if err := agio.WriteModel(w, m, agio.JSON); err != nil {
		s.logger.Error("write model", "err", err)
	}
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if render.IsImage(opts.Format) {
		if r.URL.Query().Get("format") != "" {
			writeError(w, errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (use /v1/image for svg and png)", opts.Format))
			return
		}
		opts.Format = pipeline.DefaultFormat
	}

	res, err := s.runner.Convert(r.Context(), text, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Agenda-Source", string(res.Source))
	_, _ = io.WriteString(w, res.Text)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !render.IsImage(opts.Format) {
		opts.Format = string(render.SVG)
	}
	if v := r.URL.Query().Get("engine"); v != "" && !strings.EqualFold(strings.TrimSpace(v), string(render.EngineEmbedded)) {
		writeError(w, errors.New(errors.ErrCodeInvalidEngine, "invalid engine: %s (images are rendered with 'embedded' only)", v))
		return
	}
	opts.Engine = string(render.EngineEmbedded)

	res, err := s.runner.Convert(r.Context(), text, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.Format(opts.Format).ContentType())
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	_, _ = w.Write(res.Image)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// options merges query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("orientation"); v != "" {
		opts.Orientation = v
	}
	if v := q.Get("phrases"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid phrases: %q (must be true or false)", v)
		}
		opts.Phrases = b
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh, _ = strconv.ParseBool(v)
	}
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:  string(errors.ErrCodeInvalidInput),
				Error: "request body exceeds 1 MiB",
			})
			return "", false
		}
		writeError(w, errors.Wrap(errors.ErrCodeInputUnreadable, err, "read request body"))
		return "", false
	}
	text := string(data)
	if err := errors.ValidateText(text); err != nil {
		writeError(w, err)
		return "", false
	}
	return text, true
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: string(code), Error: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidEngine,
		errors.ErrCodeInvalidOrientation, errors.ErrCodeInputUnreadable, errors.ErrCodeOutputRequired:
		return http.StatusBadRequest
	case errors.ErrCodeRendererNotFound:
		return http.StatusServiceUnavailable
	case errors.ErrCodeRendererFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
