package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/buildinfo"
	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/layout"
	"github.com/matzehuels/graphcanvas/pkg/mode"
	"github.com/matzehuels/graphcanvas/pkg/observability"
	"github.com/matzehuels/graphcanvas/pkg/pipeline"
	"github.com/matzehuels/graphcanvas/pkg/script"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list documents"))
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// createDocument stores the posted document under a fresh ID. An empty
// body creates an empty document named by the "name" query parameter.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc := docio.New(r.URL.Query().Get("name"))
	if len(bytes.TrimSpace(body)) > 0 {
		posted, err := docio.ReadJSON(bytes.NewReader(body))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		posted.ID = doc.ID
		if posted.Name == "" {
			posted.Name = doc.Name
		}
		doc = posted
	}
	if doc.Name != "" {
		if err := errors.ValidateName(doc.Name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if err := store.SaveDocument(r.Context(), s.store, doc); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/documents/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := docio.ReadJSON(bytes.NewReader(body))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc.ID = id

	defer s.lock(id)()
	if err := store.SaveDocument(r.Context(), s.store, doc); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.lock(id)()
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Editing
// =============================================================================

type scriptResponse struct {
	Output   string          `json:"output"`
	Document *docio.Document `json:"document"`
}

// runScript runs the request body as a canvas script. The document is
// saved only when the whole script succeeds.
func (s *Server) runScript(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.edit(w, r, func(ctx context.Context, c *canvas.Canvas) (string, error) {
		m := mode.New(c,
			mode.WithGrid(s.cfg.Canvas.GridSize, s.cfg.Canvas.Snap),
			mode.WithStyles(s.cfg.NodeStyle(), s.cfg.EdgeStyle()),
			mode.WithLogger(s.logger),
		)
		var out bytes.Buffer
		in := script.New(m,
			script.WithOutput(&out),
			script.WithLogger(s.logger),
			script.WithStyles(s.cfg.NodeStyle(), s.cfg.EdgeStyle()),
		)
		ctx, cancel := context.WithTimeout(ctx, s.scriptTimeout)
		defer cancel()
		if err := in.Run(ctx, string(body)); err != nil {
			return "", err
		}
		// Leaving the final mode settles a pending freestyle graph.
		m.SetMode(mode.Drag)
		return out.String(), nil
	})
}

type layoutRequest struct {
	Kind    string  `json:"kind"`
	N       int     `json:"n"`
	M       int     `json:"m"`
	Offsets string  `json:"offsets"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Labels  bool    `json:"labels"`
	NoEdges bool    `json:"no_edges"`
}

func (s *Server) addLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	body, err := readBody(w, r)
	if err == nil {
		if err = json.Unmarshal(body, &req); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request")
		}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	kind, err := layout.ParseKind(req.Kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.edit(w, r, func(_ context.Context, c *canvas.Canvas) (string, error) {
		_, err := layout.Generate(c, layout.Params{
			Kind:      kind,
			N:         req.N,
			M:         req.M,
			Offsets:   req.Offsets,
			Width:     req.Width,
			Height:    req.Height,
			Pos:       r2.Vec{X: req.X, Y: req.Y},
			Labels:    req.Labels,
			NoEdges:   req.NoEdges,
			NodeStyle: s.cfg.NodeStyle(),
			EdgeStyle: s.cfg.EdgeStyle(),
		})
		return "", err
	})
}

// edit runs fn on the canvas of the requested document under the
// document lock and saves the result when fn succeeds.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(context.Context, *canvas.Canvas) (string, error)) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.lock(id)()

	doc, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := doc.Build(canvas.WithLogger(s.logger), canvas.WithObserver(observability.CanvasObserver(r.Context(), doc.ID)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := fn(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	saved := docio.FromCanvas(c, doc.Name)
	saved.ID = doc.ID
	if err := store.SaveDocument(r.Context(), s.store, saved); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scriptResponse{Output: out, Document: saved})
}

// =============================================================================
// Inspection
// =============================================================================

type rootReport struct {
	ID         string `json:"id"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Components int    `json:"components"`
}

type checkResponse struct {
	OK    bool         `json:"ok"`
	Error string       `json:"error,omitempty"`
	Roots []rootReport `json:"roots"`
}

func (s *Server) checkDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := doc.Build()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := checkResponse{OK: true, Roots: []rootReport{}}
	if err := c.Check(); err != nil {
		resp.OK, resp.Error = false, err.Error()
	}
	for _, g := range c.Roots() {
		graph := c.Graph(g)
		comps := len(c.Components(g))
		if comps > 1 {
			resp.OK = false
		}
		resp.Roots = append(resp.Roots, rootReport{
			ID:         g.String(),
			Nodes:      len(graph.NodeIDs()),
			Edges:      len(graph.EdgeIDs()),
			Components: comps,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Render(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := opts.Formats[0]
	cacheStatus := "miss"
	if len(res.CacheHits) > 0 {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", strconv.Quote(res.DocumentHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// renderOptions starts from the configured render defaults and applies the
// query parameters format, scale, margin, dpi, background, labels, ids,
// graphviz and refresh.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	rc := s.cfg.Render
	opts := pipeline.Options{
		Formats:    []string{pipeline.FormatSVG},
		Margin:     rc.Margin,
		Scale:      rc.Scale,
		DPI:        rc.DPI,
		Background: rc.Background,
		Logger:     s.logger,
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	for name, dst := range map[string]*float64{"scale": &opts.Scale, "margin": &opts.Margin, "dpi": &opts.DPI} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
			}
			*dst = f
		}
	}
	if q.Has("background") {
		opts.Background = q.Get("background")
	}
	for name, dst := range map[string]*bool{"ids": &opts.ShowIDs, "graphviz": &opts.Graphviz, "refresh": &opts.Refresh} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
			}
			*dst = b
		}
	}
	if v := q.Get("labels"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid labels %q", v)
		}
		opts.HideLabels = !show
	}
	return opts, opts.ValidateAndSetDefaults()
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) load(r *http.Request) (*docio.Document, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	return store.LoadDocument(r.Context(), s.store, id)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}
