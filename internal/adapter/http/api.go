package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/geo"
	"github.com/couchcryptid/hamgrid/internal/logimport"
	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

// DefaultMaxUploadBytes caps an uploaded log file.
const DefaultMaxUploadBytes = 10 << 20

// Uploader queues a raw log file for the import pipeline.
type Uploader interface {
	Publish(ctx context.Context, raw domain.RawEvent) error
}

// API serves the locator, DXCC, distance and import endpoints.
type API struct {
	resolver  dxcc.Resolver
	geocoder  domain.Geocoder
	uploader  Uploader
	station   domain.Station
	maxUpload int64
	logger    *slog.Logger
}

// APIOption configures optional API collaborators.
type APIOption func(*API)

// WithGeocoder enables GET /api/v1/places.
func WithGeocoder(g domain.Geocoder) APIOption {
	return func(a *API) { a.geocoder = g }
}

// WithUploader enables POST /api/v1/uploads.
func WithUploader(u Uploader) APIOption {
	return func(a *API) { a.uploader = u }
}

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) APIOption {
	return func(a *API) { a.maxUpload = n }
}

// NewAPI creates the API handlers. A nil resolver answers every DXCC lookup
// with 404.
func NewAPI(resolver dxcc.Resolver, station domain.Station, logger *slog.Logger, opts ...APIOption) *API {
	a := &API{
		resolver:  resolver,
		station:   station,
		maxUpload: DefaultMaxUploadBytes,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/locators/{locator}", a.handleDecode)
	mux.HandleFunc("GET /api/v1/encode", a.handleEncode)
	mux.HandleFunc("GET /api/v1/grid", a.handleGrid)
	mux.HandleFunc("GET /api/v1/dxcc/{call}", a.handleDXCC)
	mux.HandleFunc("GET /api/v1/distance", a.handleDistance)
	mux.HandleFunc("POST /api/v1/targets", a.handleTargets)
	mux.HandleFunc("POST /api/v1/import", a.handleImport)
	mux.HandleFunc("POST /api/v1/uploads", a.handleUpload)
	mux.HandleFunc("GET /api/v1/places", a.handlePlaces)
}

type point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type locatorResponse struct {
	Locator   string                 `json:"locator"`
	Precision string                 `json:"precision"`
	BBox      maidenhead.BoundingBox `json:"bbox"`
	Center    point                  `json:"center"`
}

func (a *API) handleDecode(w http.ResponseWriter, r *http.Request) {
	loc := r.PathValue("locator")
	box, ok := maidenhead.Decode(loc)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode %q: %w", loc, maidenhead.ErrInvalidLocator))
		return
	}
	p, _ := maidenhead.PrecisionOf(loc)
	lon, lat := box.Center()
	sharedobs.WriteJSON(w, http.StatusOK, locatorResponse{
		Locator:   strings.TrimSpace(loc),
		Precision: p.String(),
		BBox:      box,
		Center:    point{Lon: lon, Lat: lat},
	})
}

func (a *API) handleEncode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLon != nil || errLat != nil {
		writeError(w, http.StatusBadRequest, errors.New("lon and lat must be numbers"))
		return
	}
	p, err := parsePrecision(q.Get("precision"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	loc, ok := maidenhead.Encode(lon, lat, p)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("encode %g,%g: %w", lon, lat, maidenhead.ErrInvalidLocator))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"locator": loc})
}

type gridResponse struct {
	Level string                `json:"level"`
	Cells []maidenhead.GridCell `json:"cells"`
}

func (a *API) handleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	box, err := maidenhead.ParseBBox(q.Get("bbox"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	level := maidenhead.Square
	switch {
	case q.Get("level") != "":
		level, err = maidenhead.ParseLevel(q.Get("level"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	case q.Get("zoom") != "":
		zoom, err := strconv.ParseFloat(q.Get("zoom"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("zoom must be a number"))
			return
		}
		level = maidenhead.LevelForZoom(zoom)
	}

	cells := maidenhead.BuildGrid(box, level)
	if cells == nil {
		cells = []maidenhead.GridCell{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, gridResponse{
		Level: maidenhead.EffectiveLevel(box, level).String(),
		Cells: cells,
	})
}

type dxccResponse struct {
	Call string `json:"call"`
	dxcc.Match
}

func (a *API) handleDXCC(w http.ResponseWriter, r *http.Request) {
	call := strings.ToUpper(strings.TrimSpace(r.PathValue("call")))
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	if a.resolver == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no DXCC entity for %s", call))
		return
	}
	m, ok := a.resolver.Resolve(call, includeDeleted)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no DXCC entity for %s", call))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, dxccResponse{Call: call, Match: m})
}

type distanceResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Km      float64 `json:"km"`
	Bearing float64 `json:"bearing"`
}

func (a *API) handleDistance(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	km, bearing, ok := geo.LocatorDistance(from, to)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("distance %q to %q: %w", from, to, maidenhead.ErrInvalidLocator))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, distanceResponse{From: from, To: to, Km: km, Bearing: bearing})
}

func (a *API) handleTargets(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, maidenhead.ParseTargets(string(body)))
}

type importResponse struct {
	ImportID  string            `json:"import_id"`
	Format    logimport.Format  `json:"format"`
	MyLocator string            `json:"my_locator,omitempty"`
	MyCall    string            `json:"my_call,omitempty"`
	Skipped   int               `json:"skipped"`
	Qsos      []domain.QsoEvent `json:"qsos"`
}

// handleImport parses and enriches a log synchronously, without geocoding.
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	raw := rawFromRequest(r, body)

	res, err := domain.ParseRawLog(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	importID := domain.ImportID(body)
	events := domain.EnrichResult(res, importID, a.station, a.resolver)
	if events == nil {
		events = []domain.QsoEvent{}
	}

	a.logger.Info("log imported via http",
		"import_id", importID,
		"format", res.Format,
		"qsos", len(events),
		"skipped", res.Skipped,
	)
	sharedobs.WriteJSON(w, http.StatusOK, importResponse{
		ImportID:  importID,
		Format:    res.Format,
		MyLocator: res.MyLocator,
		MyCall:    res.MyCall,
		Skipped:   res.Skipped,
		Qsos:      events,
	})
}

// handleUpload queues the log for the pipeline and returns its import ID.
func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	if a.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("uploads are not enabled"))
		return
	}
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	raw := rawFromRequest(r, body)
	importID := domain.ImportID(body)
	raw.Key = []byte(importID)

	if err := a.uploader.Publish(r.Context(), raw); err != nil {
		a.logger.Error("queue upload failed", "import_id", importID, "error", err)
		writeError(w, http.StatusBadGateway, errors.New("could not queue log"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, map[string]string{"import_id": importID})
}

func (a *API) handlePlaces(w http.ResponseWriter, r *http.Request) {
	if a.geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("geocoding is not enabled"))
		return
	}
	q := r.URL.Query()
	p, err := parsePrecision(q.Get("precision"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	place, err := domain.LocatePlace(r.Context(), a.geocoder, q.Get("q"), p)
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, place)
	case errors.Is(err, domain.ErrPlaceNotFound):
		writeError(w, http.StatusNotFound, err)
	case strings.TrimSpace(q.Get("q")) == "" || errors.Is(err, maidenhead.ErrInvalidLocator):
		writeError(w, http.StatusBadRequest, err)
	default:
		a.logger.Warn("place lookup failed", "query", q.Get("q"), "error", err)
		writeError(w, http.StatusBadGateway, errors.New("geocoder unavailable"))
	}
}

func (a *API) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("log exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return nil, false
	}
	return body, true
}

func rawFromRequest(r *http.Request, body []byte) domain.RawEvent {
	headers := map[string]string{}
	if f := r.URL.Query().Get("format"); f != "" {
		headers[domain.HeaderFormat] = f
	}
	if name := r.URL.Query().Get("filename"); name != "" {
		headers[domain.HeaderFilename] = name
	}
	return domain.RawEvent{Value: body, Headers: headers}
}

func parsePrecision(s string) (maidenhead.Precision, error) {
	if s == "" {
		return maidenhead.Subsquare, nil
	}
	return maidenhead.ParseLevel(s)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
