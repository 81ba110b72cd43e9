// Package server exposes household data and analysis over an HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
	"github.com/blackwell-systems/wattwatch/internal/store"
)

// Server serves the API on top of a repository. Mutations are
// read-modify-write cycles over the whole data set, so they are serialized.
type Server struct {
	repo    store.Repository
	topN    int
	metrics *Metrics
	mu      sync.Mutex
}

// New creates a Server. topN is the ranking size used when a request does
// not specify one.
func New(repo store.Repository, topN int) *Server {
	if topN <= 0 {
		topN = analysis.DefaultTopN
	}
	return &Server{
		repo:    repo,
		topN:    topN,
		metrics: NewMetrics(),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/catalog", s.getCatalog).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.putSettings).Methods(http.MethodPut)
	api.HandleFunc("/devices", s.listDevices).Methods(http.MethodGet)
	api.HandleFunc("/devices", s.createDevice).Methods(http.MethodPost)
	api.HandleFunc("/devices/{index:[0-9]+}", s.replaceDevice).Methods(http.MethodPut)
	api.HandleFunc("/devices/{index:[0-9]+}", s.deleteDevice).Methods(http.MethodDelete)
	api.HandleFunc("/analysis", s.getAnalysis).Methods(http.MethodGet)

	return r
}

type catalogResponse struct {
	Locations []string `json:"locations"`
	Types     []string `json:"types"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Locations: household.Locations, Types: household.Types})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	data, ok := s.load(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data.Settings)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings household.Settings
	if !decode(w, r, &settings) {
		return
	}
	if err := household.ValidateSettings(settings); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mutate(w, http.StatusOK, func(data *household.AppData) (any, error) {
		data.Settings = settings
		return settings, nil
	})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	data, ok := s.load(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data.Devices)
}

func (s *Server) createDevice(w http.ResponseWriter, r *http.Request) {
	var dev household.Device
	if !decode(w, r, &dev) {
		return
	}
	if err := household.ValidateDevice(dev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mutate(w, http.StatusCreated, func(data *household.AppData) (any, error) {
		data.AddDevice(dev)
		return dev, nil
	})
}

func (s *Server) replaceDevice(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexVar(w, r)
	if !ok {
		return
	}
	var dev household.Device
	if !decode(w, r, &dev) {
		return
	}
	if err := household.ValidateDevice(dev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mutate(w, http.StatusOK, func(data *household.AppData) (any, error) {
		if err := data.ReplaceDevice(idx, dev); err != nil {
			return nil, err
		}
		return dev, nil
	})
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexVar(w, r)
	if !ok {
		return
	}

	s.mutate(w, http.StatusNoContent, func(data *household.AppData) (any, error) {
		if data.RemoveDevices(idx) == 0 {
			return nil, household.ErrDeviceIndex
		}
		return nil, nil
	})
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	topN := s.topN
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("top must be a non-negative integer"))
			return
		}
		topN = n
	}

	data, ok := s.load(w)
	if !ok {
		return
	}
	s.metrics.Observe(data)
	writeJSON(w, http.StatusOK, analysis.Analyze(data.Settings, data.Devices, topN))
}

// load reads the current snapshot, writing a 500 on failure.
func (s *Server) load(w http.ResponseWriter) (household.AppData, bool) {
	data, err := s.repo.Load()
	if err != nil {
		log.Printf("Warning: loading household data: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not load data"))
		return household.AppData{}, false
	}
	if data.Devices == nil {
		data.Devices = []household.Device{}
	}
	return data, true
}

// mutate applies fn to the stored data under the lock and saves the result.
func (s *Server) mutate(w http.ResponseWriter, status int, fn func(*household.AppData) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.load(w)
	if !ok {
		return
	}
	body, err := fn(&data)
	if errors.Is(err, household.ErrDeviceIndex) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.repo.Save(data); err != nil {
		log.Printf("Warning: saving household data: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not save data"))
		return
	}
	s.metrics.Observe(data)

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, body)
}

func indexVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusNotFound, household.ErrDeviceIndex)
		return 0, false
	}
	return idx, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
