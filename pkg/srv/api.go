/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// go-netsdr API
//
// RESTful APIs to control RFSPACE NetSDR receivers
//
// Terms Of Service:
//
//     Schemes: http
//     Host: localhost:8000
//     Version: 1.0.0
//     Contact:
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package srv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/log"
	"github.com/spectrumlab/go-netsdr/pkg/rx"
)

// ReceiverStatus is one entry of the receiver listing
type ReceiverStatus struct {
	Name       string
	Addr       string
	Channels   int
	Running    bool
	SampleRate float64
	Info       rx.Info
}

// Frequency carries a tuning value, in Hz
type Frequency struct {
	Frequency float64
}

// Rate carries a sample rate value, in Hz
type Rate struct {
	Rate float64
}

// Gain carries a gain value, in dB
type Gain struct {
	Gain float64
}

// Bandwidth carries a filter selection, in Hz
type Bandwidth struct {
	Bandwidth float64
}

// Persist names where capture files of a receiver go
type Persist struct {
	Dir        string
	FilePrefix string
}

// CaptureFile names the file a persist request opened
type CaptureFile struct {
	File string
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	srv *Server
}

func NewApiServer(ctx context.Context, cfg *config.Config, srv *Server) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.ApiConfig.Address, cfg.ApiConfig.Port)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		srv:     srv,
	}
	return s, nil
}

// Run starts the API server. The swagger description is parsed first and
// served at /api/swagger.json, with browsable docs at /api/docs.
func (s *ApiServer) Run() error {
	doc, err := loads.Analyzed(json.RawMessage(swaggerJSON), "2.0")
	if err != nil {
		return err
	}
	log.Debug("Swagger spec loaded: %s %s", doc.Spec().Info.Title, doc.Spec().Info.Version)

	s.configureRouter()

	var handler http.Handler = s.Router
	handler = middleware.Redoc(middleware.RedocOpts{
		BasePath: "/api",
		SpecURL:  "/api/swagger.json",
		Path:     "docs",
		Title:    doc.Spec().Info.Title,
	}, handler)
	handler = middleware.Spec("/api", doc.Raw(), handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handlers.RecoveryHandler()(handler))

	log.Info("Starting API server: address: %s port: %d", s.Config.ApiConfig.Address, s.Config.ApiConfig.Port)
	httpServer := &http.Server{
		Handler: handler,
		Addr:    fmt.Sprintf("%s:%d", s.Config.ApiConfig.Address, s.Config.ApiConfig.Port),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /receivers receivers listReceivers
	// ---
	// summary: Return the connected receivers and their run state
	subRouter.HandleFunc("/receivers", s.handleReceivers()).Methods("GET")
	// swagger:operation GET /devices devices listDevices
	// ---
	// summary: Return every unit discovery has ever recorded
	subRouter.HandleFunc("/devices", s.handleDevices()).Methods("GET")
	// swagger:operation POST /discover devices discover
	// ---
	// summary: Run a discovery pass and record the units that answered
	subRouter.HandleFunc("/discover", s.handleDiscover()).Methods("POST")
	subRouter.HandleFunc("/receivers/{receiver}/start", s.handleStart()).Methods("POST")
	subRouter.HandleFunc("/receivers/{receiver}/stop", s.handleStop()).Methods("POST")
	subRouter.HandleFunc("/receivers/{receiver}/frequency", s.handleFrequencyGet()).Methods("GET")
	subRouter.HandleFunc("/receivers/{receiver}/frequency", s.handleFrequencyPut()).Methods("PUT")
	subRouter.HandleFunc("/receivers/{receiver}/rate", s.handleRateGet()).Methods("GET")
	subRouter.HandleFunc("/receivers/{receiver}/rate", s.handleRatePut()).Methods("PUT")
	subRouter.HandleFunc("/receivers/{receiver}/rates", s.handleRates()).Methods("GET")
	subRouter.HandleFunc("/receivers/{receiver}/gain", s.handleGainGet()).Methods("GET")
	subRouter.HandleFunc("/receivers/{receiver}/gain", s.handleGainPut()).Methods("PUT")
	subRouter.HandleFunc("/receivers/{receiver}/bandwidth", s.handleBandwidthPut()).Methods("PUT")
	subRouter.HandleFunc("/receivers/{receiver}/info", s.handleInfo()).Methods("GET")
	subRouter.HandleFunc("/receivers/{receiver}/persist", s.handlePersist()).Methods("POST")
	subRouter.HandleFunc("/receivers/{receiver}/flush", s.handleFlush()).Methods("POST")
}

// session resolves the receiver named in the request path, answering 404
// itself when there is no live session
func (s *ApiServer) session(w http.ResponseWriter, r *http.Request) *Session {
	vars := mux.Vars(r)
	sess, err := s.srv.Session(vars["receiver"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	return sess
}

// chanParam reads the RF channel selection, channel 0 when absent
func chanParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("chan")
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// deviceError distinguishes a bad channel selection from a unit that did
// not answer
func deviceError(w http.ResponseWriter, err error) {
	var chErr rx.ErrChannel
	if errors.As(err, &chErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func (s *ApiServer) handleReceivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling receivers request")
		var statuses []ReceiverStatus
		for _, sess := range s.srv.Sessions() {
			statuses = append(statuses, ReceiverStatus{
				Name:       sess.Name,
				Addr:       sess.Addr(),
				Channels:   sess.Channels(),
				Running:    sess.Running(),
				SampleRate: sess.GetSampleRate(),
				Info:       sess.Info(),
			})
		}
		json.NewEncoder(w).Encode(statuses)
	}
}

func (s *ApiServer) handleDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling devices request")
		units, err := s.srv.state.Units()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(units)
	}
}

func (s *ApiServer) handleDiscover() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling discover request")
		units, err := s.srv.Discover()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(units)
	}
}

func (s *ApiServer) handleStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		if err := sess.Start(); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleStop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		if err := sess.Stop(); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleFrequencyGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		ch, err := chanParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		freq, err := sess.GetCenterFreq(ch)
		if err != nil {
			deviceError(w, err)
			return
		}
		json.NewEncoder(w).Encode(&Frequency{Frequency: freq})
	}
}

func (s *ApiServer) handleFrequencyPut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		ch, err := chanParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		freq := &Frequency{}
		if err := json.NewDecoder(r.Body).Decode(freq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		applied, err := sess.SetCenterFreq(freq.Frequency, ch)
		if err != nil {
			deviceError(w, err)
			return
		}
		s.srv.snapshot(sess)
		json.NewEncoder(w).Encode(&Frequency{Frequency: applied})
	}
}

func (s *ApiServer) handleRateGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		json.NewEncoder(w).Encode(&Rate{Rate: sess.GetSampleRate()})
	}
}

func (s *ApiServer) handleRatePut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		if sess.Running() {
			http.Error(w, "Changing the sample rate while streaming is not supported.", http.StatusConflict)
			return
		}
		rate := &Rate{}
		if err := json.NewDecoder(r.Body).Decode(rate); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		applied, err := sess.SetSampleRate(rate.Rate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		s.srv.snapshot(sess)
		json.NewEncoder(w).Encode(&Rate{Rate: applied})
	}
}

func (s *ApiServer) handleRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		json.NewEncoder(w).Encode(sess.SampleRates())
	}
}

func (s *ApiServer) handleGainGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		ch, err := chanParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gain, err := sess.GetGain(ch)
		if err != nil {
			deviceError(w, err)
			return
		}
		json.NewEncoder(w).Encode(&Gain{Gain: gain})
	}
}

func (s *ApiServer) handleGainPut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		ch, err := chanParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gain := &Gain{}
		if err := json.NewDecoder(r.Body).Decode(gain); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		applied, err := sess.SetGain(gain.Gain, ch)
		if err != nil {
			deviceError(w, err)
			return
		}
		s.srv.snapshot(sess)
		json.NewEncoder(w).Encode(&Gain{Gain: applied})
	}
}

func (s *ApiServer) handleBandwidthPut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		ch, err := chanParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		bw := &Bandwidth{}
		if err := json.NewDecoder(r.Body).Decode(bw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		applied, err := sess.SetBandwidth(bw.Bandwidth, ch)
		if err != nil {
			deviceError(w, err)
			return
		}
		s.srv.snapshot(sess)
		json.NewEncoder(w).Encode(&Bandwidth{Bandwidth: applied})
	}
}

func (s *ApiServer) handleInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		json.NewEncoder(w).Encode(sess.Info())
	}
}

func (s *ApiServer) handlePersist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		persist := &Persist{}
		if err := json.NewDecoder(r.Body).Decode(persist); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if persist.Dir == "" {
			http.Error(w, "Dir is required", http.StatusBadRequest)
			return
		}
		log.Debug("Handling persist request: receiver: %s dir: %s", sess.Name, persist.Dir)
		file := sess.Persist(persist.Dir, persist.FilePrefix)
		json.NewEncoder(w).Encode(&CaptureFile{File: file})
	}
}

func (s *ApiServer) handleFlush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if sess == nil {
			return
		}
		log.Debug("Handling flush request: receiver: %s", sess.Name)
		sess.FlushCapture()
	}
}
