package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"agenda/internal/availability"
	"agenda/internal/metrics"
	"agenda/internal/models"
	"agenda/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeRejection отдает отказ валидации: 422 с машинным кодом причины.
func writeRejection(w http.ResponseWriter, rej *availability.Rejection) {
	metrics.IncBookingRejected(string(rej.Reason))
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error":  rej.Message,
		"reason": string(rej.Reason),
	})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var rej *availability.Rejection
	switch {
	case errors.As(err, &rej):
		writeRejection(w, rej)
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrDateTooFar):
		metrics.IncBookingRejected("date_too_far")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  err.Error(),
			"reason": "date_too_far",
		})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- Публичная витрина ---

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	services, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	profile, err := s.profile.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	date, err := models.ParseDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	slots, err := s.bookings.SlotsForDate(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.String(),
		"slots": slots,
	})
}

func (s *HTTPServer) handleNextDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Превью по умолчанию, report=real — полный горизонт.
	horizon, limit := models.NextDatesHorizonDays, models.NextDatesLimit
	switch report := strings.TrimSpace(r.URL.Query().Get("report")); report {
	case "", "preview":
	case "real":
		horizon, limit = models.RealDatesHorizonDays, models.RealDatesLimit
	default:
		writeError(w, http.StatusBadRequest, "unknown report; expected preview or real")
		return
	}

	dates, err := s.bookings.NextDates(r.Context(), horizon, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": out})
}

func (s *HTTPServer) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req service.CreateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	apt, err := s.bookings.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	metrics.IncBookingCreated(apt.ServiceID)

	resp := map[string]any{"appointment": apt}
	// Ссылка "сообщить бизнесу в WhatsApp" для клиента.
	if link := s.businessWhatsAppLink(r, apt); link != "" {
		resp["whatsappUrl"] = link
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *HTTPServer) businessWhatsAppLink(r *http.Request, apt *models.Appointment) string {
	if s.whatsapp == nil {
		return ""
	}
	profile, err := s.profile.Get(r.Context())
	if err != nil {
		return ""
	}
	svc := s.findService(r, apt.ServiceID)
	return s.whatsapp.BusinessLink(profile, s.whatsapp.NewBookingMessage(apt, svc))
}

func (s *HTTPServer) findService(r *http.Request, id string) *models.Service {
	services, err := s.catalog.List(r.Context())
	if err != nil {
		return nil
	}
	for i := range services {
		if services[i].ID == id {
			return &services[i]
		}
	}
	return nil
}

// --- Админка ---

func (s *HTTPServer) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := models.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	var date *models.Date
	if dateStr := strings.TrimSpace(r.URL.Query().Get("date")); dateStr != "" {
		d, err := models.ParseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		date = &d
	}

	appointments, err := s.bookings.List(r.Context(), status, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

// handleAppointmentAction обрабатывает POST
// /api/v1/admin/appointments/{id}/{confirm|reject|complete}.
func (s *HTTPServer) handleAppointmentAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/appointments/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, action := parts[0], parts[1]

	var apt *models.Appointment
	var err error
	var message string

	switch action {
	case "confirm":
		apt, err = s.bookings.Confirm(r.Context(), id)
		if err == nil && s.whatsapp != nil {
			message = s.whatsapp.ConfirmationMessage(apt, s.findService(r, apt.ServiceID))
		}
	case "reject":
		var body struct {
			Reason string `json:"reason"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil || strings.TrimSpace(body.Reason) == "" {
			writeError(w, http.StatusBadRequest, "reason is required")
			return
		}
		apt, err = s.bookings.Reject(r.Context(), id, body.Reason)
		if err == nil && s.whatsapp != nil {
			message = s.whatsapp.RejectionMessage(apt, s.findService(r, apt.ServiceID), body.Reason)
		}
	case "complete":
		apt, err = s.bookings.Complete(r.Context(), id)
		if err == nil && s.whatsapp != nil {
			message = s.whatsapp.CompletionMessage(apt, s.findService(r, apt.ServiceID))
		}
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	metrics.IncStatusTransition(string(apt.Status))

	resp := map[string]any{"appointment": apt}
	// Ссылка для ответа клиенту в WhatsApp.
	if message != "" {
		resp["whatsappUrl"] = s.whatsapp.ClientLink(apt, message)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		template, err := s.schedule.Template(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedule": template})
	case http.MethodPost:
		var req service.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		template, err := s.schedule.GenerateSlots(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedule": template})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRemoveSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	day := models.Weekday(strings.TrimSpace(r.URL.Query().Get("day")))
	timeStr := strings.TrimSpace(r.URL.Query().Get("time"))
	if !day.Valid() || timeStr == "" {
		writeError(w, http.StatusBadRequest, "day and time are required")
		return
	}

	template, err := s.schedule.RemoveSlot(r.Context(), day, timeStr)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedule": template})
}

func (s *HTTPServer) handleAdminServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		services, err := s.catalog.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})
	case http.MethodPost:
		var svc models.Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		added, err := s.catalog.Add(r.Context(), svc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminServiceByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/services/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var svc models.Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.catalog.Update(r.Context(), id, svc)
		if err != nil {
			if errors.Is(err, service.ErrServiceNotFound) {
				s.writeServiceError(w, err)
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.catalog.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var profile models.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.profile.Save(r.Context(), profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dashboard, err := s.stats.Dashboard(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *HTTPServer) handleValidation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, err := s.bookings.Validation(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	appointments, err := s.bookings.List(r.Context(), "", nil)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	services, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	path, err := s.exporter.AppointmentsToExcel(appointments, services)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}
