package http

import (
	"log/slog"
	"net/http"

	"kadry/internal/hr/models"
	"kadry/internal/hr/service"
)

type employeeHandler struct {
	hr     *service.Service
	logger *slog.Logger
}

type employeeRequest struct {
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Age                   *int    `json:"age"`
	IsStudent             bool    `json:"is_student"`
	Pesel                 *string `json:"pesel"`
	PeselURK              bool    `json:"pesel_urk"`
	Workplace             *string `json:"workplace"`
	Pit2                  bool    `json:"pit_2"`
	WorkingStatus         string  `json:"working_status"`
	AdditionalInformation *string `json:"additional_information"`
	StudentEndDate        *string `json:"student_end_date"`
}

type employeeResponse struct {
	ID                    int64   `json:"id"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Age                   *int    `json:"age"`
	IsStudent             bool    `json:"is_student"`
	Pesel                 *string `json:"pesel"`
	PeselURK              bool    `json:"pesel_urk"`
	Workplace             *string `json:"workplace"`
	Pit2                  bool    `json:"pit_2"`
	WorkingStatus         string  `json:"working_status"`
	AdditionalInformation *string `json:"additional_information"`
	StudentEndDate        *string `json:"student_end_date"`
}

func (req *employeeRequest) toModel(w http.ResponseWriter) (*models.Employee, bool) {
	studentEnd, err := parseDate(req.StudentEndDate)
	if err != nil {
		badRequest(w, "invalid student_end_date")
		return nil, false
	}
	return &models.Employee{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Age:                   req.Age,
		IsStudent:             req.IsStudent,
		Pesel:                 req.Pesel,
		PeselURK:              req.PeselURK,
		Workplace:             req.Workplace,
		Pit2:                  req.Pit2,
		WorkingStatus:         models.WorkingStatus(req.WorkingStatus),
		AdditionalInformation: req.AdditionalInformation,
		StudentEndDate:        studentEnd,
	}, true
}

func toEmployeeResponse(e *models.Employee) employeeResponse {
	return employeeResponse{
		ID:                    e.ID,
		FirstName:             e.FirstName,
		LastName:              e.LastName,
		Age:                   e.Age,
		IsStudent:             e.IsStudent,
		Pesel:                 e.Pesel,
		PeselURK:              e.PeselURK,
		Workplace:             e.Workplace,
		Pit2:                  e.Pit2,
		WorkingStatus:         string(e.WorkingStatus),
		AdditionalInformation: e.AdditionalInformation,
		StudentEndDate:        formatDate(e.StudentEndDate),
	}
}

func (h *employeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	emp, ok := req.toModel(w)
	if !ok {
		return
	}

	if err := h.hr.CreateEmployee(r.Context(), emp); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

func (h *employeeHandler) list(w http.ResponseWriter, r *http.Request) {
	employees, err := h.hr.ListEmployees(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	out := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, toEmployeeResponse(&employees[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *employeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}

	emp, err := h.hr.Employee(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *employeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req employeeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	emp, ok := req.toModel(w)
	if !ok {
		return
	}
	emp.ID = id

	if err := h.hr.UpdateEmployee(r.Context(), emp); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *employeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}

	if err := h.hr.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
