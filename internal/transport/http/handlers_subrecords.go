package http

import (
	"log/slog"
	"net/http"

	"kadry/internal/hr/models"
	"kadry/internal/hr/service"
)

type subRecordHandler struct {
	hr     *service.Service
	logger *slog.Logger
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

type documentRequest struct {
	DocType    *string `json:"doc_type"`
	Number     *string `json:"number"`
	ValidUntil *string `json:"valid_until"`
}

type documentResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	DocType    *string `json:"doc_type"`
	Number     *string `json:"number"`
	ValidUntil *string `json:"valid_until"`
}

func toDocumentResponse(d *models.Document) documentResponse {
	return documentResponse{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		DocType:    d.DocType,
		Number:     d.Number,
		ValidUntil: formatDate(d.ValidUntil),
	}
}

func (h *subRecordHandler) createDocument(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		badRequest(w, "invalid valid_until")
		return
	}

	doc := &models.Document{
		EmployeeID: employeeID,
		DocType:    req.DocType,
		Number:     req.Number,
		ValidUntil: validUntil,
	}
	if err := h.hr.CreateDocument(r.Context(), doc); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *subRecordHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	docs, err := h.hr.DocumentsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) updateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "documentID")
	if !ok {
		return
	}
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		badRequest(w, "invalid valid_until")
		return
	}

	doc := &models.Document{
		ID:         id,
		DocType:    req.DocType,
		Number:     req.Number,
		ValidUntil: validUntil,
	}
	if err := h.hr.UpdateDocument(r.Context(), doc); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *subRecordHandler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "documentID")
	if !ok {
		return
	}
	if err := h.hr.DeleteDocument(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Work permits
// ---------------------------------------------------------------------------

type workPermitRequest struct {
	DocType *string `json:"doc_type"`
	EndDate *string `json:"end_date"`
}

type workPermitResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	DocType    *string `json:"doc_type"`
	EndDate    *string `json:"end_date"`
}

func toWorkPermitResponse(p *models.WorkPermit) workPermitResponse {
	return workPermitResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		DocType:    p.DocType,
		EndDate:    formatDate(p.EndDate),
	}
}

func (h *subRecordHandler) createWorkPermit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req workPermitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "invalid end_date")
		return
	}

	permit := &models.WorkPermit{
		EmployeeID: employeeID,
		DocType:    req.DocType,
		EndDate:    endDate,
	}
	if err := h.hr.CreateWorkPermit(r.Context(), permit); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkPermitResponse(permit))
}

func (h *subRecordHandler) listWorkPermits(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	permits, err := h.hr.WorkPermitsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]workPermitResponse, 0, len(permits))
	for i := range permits {
		out = append(out, toWorkPermitResponse(&permits[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) updateWorkPermit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "workPermitID")
	if !ok {
		return
	}
	var req workPermitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "invalid end_date")
		return
	}

	permit := &models.WorkPermit{
		ID:      id,
		DocType: req.DocType,
		EndDate: endDate,
	}
	if err := h.hr.UpdateWorkPermit(r.Context(), permit); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkPermitResponse(permit))
}

func (h *subRecordHandler) deleteWorkPermit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "workPermitID")
	if !ok {
		return
	}
	if err := h.hr.DeleteWorkPermit(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Employment periods
// ---------------------------------------------------------------------------

type periodRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type periodResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

func toPeriodResponse(p *models.EmploymentPeriod) periodResponse {
	return periodResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		StartDate:  p.StartDate.Format(dateLayout),
		EndDate:    formatDate(p.EndDate),
	}
}

func (h *subRecordHandler) createPeriod(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req periodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := parseDate(&req.StartDate)
	if err != nil || start == nil {
		badRequest(w, "invalid start_date")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "invalid end_date")
		return
	}

	period := &models.EmploymentPeriod{
		EmployeeID: employeeID,
		StartDate:  *start,
		EndDate:    end,
	}
	if err := h.hr.CreateEmploymentPeriod(r.Context(), period); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPeriodResponse(period))
}

func (h *subRecordHandler) listPeriods(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	periods, err := h.hr.EmploymentPeriodsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]periodResponse, 0, len(periods))
	for i := range periods {
		out = append(out, toPeriodResponse(&periods[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) updatePeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "periodID")
	if !ok {
		return
	}
	var req periodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := parseDate(&req.StartDate)
	if err != nil || start == nil {
		badRequest(w, "invalid start_date")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "invalid end_date")
		return
	}

	period := &models.EmploymentPeriod{
		ID:        id,
		StartDate: *start,
		EndDate:   end,
	}
	if err := h.hr.UpdateEmploymentPeriod(r.Context(), period); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodResponse(period))
}

func (h *subRecordHandler) deletePeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "periodID")
	if !ok {
		return
	}
	if err := h.hr.DeleteEmploymentPeriod(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Card submissions
// ---------------------------------------------------------------------------

type cardSubmissionRequest struct {
	DocType   *string `json:"doc_type"`
	StartDate *string `json:"start_date"`
}

type cardSubmissionResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	DocType    *string `json:"doc_type"`
	StartDate  *string `json:"start_date"`
}

func (h *subRecordHandler) createCardSubmission(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req cardSubmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(w, "invalid start_date")
		return
	}

	card := &models.CardSubmission{
		EmployeeID: employeeID,
		DocType:    req.DocType,
		StartDate:  start,
	}
	if err := h.hr.CreateCardSubmission(r.Context(), card); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cardSubmissionResponse{
		ID:         card.ID,
		EmployeeID: card.EmployeeID,
		DocType:    card.DocType,
		StartDate:  formatDate(card.StartDate),
	})
}

func (h *subRecordHandler) listCardSubmissions(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	cards, err := h.hr.CardSubmissionsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]cardSubmissionResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardSubmissionResponse{
			ID:         c.ID,
			EmployeeID: c.EmployeeID,
			DocType:    c.DocType,
			StartDate:  formatDate(c.StartDate),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) deleteCardSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "cardSubmissionID")
	if !ok {
		return
	}
	if err := h.hr.DeleteCardSubmission(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Contracts
// ---------------------------------------------------------------------------

type contractRequest struct {
	ContractType string `json:"contract_type"`
}

type contractResponse struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employee_id"`
	ContractType string `json:"contract_type"`
}

func (h *subRecordHandler) createContract(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req contractRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contract := &models.Contract{
		EmployeeID:   employeeID,
		ContractType: models.ContractType(req.ContractType),
	}
	if err := h.hr.CreateContract(r.Context(), contract); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contractResponse{
		ID:           contract.ID,
		EmployeeID:   contract.EmployeeID,
		ContractType: string(contract.ContractType),
	})
}

func (h *subRecordHandler) listContracts(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	contracts, err := h.hr.ContractsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]contractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, contractResponse{
			ID:           c.ID,
			EmployeeID:   c.EmployeeID,
			ContractType: string(c.ContractType),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) deleteContract(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "contractID")
	if !ok {
		return
	}
	if err := h.hr.DeleteContract(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Sanepids
// ---------------------------------------------------------------------------

type sanepidRequest struct {
	Status  *string `json:"status"`
	DocType *string `json:"doc_type"`
	EndDate *string `json:"end_date"`
}

type sanepidResponse struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	Status     *string `json:"status"`
	DocType    *string `json:"doc_type"`
	EndDate    *string `json:"end_date"`
}

func (h *subRecordHandler) createSanepid(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req sanepidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "invalid end_date")
		return
	}

	sanepid := &models.Sanepid{
		EmployeeID: employeeID,
		Status:     req.Status,
		DocType:    req.DocType,
		EndDate:    endDate,
	}
	if err := h.hr.CreateSanepid(r.Context(), sanepid); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sanepidResponse{
		ID:         sanepid.ID,
		EmployeeID: sanepid.EmployeeID,
		Status:     sanepid.Status,
		DocType:    sanepid.DocType,
		EndDate:    formatDate(sanepid.EndDate),
	})
}

func (h *subRecordHandler) listSanepids(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	sanepids, err := h.hr.SanepidsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]sanepidResponse, 0, len(sanepids))
	for _, s := range sanepids {
		out = append(out, sanepidResponse{
			ID:         s.ID,
			EmployeeID: s.EmployeeID,
			Status:     s.Status,
			DocType:    s.DocType,
			EndDate:    formatDate(s.EndDate),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) deleteSanepid(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "sanepidID")
	if !ok {
		return
	}
	if err := h.hr.DeleteSanepid(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type contactRequest struct {
	ContactType string  `json:"contact_type"`
	Value       *string `json:"value"`
}

type contactResponse struct {
	ID          int64   `json:"id"`
	EmployeeID  int64   `json:"employee_id"`
	ContactType string  `json:"contact_type"`
	Value       *string `json:"value"`
}

func (h *subRecordHandler) createContact(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	var req contactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact := &models.Contact{
		EmployeeID:  employeeID,
		ContactType: models.ContactType(req.ContactType),
		Value:       req.Value,
	}
	if err := h.hr.CreateContact(r.Context(), contact); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse{
		ID:          contact.ID,
		EmployeeID:  contact.EmployeeID,
		ContactType: string(contact.ContactType),
		Value:       contact.Value,
	})
}

func (h *subRecordHandler) listContacts(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	contacts, err := h.hr.ContactsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, contactResponse{
			ID:          c.ID,
			EmployeeID:  c.EmployeeID,
			ContactType: string(c.ContactType),
			Value:       c.Value,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *subRecordHandler) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "contactID")
	if !ok {
		return
	}
	if err := h.hr.DeleteContact(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
