package handler

import (
	"net/http"
	"time"

	"cureconnect/internal/converter"
	"cureconnect/internal/delivery/dto"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	directoryUsecase usecase.DirectoryUsecase
	now              func() time.Time
}

func NewDoctorHandler(directoryUsecase usecase.DirectoryUsecase) *DoctorHandler {
	return &DoctorHandler{
		directoryUsecase: directoryUsecase,
		now:              time.Now,
	}
}

// ListDoctors handles getting active doctors
// @Summary List doctors
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search name, specialization, address or language"
// @Param specialization query string false "Specialization, All for any"
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	query := dto.DoctorListQuery{
		Query:          r.URL.Query().Get("q"),
		Specialization: r.URL.Query().Get("specialization"),
	}

	doctors, err := h.directoryUsecase.ListDoctors(r.Context(), usecase.DoctorFilter{
		Query:          query.Query,
		Specialization: query.Specialization,
	})
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	specializations, err := h.directoryUsecase.Specializations(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", dto.DoctorListResponse{
		Doctors:         converter.DirectoryDoctorsToResponses(doctors, h.now()),
		Total:           len(doctors),
		Specializations: specializations,
	})
}

func (h *DoctorHandler) Specializations(w http.ResponseWriter, r *http.Request) {
	specializations, err := h.directoryUsecase.Specializations(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specializations)
}

// GetDoctor handles getting a doctor by ID
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doctor, err := h.directoryUsecase.GetDoctor(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", converter.DirectoryDoctorToResponse(doctor, h.now()))
}
