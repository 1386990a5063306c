package v1

import (
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/export"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/gin-gonic/gin"
)

// GET /medicines
func (h *Handler) ListMedicines(c *gin.Context) {
	var p view.MedicineParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.inventory.View(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /medicines/:id
func (h *Handler) GetMedicine(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	row, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, row)
}

// addMedicineRequest mirrors the add form. Numbers may arrive as JSON
// numbers or as the text the user typed.
type addMedicineRequest struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Quantity      formValue `json:"quantity"`
	ExpiryDate    string    `json:"expiry_date"`
	Price         formValue `json:"price"`
	Supplier      string    `json:"supplier"`
	BatchNumber   string    `json:"batch_number"`
	MinStockLevel formValue `json:"min_stock_level"`
}

func (r addMedicineRequest) draft() medicine.Draft {
	return medicine.Draft{
		Name:          r.Name,
		Category:      r.Category,
		Quantity:      r.Quantity.String(),
		ExpiryDate:    r.ExpiryDate,
		Price:         r.Price.String(),
		Supplier:      r.Supplier,
		BatchNumber:   r.BatchNumber,
		MinStockLevel: r.MinStockLevel.String(),
	}
}

// POST /medicines
func (h *Handler) AddMedicine(c *gin.Context) {
	var req addMedicineRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.inventory.AddMedicine(c.Request.Context(), actor(c), req.draft())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	row, err := h.inventory.Get(c.Request.Context(), m.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, row)
}

type updateStockRequest struct {
	Quantity formValue `json:"quantity"`
	Reason   string    `json:"reason"`
}

// PUT /medicines/:id/stock
func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateStockRequest
	if !bindJSON(c, &req) {
		return
	}
	qty, err := wholeNumber("quantity", req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	change, err := h.inventory.UpdateStock(c.Request.Context(), actor(c), id, qty, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, change)
}

type movementRequest struct {
	Action          string    `json:"action" binding:"required"`
	Quantity        formValue `json:"quantity"`
	Reason          string    `json:"reason"`
	PrescriptionRef string    `json:"prescription_ref"`
}

// POST /medicines/:id/movements
func (h *Handler) RecordMovement(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req movementRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := service.MovementCommand{
		Action:          stocklog.Action(req.Action),
		Reason:          req.Reason,
		PrescriptionRef: req.PrescriptionRef,
	}
	// expired_removed zeroes the batch and takes no quantity.
	if cmd.Action != stocklog.ActionExpiredRemoved {
		qty, err := wholeNumber("quantity", req.Quantity)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		cmd.Quantity = qty
	}

	change, err := h.inventory.RecordMovement(c.Request.Context(), actor(c), id, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, change)
}

// DELETE /medicines/:id?confirm=true
func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	if err := h.inventory.DeleteMedicine(c.Request.Context(), actor(c), id, confirmed); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "deleted": true})
}

// GET /medicines/export?format=csv|xlsx
func (h *Handler) ExportMedicines(c *gin.Context) {
	var p view.MedicineParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.inventory.View(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.sendReport(c, export.Medicines(result.Items))
}
