package dto

import (
	"github.com/storeops-br/catalog-admin-api/internal/app/display"
	"github.com/storeops-br/catalog-admin-api/internal/app/workflow"
)

// ProductResponse is one rendering-ready catalog row.
type ProductResponse struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Image  string `json:"image"`
	Price  string `json:"price"`
	Status string `json:"status"`
}

// ToProductResponse converts a display Product to ProductResponse.
func ToProductResponse(p display.Product) *ProductResponse {
	return &ProductResponse{
		ID:     p.ID,
		Title:  p.Title,
		Image:  p.Image,
		Price:  p.Price,
		Status: p.Status,
	}
}

// ToProductResponseList converts a list of display Products.
func ToProductResponseList(products []display.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// SessionResponse is the identity readout for the switcher UI.
type SessionResponse struct {
	SessionID    string `json:"session_id"`
	Identity     string `json:"identity"`
	CanEditPrice bool   `json:"can_edit_price"`
}

// SwitchIdentityRequest asks for a local identity switch.
type SwitchIdentityRequest struct {
	Identity string `json:"identity"`
}

// SetDraftRequest carries the raw text typed into the price field.
type SetDraftRequest struct {
	Text string `json:"text"`
}

// EditorResponse surfaces the state of one price editor.
type EditorResponse struct {
	SessionID  string `json:"session_id"`
	ProductID  int    `json:"product_id"`
	State      string `json:"state"`
	Authorized bool   `json:"authorized"`
	DraftText  string `json:"draft_text,omitempty"`
	DraftValid bool   `json:"draft_valid"`
	Message    string `json:"message,omitempty"`
}

// ToEditorResponse builds the editor readout for one session and product.
func ToEditorResponse(sessionID string, productID int, e *workflow.PriceEditor) *EditorResponse {
	resp := &EditorResponse{
		SessionID:  sessionID,
		ProductID:  productID,
		State:      string(e.State()),
		Authorized: e.Authorized(),
		Message:    e.Message(),
	}
	if draft, ok := e.Draft(); ok {
		resp.DraftText = draft.Text
		resp.DraftValid = draft.Valid
	}
	return resp
}

// SubmitResponse carries the confirmation of a committed price update.
type SubmitResponse struct {
	SessionID    string           `json:"session_id"`
	Notification string           `json:"notification"`
	Product      *ProductResponse `json:"product"`
}
