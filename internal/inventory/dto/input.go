package dto

// AdjustStockInput is a manual, reason-coded correction of one product.
type AdjustStockInput struct {
	ProductID string
	Quantity  int    // Signed delta, never zero
	Reason    string // ADJUSTMENT, PURCHASE, RETURN, DAMAGED or THEFT
	Notes     *string
}
