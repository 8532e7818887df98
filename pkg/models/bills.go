package models

// BillPoint is one month of an uploaded bill history.
type BillPoint struct {
	Month string  `json:"month"`
	Units float64 `json:"units"`
}
