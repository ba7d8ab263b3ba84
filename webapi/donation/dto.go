package donation

// SettleInput is the body of POST /donations/settle. Amount is a pointer so an
// omitted amount can be told apart from zero.
type SettleInput struct {
	Amount        *float64 `json:"amount"`
	TransactionID string   `json:"transactionId" validate:"max=128"`
	DonorName     string   `json:"donorName" validate:"max=100"`
	Email         string   `json:"email" validate:"max=254"`
	Phone         string   `json:"phone" validate:"max=32"`
	Purpose       string   `json:"purpose" validate:"max=100"`
}
