package transaction

import (
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

// CreateTransactionDTO represents the transaction form payload
type CreateTransactionDTO struct {
	Type       Type    `json:"type"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"categoryId"`
}

func (dto CreateTransactionDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeIncome), string(TypeExpense))
	v.Field("amount", dto.Amount).NonNegative()
	v.Field("categoryId", dto.CategoryID).Required()
	return v.Validate()
}

// UpdateTransactionDTO carries the full record; CreatedAt must be the
// original creation stamp.
type UpdateTransactionDTO struct {
	Type       Type    `json:"type"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"categoryId"`
	CreatedAt  string  `json:"createdAt"`
}

func (dto UpdateTransactionDTO) Validate(id string) *internal.AppError {
	v := validation.NewValidator()
	v.Field("id", id).Required()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeIncome), string(TypeExpense))
	v.Field("amount", dto.Amount).NonNegative()
	v.Field("categoryId", dto.CategoryID).Required()
	v.Field("createdAt", dto.CreatedAt).Required()
	return v.Validate()
}

// ValidateRemoveID rejects an empty id, which would address the whole
// collection on the remote store.
func ValidateRemoveID(id string) *internal.AppError {
	v := validation.NewValidator()
	v.Field("id", id).Required()
	return v.Validate()
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Totals       Totals        `json:"totals"`
	Loading      bool          `json:"loading"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}
