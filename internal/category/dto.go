package category

import (
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

// CreateCategoryDTO represents the category form payload
type CreateCategoryDTO struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

func (dto CreateCategoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeIncome), string(TypeExpense))
	return v.Validate()
}

type UpdateCategoryDTO struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

func (dto UpdateCategoryDTO) Validate(id string) *internal.AppError {
	v := validation.NewValidator()
	v.Field("id", id).Required()
	v.Field("name", dto.Name).Required()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeIncome), string(TypeExpense))
	return v.Validate()
}

// ValidateRemoveID rejects an empty id, which would address the whole
// collection on the remote store.
func ValidateRemoveID(id string) *internal.AppError {
	v := validation.NewValidator()
	v.Field("id", id).Required()
	return v.Validate()
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
	Loading    bool       `json:"loading"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}
