package dto

type CreateCategoryInput struct {
	Name        string
	Description *string
	ImageURL    *string
}

// UpdateCategoryInput lists every field an update may touch. Nil leaves the
// stored value unchanged.
type UpdateCategoryInput struct {
	ID          string
	Name        *string
	Description *string
	ImageURL    *string
}
