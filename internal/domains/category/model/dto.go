package model

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxNameLength = 255
	maxRefLength  = 2048
)

// ========================================
// REQUEST DTOs
// ========================================

// CreateCategoryRequest - POST /categories
type CreateCategoryRequest struct {
	Name     string  `json:"name"`
	Image    *string `json:"image,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	ParentID *int64  `json:"parentId,omitempty"`
	Status   string  `json:"status,omitempty"`
}

func (r CreateCategoryRequest) Validate() error {
	return toCategoryError(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.By(notBlank),
			validation.RuneLength(0, maxNameLength).Error(fmt.Sprintf("Category name must be at most %d characters", maxNameLength)),
		),
		validation.Field(&r.Image, validation.RuneLength(0, maxRefLength)),
		validation.Field(&r.Icon, validation.RuneLength(0, maxRefLength)),
		validation.Field(&r.Status, validation.When(r.Status != "", validation.By(validStatus))),
	))
}

// IsSubcategory reports whether the request names a parent.
func (r CreateCategoryRequest) IsSubcategory() bool {
	return parentOrRoot(r.ParentID) != nil
}

// ToNewCategory returns the normalized row. Status defaults to active and a
// parent id of 0 means top level.
func (r CreateCategoryRequest) ToNewCategory() NewCategory {
	status := StatusActive
	if r.Status != "" {
		status = Status(r.Status)
	}
	return NewCategory{
		Name:     NormalizeName(r.Name),
		Image:    r.Image,
		Icon:     r.Icon,
		ParentID: parentOrRoot(r.ParentID),
		Status:   status,
	}
}

// UpdateCategoryRequest - PUT /categories/:id
// image/icon may be sent as null to clear them.
type UpdateCategoryRequest struct {
	Name   *string          `json:"name"`
	Image  Optional[string] `json:"image"`
	Icon   Optional[string] `json:"icon"`
	Status *string          `json:"status"`
}

func (r UpdateCategoryRequest) Validate() error {
	return toCategoryError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil,
			validation.By(notBlank),
			validation.RuneLength(0, maxNameLength).Error(fmt.Sprintf("Category name must be at most %d characters", maxNameLength)),
		)),
		validation.Field(&r.Image, validation.By(optionalRef)),
		validation.Field(&r.Icon, validation.By(optionalRef)),
		validation.Field(&r.Status, validation.When(r.Status != nil, validation.By(validStatus))),
	))
}

func (r UpdateCategoryRequest) ToUpdate() CategoryUpdate {
	u := CategoryUpdate{Image: r.Image, Icon: r.Icon}
	if r.Name != nil {
		name := NormalizeName(*r.Name)
		u.Name = &name
	}
	if r.Status != nil {
		status := Status(*r.Status)
		u.Status = &status
	}
	return u
}

// MoveCategoryRequest - PATCH /categories/:id/parent
// parentId must be present; null moves the category to the top level.
type MoveCategoryRequest struct {
	ParentID Optional[int64] `json:"parentId"`
}

// NewParentID is the target parent, nil for the top level. 0 counts as top level.
func (r MoveCategoryRequest) NewParentID() *int64 {
	return parentOrRoot(r.ParentID.Value)
}

func parentOrRoot(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func (r MoveCategoryRequest) Validate() error {
	return toCategoryError(validation.ValidateStruct(&r,
		validation.Field(&r.ParentID, validation.By(func(value interface{}) error {
			if o, ok := value.(Optional[int64]); ok && !o.Set {
				return errors.New("parentId is required (null moves the category to the top level)")
			}
			return nil
		})),
	))
}

// ========================================
// RESPONSE DTOs
// ========================================

type CreateCategoryResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CategoryID int64  `json:"categoryId"`
}

type MediaUploadResponse struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// ========================================
// RULES
// ========================================

func notBlank(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if NormalizeName(s) == "" {
		return errors.New(ErrInvalidName.Message)
	}
	return nil
}

func validStatus(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if !Status(s).IsValid() {
		return errors.New(ErrInvalidStatus.Message)
	}
	return nil
}

func optionalRef(value interface{}) error {
	o, ok := value.(Optional[string])
	if !ok || o.Value == nil {
		return nil
	}
	return validation.Validate(*o.Value, validation.RuneLength(0, maxRefLength))
}

// toCategoryError maps ozzo field errors onto the category error codes.
// name wins over status, status over anything else.
func toCategoryError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return ErrValidation.Wrap(err)
	}

	if e, ok := fieldErrs["name"]; ok {
		return ErrInvalidName.WithMessage("%s", e.Error())
	}
	if e, ok := fieldErrs["status"]; ok {
		return ErrInvalidStatus.WithMessage("%s", e.Error())
	}
	return ErrValidation.WithMessage("%s", fieldErrs.Error())
}
