package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/api/validators"
	"github.com/secondchance/secondchance-backend/internal/items"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

const defaultItemsLimit = 20

type itemListResponse struct {
	Items      []items.ItemDTO `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

type itemResponse struct {
	Item *items.ItemDTO `json:"item"`
}

type itemCreatedResponse struct {
	Item           *items.ItemDTO `json:"item"`
	ImagesUploaded int            `json:"images_uploaded"`
}

type createItemRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"required,max=5000"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	CategoryID    uuid.UUID       `json:"category_id" validate:"required"`
	ConditionType string          `json:"condition_type" validate:"required"`
	IsAvailable   *bool           `json:"is_available"`
	Images        []string        `json:"images" validate:"max=10,dive,url"`
}

func (req createItemRequest) toInput() (items.CreateItemInput, error) {
	condition, err := enums.ParseConditionType(req.ConditionType)
	if err != nil {
		return items.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition_type")
	}

	return items.CreateItemInput{
		Title:         validators.SanitizeString(req.Title, 200),
		Description:   validators.SanitizeString(req.Description, 5000),
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ConditionType: condition,
		IsAvailable:   req.IsAvailable,
		Images:        req.Images,
	}, nil
}

type updateItemRequest struct {
	Title         *string          `json:"title" validate:"omitempty,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	ConditionType *string          `json:"condition_type"`
	IsAvailable   *bool            `json:"is_available"`
}

func (req updateItemRequest) toInput() (items.UpdateItemInput, error) {
	input := items.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		IsAvailable: req.IsAvailable,
	}

	if req.ConditionType != nil {
		condition, err := enums.ParseConditionType(*req.ConditionType)
		if err != nil {
			return items.UpdateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition_type")
		}
		input.ConditionType = &condition
	}

	return input, nil
}

func itemFiltersFromQuery(r *http.Request) (items.ItemFilters, error) {
	var filters items.ItemFilters

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return filters, err
	}
	filters.CategoryID = categoryID

	sellerID, err := validators.ParseQueryUUID(r, "seller_id")
	if err != nil {
		return filters, err
	}
	filters.SellerID = sellerID

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return filters, err
	}
	filters.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return filters, err
	}
	filters.MaxPrice = maxPrice

	filters.Search = validators.SanitizeString(r.URL.Query().Get("search"), 200)
	return filters, nil
}

// ListItems is the public browse endpoint: AND-composed filters, newest first.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		filters, err := itemFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromRequest(r, defaultItemsLimit)
		page, meta, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemListResponse{Items: page, Pagination: meta})
	}
}

// LandingItems returns the newest available listings for the home page.
func LandingItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		params := pagination.FromRequest(r, defaultItemsLimit)
		page, meta, err := svc.Landing(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemListResponse{Items: page, Pagination: meta})
	}
}

func SearchItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		term := validators.SanitizeString(r.URL.Query().Get("q"), 200)
		params := pagination.FromRequest(r, defaultItemsLimit)

		page, meta, err := svc.Search(r.Context(), term, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemListResponse{Items: page, Pagination: meta})
	}
}

func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func CreateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, itemCreatedResponse{
			Item:           item,
			ImagesUploaded: len(item.Images),
		})
	}
}

// SellItem is the legacy listing flow kept for the landing page form. It is
// the same create under a different route and payload spelling.
func SellItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return CreateItem(svc, logg)
}

func UpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), actorID, role, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemResponse{Item: item})
	}
}

func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, role, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
