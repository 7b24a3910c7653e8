package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/internal/items"
	"github.com/secondchance/secondchance-backend/internal/reviews"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type sellerRating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type myProfileResponse struct {
	User         *users.UserDTO `json:"user"`
	ItemCount    int64          `json:"item_count"`
	SellerRating sellerRating   `json:"seller_rating"`
}

type publicProfileResponse struct {
	User         *users.PublicUserDTO `json:"user"`
	ItemCount    int64                `json:"item_count"`
	SellerRating sellerRating         `json:"seller_rating"`
}

func sellerSummary(r *http.Request, itemsSvc items.Service, reviewsSvc reviews.Service, userID uuid.UUID) (int64, sellerRating, error) {
	filters := items.ItemFilters{SellerID: &userID}
	_, meta, err := itemsSvc.List(r.Context(), filters, pagination.Params{Page: 1, Limit: 1})
	if err != nil {
		return 0, sellerRating{}, err
	}

	avg, count, err := reviewsSvc.SellerRating(r.Context(), userID)
	if err != nil {
		return 0, sellerRating{}, err
	}

	return meta.Total, sellerRating{Average: avg, Count: count}, nil
}

// MyProfile assembles the caller's dashboard header: account, address,
// listing count, and the aggregate rating buyers left on their listings.
func MyProfile(usersSvc users.Service, itemsSvc items.Service, reviewsSvc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if usersSvc == nil || itemsSvc == nil || reviewsSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile services unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := usersSvc.Get(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemCount, rating, err := sellerSummary(r, itemsSvc, reviewsSvc, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, myProfileResponse{User: user, ItemCount: itemCount, SellerRating: rating})
	}
}

// PublicProfile is the visitor-facing seller page.
func PublicProfile(usersSvc users.Service, itemsSvc items.Service, reviewsSvc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if usersSvc == nil || itemsSvc == nil || reviewsSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile services unavailable"))
			return
		}

		userID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := usersSvc.GetPublic(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemCount, rating, err := sellerSummary(r, itemsSvc, reviewsSvc, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicProfileResponse{User: user, ItemCount: itemCount, SellerRating: rating})
	}
}

// MyItems lists the caller's own listings regardless of availability.
func MyItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := items.ItemFilters{SellerID: &actorID}
		params := pagination.FromRequest(r, defaultItemsLimit)

		page, meta, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemListResponse{Items: page, Pagination: meta})
	}
}
