package response

import (
	"time"

	"hotel-reservation-engine/internal/pkg/calendar"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID `json:"id"`
	ConfirmationCode string    `json:"confirmationCode"`
	CustomerID       uuid.UUID `json:"customerId"`
	HotelID          uuid.UUID `json:"hotelId"`
	HotelName        string    `json:"hotelName"`
	RoomTypeID       uuid.UUID `json:"roomTypeId"`
	RoomTypeName     string    `json:"roomTypeName"`
	CheckIn          string    `json:"checkIn" copier:"-"`
	CheckOut         string    `json:"checkOut" copier:"-"`
	Nights           int       `json:"nights"`
	GuestCount       int       `json:"guestCount"`
	TotalPrice       string    `json:"totalPrice" copier:"-"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor *string                `json:"nextCursor,omitempty"`
}

type AvailabilityResponse struct {
	RoomTypeID  uuid.UUID `json:"roomTypeId"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	Nights      int       `json:"nights"`
	Available   bool      `json:"available"`
	QuotedPrice string    `json:"quotedPrice"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	out := &ReservationResponse{}
	// plain fields share names; dates and money are rendered below
	if err := copier.Copy(out, rm); err != nil {
		out = &ReservationResponse{
			ID:               rm.ID,
			ConfirmationCode: rm.ConfirmationCode,
			CustomerID:       rm.CustomerID,
			HotelID:          rm.HotelID,
			HotelName:        rm.HotelName,
			RoomTypeID:       rm.RoomTypeID,
			RoomTypeName:     rm.RoomTypeName,
			Nights:           rm.Nights,
			GuestCount:       rm.GuestCount,
			Status:           rm.Status,
			CreatedAt:        rm.CreatedAt,
			UpdatedAt:        rm.UpdatedAt,
		}
	}
	out.CheckIn = calendar.Format(rm.CheckIn)
	out.CheckOut = calendar.Format(rm.CheckOut)
	out.TotalPrice = rm.TotalPrice.StringFixed(2)
	return out
}

func FromReservationPage(page *queries.ReservationPage) *ReservationListResponse {
	items := make([]*ReservationResponse, len(page.Items))
	for i, v := range page.Items {
		items[i] = FromReservationView(v)
	}
	return &ReservationListResponse{Items: items, NextCursor: page.NextCursor}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		RoomTypeID:  v.RoomTypeID,
		CheckIn:     calendar.Format(v.CheckIn),
		CheckOut:    calendar.Format(v.CheckOut),
		Nights:      v.Nights,
		Available:   v.Available,
		QuotedPrice: v.QuotedPrice.StringFixed(2),
	}
}
