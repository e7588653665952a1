// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"parcelpeer/internal/entities"
	api "parcelpeer/internal/oapi"
)

// ToOAPIUser converts entity to API model.
func ToOAPIUser(u entities.User) api.User {
	return api.User{
		Id:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Phone:              u.Phone,
		Rating:             u.Rating,
		Verified:           u.Verified,
		Role:               string(u.Role),
		Suspended:          u.Suspended,
		SubscriptionTier:   string(u.SubscriptionTier),
		SubscriptionStatus: string(u.SubscriptionStatus),
		SubscriptionEnd:    u.SubscriptionEnd,
		MonthlyParcelCount: u.MonthlyParcelCount,
		WalletBalance:      u.WalletBalance,
		CreatedAt:          u.CreatedAt,
	}
}

// ToOAPIUserList converts a page of users.
func ToOAPIUserList(list []entities.User, p entities.Pagination) api.UserList {
	res := api.UserList{Users: make([]api.User, 0, len(list)), Pagination: ToOAPIPagination(p)}
	for _, u := range list {
		res.Users = append(res.Users, ToOAPIUser(u))
	}
	return res
}

// ToOAPIPublicUser hides private account fields.
func ToOAPIPublicUser(u entities.User) api.PublicUser {
	return api.PublicUser{
		Id:        u.ID,
		Name:      u.Name,
		Rating:    u.Rating,
		Verified:  u.Verified,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ToOAPISession converts an issued session.
func ToOAPISession(s entities.Session) api.Session {
	return api.Session{Token: s.Token, ExpiresAt: s.ExpiresAt, User: ToOAPIUser(s.User)}
}

// ToOAPIUserDetail converts an admin user view.
func ToOAPIUserDetail(d entities.UserDetail) api.AdminUserDetail {
	return api.AdminUserDetail{
		User: ToOAPIUser(d.User),
		Stats: api.UserActivity{
			SentParcels:        d.Stats.SentParcels,
			TransportedParcels: d.Stats.TransportedParcels,
			Reviews:            d.Stats.Reviews,
			Disputes:           d.Stats.Disputes,
		},
	}
}

// ToOAPIPagination converts page metadata.
func ToOAPIPagination(p entities.Pagination) api.Pagination {
	return api.Pagination{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

// FromOAPICreateParcel converts request body to entity.
func FromOAPICreateParcel(src api.CreateParcelRequest) entities.Parcel {
	tier := entities.InsuranceTierName(src.InsuranceTier)
	if tier == "" {
		tier = entities.InsuranceNone
	}
	return entities.Parcel{
		Origin:              src.Origin,
		Destination:         src.Destination,
		OriginLat:           src.OriginLat,
		OriginLng:           src.OriginLng,
		DestinationLat:      src.DestinationLat,
		DestinationLng:      src.DestinationLng,
		Size:                entities.ParcelSize(src.Size),
		Weight:              src.Weight,
		Description:         src.Description,
		SpecialInstructions: src.SpecialInstructions,
		IsFragile:           src.IsFragile,
		Compensation:        src.Compensation,
		DeclaredValue:       src.DeclaredValue,
		InsuranceTier:       tier,
		PickupDate:          src.PickupDate,
		ExpiresAt:           src.ExpiresAt,
		ReceiverName:        src.ReceiverName,
		ReceiverPhone:       src.ReceiverPhone,
		ReceiverEmail:       src.ReceiverEmail,
	}
}

// ToOAPIParcel converts entity to API model.
func ToOAPIParcel(p entities.Parcel) api.Parcel {
	return api.Parcel{
		Id:                  p.ID,
		SenderId:            p.SenderID,
		SenderName:          p.SenderName,
		SenderRating:        p.SenderRating,
		TransporterId:       p.TransporterID,
		ReceiverId:          p.ReceiverID,
		Origin:              p.Origin,
		Destination:         p.Destination,
		OriginLat:           p.OriginLat,
		OriginLng:           p.OriginLng,
		DestinationLat:      p.DestinationLat,
		DestinationLng:      p.DestinationLng,
		Size:                string(p.Size),
		Weight:              p.Weight,
		Description:         p.Description,
		SpecialInstructions: p.SpecialInstructions,
		IsFragile:           p.IsFragile,
		Compensation:        p.Compensation,
		DeclaredValue:       p.DeclaredValue,
		InsuranceTier:       string(p.InsuranceTier),
		InsuranceFee:        p.InsuranceFee,
		Total:               p.Total(),
		PickupDate:          p.PickupDate,
		ExpiresAt:           p.ExpiresAt,
		ReceiverName:        p.ReceiverName,
		ReceiverPhone:       p.ReceiverPhone,
		ReceiverEmail:       p.ReceiverEmail,
		Status:              string(p.Status),
		PaidAt:              p.PaidAt,
		DeliveryProofUrl:    p.DeliveryProofURL,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// ToOAPIParcelList converts a page of parcels.
func ToOAPIParcelList(list []entities.Parcel, p entities.Pagination) api.ParcelList {
	res := api.ParcelList{Parcels: make([]api.Parcel, 0, len(list)), Pagination: ToOAPIPagination(p)}
	for _, item := range list {
		res.Parcels = append(res.Parcels, ToOAPIParcel(item))
	}
	return res
}

// ToOAPICarrierLocation converts a position report.
func ToOAPICarrierLocation(l entities.CarrierLocation) api.CarrierLocation {
	return api.CarrierLocation{
		Id:        l.ID,
		ParcelId:  l.ParcelID,
		CarrierId: l.CarrierID,
		Lat:       l.Lat,
		Lng:       l.Lng,
		Speed:     l.Speed,
		CreatedAt: l.CreatedAt,
	}
}

// ToOAPIETA converts a delivery estimate.
func ToOAPIETA(e entities.ETA) api.ETA {
	res := api.ETA{
		Available:  e.Available,
		Message:    e.Message,
		DistanceKm: e.DistanceKm,
		EtaMinutes: e.Minutes,
		Nearby:     e.Nearby(),
	}
	if e.CarrierLocation != nil {
		loc := ToOAPICarrierLocation(*e.CarrierLocation)
		res.CarrierLocation = &loc
	}
	return res
}

// ToOAPIReceiverStats converts incoming parcel counts.
func ToOAPIReceiverStats(s entities.ReceiverStats) api.ReceiverStats {
	return api.ReceiverStats{
		TotalReceived: s.TotalReceived,
		Delivered:     s.Delivered,
		InTransit:     s.InTransit,
		Pending:       s.Pending,
	}
}

// ToOAPITrackingEvents converts a parcel's history.
func ToOAPITrackingEvents(list []entities.TrackingEvent) []api.TrackingEvent {
	res := make([]api.TrackingEvent, 0, len(list))
	for _, e := range list {
		res = append(res, api.TrackingEvent{
			Id:        e.ID,
			ParcelId:  e.ParcelID,
			Status:    string(e.Status),
			Note:      e.Note,
			ActorId:   e.ActorID,
			CreatedAt: e.CreatedAt,
		})
	}
	return res
}

// ToOAPIPlans converts the plan catalogue.
func ToOAPIPlans(plans []entities.SubscriptionPlan) api.PlansResponse {
	out := make([]api.SubscriptionPlan, 0, len(plans))
	for _, p := range plans {
		var limit *int
		if !p.Unlimited() {
			l := p.MonthlyParcelLimit
			limit = &l
		}
		out = append(out, api.SubscriptionPlan{
			Tier:                  string(p.Tier),
			Name:                  p.Name,
			Price:                 p.Price,
			PriceInKobo:           p.PriceInKobo,
			MonthlyParcelLimit:    limit,
			PlatformFeePercentage: p.PlatformFeePercentage,
			Features:              p.Features,
			PaystackPlanCode:      p.PaystackPlanCode,
		})
	}
	return api.PlansResponse{Plans: out}
}

// ToOAPICheckout converts a hosted checkout.
func ToOAPICheckout(c entities.Checkout) api.Checkout {
	return api.Checkout{AuthorizationUrl: c.AuthorizationURL, AccessCode: c.AccessCode, Reference: c.Reference}
}

// ToOAPIPayment converts entity to API model.
func ToOAPIPayment(p entities.Payment) api.Payment {
	var tier *string
	if p.SubscriptionTier != nil {
		t := string(*p.SubscriptionTier)
		tier = &t
	}
	return api.Payment{
		Id:               p.ID,
		Reference:        p.Reference,
		Kind:             string(p.Kind),
		UserId:           p.UserID,
		ParcelId:         p.ParcelID,
		SubscriptionTier: tier,
		Amount:           p.Amount,
		PlatformFee:      p.PlatformFee,
		CarrierAmount:    p.CarrierAmount,
		InsuranceFee:     p.InsuranceFee,
		Currency:         p.Currency,
		Status:           string(p.Status),
		Method:           string(p.Method),
		PaidAt:           p.PaidAt,
		ReleasedAt:       p.ReleasedAt,
		CreatedAt:        p.CreatedAt,
	}
}

// ToOAPIPaymentList converts a page of payments.
func ToOAPIPaymentList(list []entities.Payment, p entities.Pagination) api.PaymentList {
	res := api.PaymentList{Payments: make([]api.Payment, 0, len(list)), Pagination: ToOAPIPagination(p)}
	for _, item := range list {
		res.Payments = append(res.Payments, ToOAPIPayment(item))
	}
	return res
}

// ToOAPIWalletTransactions converts ledger entries.
func ToOAPIWalletTransactions(list []entities.WalletTransaction) []api.WalletTransaction {
	res := make([]api.WalletTransaction, 0, len(list))
	for _, t := range list {
		res = append(res, api.WalletTransaction{
			Id:            t.ID,
			Type:          string(t.Type),
			Amount:        t.Amount,
			BalanceBefore: t.BalanceBefore,
			BalanceAfter:  t.BalanceAfter,
			Reference:     t.Reference,
			Description:   t.Description,
			ParcelId:      t.ParcelID,
			CreatedAt:     t.CreatedAt,
		})
	}
	return res
}

// ToOAPIConversation converts entity to API model.
func ToOAPIConversation(c entities.Conversation) api.Conversation {
	return api.Conversation{
		Id:              c.ID,
		ParcelId:        c.ParcelID,
		Participant1Id:  c.Participant1ID,
		Participant2Id:  c.Participant2ID,
		OtherUserName:   c.OtherUserName,
		LastMessage:     c.LastMessage,
		LastMessageTime: c.LastMessageTime,
		CreatedAt:       c.CreatedAt,
	}
}

// ToOAPIConversations converts a conversation listing.
func ToOAPIConversations(list []entities.Conversation) []api.Conversation {
	res := make([]api.Conversation, 0, len(list))
	for _, c := range list {
		res = append(res, ToOAPIConversation(c))
	}
	return res
}

// ToOAPIMessage converts entity to API model.
func ToOAPIMessage(m entities.Message) api.Message {
	return api.Message{
		Id:             m.ID,
		ConversationId: m.ConversationID,
		SenderId:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}

// ToOAPIMessages converts a chat thread.
func ToOAPIMessages(list []entities.Message) []api.Message {
	res := make([]api.Message, 0, len(list))
	for _, m := range list {
		res = append(res, ToOAPIMessage(m))
	}
	return res
}

// ToOAPIDispute converts entity to API model.
func ToOAPIDispute(d entities.Dispute) api.Dispute {
	return api.Dispute{
		Id:               d.ID,
		ParcelId:         d.ParcelID,
		ComplainantId:    d.ComplainantID,
		RespondentId:     d.RespondentID,
		Subject:          d.Subject,
		Description:      d.Description,
		Status:           string(d.Status),
		Resolution:       d.Resolution,
		RefundAmount:     d.RefundAmount,
		RefundedToWallet: d.RefundedToWallet,
		AdminId:          d.AdminID,
		ResolvedAt:       d.ResolvedAt,
		AutoCloseAt:      d.AutoCloseAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToOAPIDisputeList converts a page of disputes.
func ToOAPIDisputeList(list []entities.Dispute, p entities.Pagination) api.DisputeList {
	res := api.DisputeList{Disputes: make([]api.Dispute, 0, len(list)), Pagination: ToOAPIPagination(p)}
	for _, d := range list {
		res.Disputes = append(res.Disputes, ToOAPIDispute(d))
	}
	return res
}

// ToOAPIDisputeMessage converts one thread entry.
func ToOAPIDisputeMessage(m entities.DisputeMessage) api.DisputeMessage {
	return api.DisputeMessage{
		Id:             m.ID,
		DisputeId:      m.DisputeID,
		SenderId:       m.SenderID,
		Message:        m.Message,
		AttachmentUrl:  m.AttachmentURL,
		IsAdminMessage: m.IsAdminMessage,
		CreatedAt:      m.CreatedAt,
	}
}

// ToOAPIDisputeDetail converts a dispute with its thread.
func ToOAPIDisputeDetail(d entities.Dispute, msgs []entities.DisputeMessage) api.DisputeDetail {
	res := api.DisputeDetail{Dispute: ToOAPIDispute(d), Messages: make([]api.DisputeMessage, 0, len(msgs))}
	for _, m := range msgs {
		res.Messages = append(res.Messages, ToOAPIDisputeMessage(m))
	}
	return res
}

// ToOAPIReview converts entity to API model.
func ToOAPIReview(r entities.Review) api.Review {
	return api.Review{
		Id:         r.ID,
		ParcelId:   r.ParcelID,
		ReviewerId: r.ReviewerID,
		RevieweeId: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Type:       string(r.Type),
		CreatedAt:  r.CreatedAt,
	}
}

// ToOAPIReviews converts a review listing.
func ToOAPIReviews(list []entities.Review) []api.Review {
	res := make([]api.Review, 0, len(list))
	for _, r := range list {
		res = append(res, ToOAPIReview(r))
	}
	return res
}

// ToOAPINotification converts entity to API model.
func ToOAPINotification(n entities.Notification) api.Notification {
	return api.Notification{
		Id:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		ParcelId:  n.ParcelID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ToOAPINotifications converts a notification listing.
func ToOAPINotifications(list []entities.Notification) []api.Notification {
	res := make([]api.Notification, 0, len(list))
	for _, n := range list {
		res = append(res, ToOAPINotification(n))
	}
	return res
}
