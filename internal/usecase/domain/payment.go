package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
)

const eventChargeSuccess = "charge.success"

// InitializeParcelPayment opens a Paystack checkout for the parcel total.
func (u *Usecase) InitializeParcelPayment(ctx context.Context, actor entities.Actor, parcelID string) (*entities.Checkout, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	p, payer, err := u.payableParcel(ctx, actor, parcelID)
	if err != nil {
		return nil, err
	}
	if co, err := u.openParcelCheckout(ctx, *p); err != nil || co != nil {
		return co, err
	}

	pm := parcelPayment(*p, *payer, entities.MethodPaystack)
	pm.Reference = newReference(string(entities.PaymentParcel))
	pm.Status = entities.PaymentPending

	return u.checkout(ctx, *payer, pm, gateway.InitializeRequest{
		Metadata: map[string]string{"parcelId": p.ID},
	})
}

// PayParcelWithWallet settles a parcel from the sender's wallet balance.
func (u *Usecase) PayParcelWithWallet(ctx context.Context, actor entities.Actor, parcelID string) (*entities.Payment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	p, payer, err := u.payableParcel(ctx, actor, parcelID)
	if err != nil {
		return nil, err
	}

	pm := parcelPayment(*p, *payer, entities.MethodWallet)
	pm.Reference = newReference("wallet")

	paid, wt, err := u.repo.PayParcelFromWallet(ctx, pm)
	if err != nil {
		u.log.Warnw("wallet payment rejected", "error", err, "parcel_id", parcelID)
		return nil, err
	}
	u.metrics.WalletTransactions.WithLabelValues(string(wt.Type)).Inc()
	u.metrics.PaymentsSettled.WithLabelValues(string(paid.Kind), string(paid.Status)).Inc()
	u.log.Infow("parcel paid from wallet", "parcel_id", parcelID, "reference", paid.Reference, "amount", paid.Amount)
	return paid, nil
}

func (u *Usecase) payableParcel(ctx context.Context, actor entities.Actor, parcelID string) (*entities.Parcel, *entities.User, error) {
	if parcelID == "" {
		return nil, nil, fmt.Errorf("%w: parcel id is required", entities.ErrInvalidArgument)
	}
	p, err := u.repo.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, nil, err
	}
	if p.SenderID != actor.ID {
		return nil, nil, fmt.Errorf("%w: only the sender can pay for a parcel", entities.ErrForbidden)
	}
	if p.PaidAt != nil {
		return nil, nil, entities.ErrAlreadyPaid
	}
	if !p.Status.Payable() {
		return nil, nil, fmt.Errorf("%w: parcel is %s", entities.ErrInvalidArgument, p.Status)
	}
	payer, err := u.repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, payer, nil
}

// openParcelCheckout returns the parcel's checkout that is still awaiting payment,
// so a sender retrying is never charged twice. A checkout the gateway has since
// failed or abandoned yields nil and a new one may be opened.
func (u *Usecase) openParcelCheckout(ctx context.Context, p entities.Parcel) (*entities.Checkout, error) {
	pending, err := u.repo.PendingParcelPayment(ctx, p.ID)
	if errors.Is(err, entities.ErrPaymentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	current, err := u.reconcile(ctx, pending)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case entities.PaymentSuccess:
		return nil, entities.ErrAlreadyPaid
	case entities.PaymentPending:
		if current.Amount == p.Total() && current.AuthorizationURL != nil && current.AccessCode != nil {
			u.log.Infow("reusing open checkout", "parcel_id", p.ID, "reference", current.Reference)
			return &entities.Checkout{
				AuthorizationURL: *current.AuthorizationURL,
				AccessCode:       *current.AccessCode,
				Reference:        current.Reference,
			}, nil
		}
	}
	return nil, nil
}

func parcelPayment(p entities.Parcel, payer entities.User, method entities.PaymentMethod) entities.Payment {
	fee := entities.CalculatePlatformFee(p.Compensation, payer.SubscriptionTier)
	return entities.Payment{
		Kind:          entities.PaymentParcel,
		UserID:        payer.ID,
		ParcelID:      &p.ID,
		CarrierID:     p.TransporterID,
		Amount:        p.Total(),
		PlatformFee:   fee.PlatformFee,
		CarrierAmount: fee.CarrierAmount,
		InsuranceFee:  p.InsuranceFee,
		Method:        method,
	}
}

// checkout records a pending payment and asks the gateway for a hosted page.
func (u *Usecase) checkout(
	ctx context.Context,
	payer entities.User,
	pm entities.Payment,
	req gateway.InitializeRequest,
) (*entities.Checkout, error) {
	req.Email = payer.Email
	req.Amount = pm.Amount
	req.Reference = pm.Reference
	req.CallbackURL = u.settings.CallbackURL
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	req.Metadata["kind"] = string(pm.Kind)

	co, err := u.payments.Initialize(ctx, req)
	if err != nil {
		return nil, err
	}
	pm.AccessCode = &co.AccessCode
	pm.AuthorizationURL = &co.AuthorizationURL

	if _, err := u.repo.CreatePayment(ctx, pm); err != nil {
		return nil, err
	}
	u.log.Infow("checkout created", "reference", pm.Reference, "kind", pm.Kind, "amount", pm.Amount)
	return &co, nil
}

// VerifyPayment reconciles a payment with the gateway.
func (u *Usecase) VerifyPayment(ctx context.Context, actor entities.Actor, reference string) (*entities.Payment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", entities.ErrInvalidArgument)
	}
	pm, err := u.repo.GetPaymentByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if pm.UserID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: payment belongs to another user", entities.ErrForbidden)
	}
	return u.reconcile(ctx, pm)
}

// reconcile settles a pending payment from the gateway's view; settled ones are returned unchanged.
func (u *Usecase) reconcile(ctx context.Context, pm *entities.Payment) (*entities.Payment, error) {
	if pm.Status != entities.PaymentPending {
		return pm, nil
	}

	tx, err := u.payments.Verify(ctx, pm.Reference)
	if err != nil {
		return nil, err
	}

	status := settlementStatus(tx, pm.Amount)
	if status == entities.PaymentPending {
		return pm, nil
	}
	if status == entities.PaymentFailed && tx.Status == gateway.TxSuccess {
		u.log.Warnw("gateway amount mismatch", "reference", pm.Reference, "expected", pm.Amount, "got", tx.Amount)
	}

	paidAt := u.now()
	if tx.PaidAt != nil {
		paidAt = *tx.PaidAt
	}
	settled, changed, err := u.repo.SettlePayment(ctx, pm.Reference, entities.Settlement{
		Status:          status,
		PaidAt:          paidAt,
		GatewayData:     tx.Raw,
		SubscriptionEnd: paidAt.Add(entities.SubscriptionPeriod),
	})
	if err != nil {
		return nil, err
	}
	if changed {
		u.metrics.PaymentsSettled.WithLabelValues(string(settled.Kind), string(settled.Status)).Inc()
		u.log.Infow("payment settled", "reference", settled.Reference, "kind", settled.Kind, "status", settled.Status)
		u.notifySettled(ctx, *settled)
	}
	return settled, nil
}

func settlementStatus(tx gateway.Transaction, expected int64) entities.PaymentStatus {
	switch tx.Status {
	case gateway.TxSuccess:
		if tx.Amount != expected {
			return entities.PaymentFailed
		}
		return entities.PaymentSuccess
	case gateway.TxFailed:
		return entities.PaymentFailed
	case gateway.TxAbandoned:
		return entities.PaymentCancelled
	}
	return entities.PaymentPending
}

func (u *Usecase) notifySettled(ctx context.Context, pm entities.Payment) {
	title := "Payment failed"
	if pm.Status == entities.PaymentSuccess {
		title = "Payment successful"
	}
	var body string
	switch pm.Kind {
	case entities.PaymentTopup:
		body = fmt.Sprintf("Wallet top-up of ₦%d: %s", pm.Amount/100, pm.Status)
	case entities.PaymentSubscription:
		body = fmt.Sprintf("Subscription payment of ₦%d: %s", pm.Amount/100, pm.Status)
	default:
		body = fmt.Sprintf("Parcel payment of ₦%d: %s", pm.Amount/100, pm.Status)
		if pm.Status == entities.PaymentSuccess && pm.ReleasedAt != nil {
			title = "Payment refunded"
			body = fmt.Sprintf("Parcel payment of ₦%d arrived after the parcel closed and was refunded to your wallet", pm.Amount/100)
		}
	}
	u.notify(ctx, entities.Notification{
		UserID:   pm.UserID,
		Kind:     entities.NotifyPayment,
		Title:    title,
		Body:     body,
		ParcelID: pm.ParcelID,
	})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandleWebhook authenticates a gateway callback and reconciles the payment it names.
func (u *Usecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !u.payments.VerifySignature(body, signature) {
		u.log.Warnw("webhook signature rejected")
		return fmt.Errorf("%w: bad webhook signature", entities.ErrUnauthorized)
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: malformed webhook body", entities.ErrInvalidArgument)
	}
	if ev.Event != eventChargeSuccess {
		u.log.Infow("webhook ignored", "event", ev.Event)
		return nil
	}
	if ev.Data.Reference == "" {
		return fmt.Errorf("%w: webhook without reference", entities.ErrInvalidArgument)
	}

	pm, err := u.repo.GetPaymentByReference(ctx, ev.Data.Reference)
	if err != nil {
		if errors.Is(err, entities.ErrPaymentNotFound) {
			u.log.Warnw("webhook for unknown reference", "reference", ev.Data.Reference)
			return nil
		}
		return err
	}
	_, err = u.reconcile(ctx, pm)
	return err
}

// PaymentHistory lists the caller's payments newest first.
func (u *Usecase) PaymentHistory(ctx context.Context, userID string, page entities.Page) ([]entities.Payment, entities.Pagination, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	page = page.Normalize()
	items, total, err := u.repo.ListPayments(ctx, userID, page)
	if err != nil {
		return nil, entities.Pagination{}, err
	}
	return items, entities.NewPagination(page, total), nil
}
