package subscriber

import (
	"net/http"

	"inkwell/internal/handler/http/respond"
	subUC "inkwell/internal/usecase/subscriber"
)

type emailRequest struct {
	Email string `json:"email" example:"reader@example.com"`
}

// SubscribeHandler registers a newsletter subscription.
type SubscribeHandler struct{ Svc *subUC.Service }

// ServeHTTP メルマガ登録
// @Summary      メルマガ登録
// @Description  新規登録は 201、解除済みアドレスの再登録は 200 を返します
// @Tags         subscribe
// @Accept       json
// @Produce      json
// @Param        request body emailRequest true "メールアドレス"
// @Success      201 {object} respond.Envelope{data=DTO} "登録"
// @Success      200 {object} respond.Envelope{data=DTO} "再登録"
// @Failure      400 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody "登録済み"
// @Failure      429 {object} respond.ErrorBody
// @Router       /subscribe [post]
func (h SubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	sub, created, err := h.Svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	code, msg := http.StatusOK, "subscription reactivated"
	if created {
		code, msg = http.StatusCreated, "subscribed"
	}
	respond.JSON(w, code, respond.Envelope{Success: true, Data: toDTO(sub), Message: msg})
}

// UnsubscribeHandler cancels an active subscription.
type UnsubscribeHandler struct{ Svc *subUC.Service }

// ServeHTTP メルマガ解除
// @Summary      メルマガ解除
// @Tags         subscribe
// @Accept       json
// @Produce      json
// @Param        request body emailRequest true "メールアドレス"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "未登録"
// @Router       /subscribe/unsubscribe [post]
func (h UnsubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	if err := h.Svc.Unsubscribe(r.Context(), req.Email); err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "unsubscribed")
}
